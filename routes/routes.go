package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/haneul-lab/league-system/handlers"
	"github.com/haneul-lab/league-system/middleware"
	"github.com/haneul-lab/league-system/models"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	stageHandler *handlers.StageHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	operatorRoles := []string{string(models.RoleOperator), string(models.RoleAdmin)}

	router.Post("/auth/login", authHandler.Login)

	router.Route("/stages", func(r chi.Router) {
		// Публичные маршруты для просмотра этапов
		r.Get("/{stageID}", stageHandler.GetStage)
		r.Get("/{stageID}/bracket", stageHandler.GetBracket)

		// Защищённые маршруты только для операторов
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(operatorRoles...))

			r.Post("/group", stageHandler.CreateGroupStage)
			r.Post("/tournament", stageHandler.CreateTournamentStage)
			r.Put("/{stageID}/groups", stageHandler.ConfirmGroups)
			r.Delete("/{stageID}", stageHandler.DeleteStage)
		})
	})

	router.Get("/groups/{groupID}/standings", stageHandler.GetGroupStandings)

	router.Route("/matches", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(operatorRoles...))

			r.Post("/{matchID}/result", matchHandler.RecordResult)
		})
	})

	router.Get("/ws/stages/{stageID}", webSocketHandler.ServeWs)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
