package handlers

import (
	"errors"
	"net/http"

	"github.com/haneul-lab/league-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// RecordResult godoc
// @Summary Записать результат матча
// @Tags matches
// @Description Повторный вызов по тому же матчу — коррекция: старый результат замещается, таблица или сетка пересчитываются.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param result body services.RecordResultInput true "Счёт по сетам"
// @Success 200 {object} map[string]interface{} "Обновлённый матч"
// @Failure 400 {object} map[string]string "Некорректный счёт / матч не готов"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Следующий матч уже завершён"
// @Security BearerAuth
// @Router /matches/{matchID}/result [post]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if len(input.Sets) == 0 {
		badRequestResponse(w, r, errors.New("at least one set score is required"))
		return
	}

	match, err := h.matchService.RecordMatchResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
