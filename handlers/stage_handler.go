package handlers

import (
	"net/http"

	"github.com/haneul-lab/league-system/services"
)

type StageHandler struct {
	stageService services.StageService
}

func NewStageHandler(stageService services.StageService) *StageHandler {
	return &StageHandler{stageService: stageService}
}

// CreateGroupStage godoc
// @Summary Создать групповой этап
// @Tags stages
// @Description Ростер лиги случайно и поровну делится на группы, круговые матчи генерируются сразу.
// @Accept json
// @Produce json
// @Param stage body services.CreateGroupStageInput true "Параметры этапа"
// @Success 201 {object} map[string]interface{} "Созданный этап"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Конфликт порядка этапов"
// @Security BearerAuth
// @Router /stages/group [post]
func (h *StageHandler) CreateGroupStage(w http.ResponseWriter, r *http.Request) {
	var input services.CreateGroupStageInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage, err := h.stageService.CreateGroupStage(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmGroups godoc
// @Summary Подтвердить составы групп
// @Tags stages
// @Description Полная замена составов: старые группы, матчи и таблицы сносятся, новые строятся из переданных списков.
// @Accept json
// @Produce json
// @Param stageID path int true "Stage ID"
// @Param groups body services.ConfirmGroupsInput true "Списки игроков по группам"
// @Success 200 {object} map[string]interface{} "Обновлённый этап"
// @Failure 404 {object} map[string]string "Этап не найден"
// @Failure 409 {object} map[string]string "Этап уже стартовал"
// @Security BearerAuth
// @Router /stages/{stageID}/groups [put]
func (h *StageHandler) ConfirmGroups(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ConfirmGroupsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage, err := h.stageService.ConfirmGroups(r.Context(), stageID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTournamentStage godoc
// @Summary Создать этап плей-офф
// @Tags stages
// @Description Размер сетки считается от таблиц привязанного группового этапа, сетка сеется и начальные bye продвигаются атомарно.
// @Accept json
// @Produce json
// @Param stage body services.CreateTournamentStageInput true "Параметры этапа"
// @Success 201 {object} map[string]interface{} "Созданный этап (и предупреждение при форсированном минимуме)"
// @Failure 400 {object} map[string]string "Нет подходящего группового этапа / ошибка валидации"
// @Security BearerAuth
// @Router /stages/tournament [post]
func (h *StageHandler) CreateTournamentStage(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentStageInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.stageService.CreateTournamentStage(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"stage": result.Stage}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStage godoc
// @Summary Этап целиком
// @Tags stages
// @Description Группы, игроки, матчи и результаты одного этапа.
// @Produce json
// @Param stageID path int true "Stage ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Этап не найден"
// @Router /stages/{stageID} [get]
func (h *StageHandler) GetStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage, err := h.stageService.GetStage(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary Сетка плей-офф этапа
// @Tags stages
// @Produce json
// @Param stageID path int true "Stage ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Этап не является плей-офф"
// @Failure 404 {object} map[string]string "Этап не найден"
// @Router /stages/{stageID}/bracket [get]
func (h *StageHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.stageService.GetBracket(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGroupStandings godoc
// @Summary Турнирная таблица группы
// @Tags groups
// @Produce json
// @Param groupID path int true "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/standings [get]
func (h *StageHandler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.stageService.GetGroupStandings(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteStage godoc
// @Summary Удалить этап
// @Tags stages
// @Description Сначала рвутся ссылки next_match_id, затем удаляются результаты, матчи, группы и сам этап.
// @Param stageID path int true "Stage ID"
// @Success 204 "Этап удалён"
// @Failure 404 {object} map[string]string "Этап не найден"
// @Security BearerAuth
// @Router /stages/{stageID} [delete]
func (h *StageHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.stageService.DeleteStage(r.Context(), stageID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
