package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/results"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/standings"
	"github.com/Dosada05/league-system/storage"
	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the write endpoints behind RequireAdmin.
type AdminHandler struct {
	admin services.AdminService
}

func NewAdminHandler(admin services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type scheduleInput struct {
	Seed *int `json:"seed"`
}

// GenerateSchedule godoc
// @Summary Сгенерировать расписание группового этапа
// @Tags admin
// @Description Удаляет все матчи и голы и строит круговое расписание по зерну.
// @Accept json
// @Produce json
// @Param input body scheduleInput true "Зерно генератора"
// @Success 201 {object} services.ScheduleResult
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string "Нечётное число команд"
// @Security BearerAuth
// @Router /api/admin/schedule [post]
func (h *AdminHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var input scheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Seed == nil {
		badRequestResponse(w, r, errors.New("seed is required"))
		return
	}

	res, err := h.admin.GenerateSchedule(r.Context(), *input.Seed)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateStage godoc
// @Summary Создать стадию плей-офф
// @Tags admin
// @Produce json
// @Param stage path string true "qual, qf, sf, final"
// @Success 201 {object} services.StageResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Стадия не готова или уже создана"
// @Security BearerAuth
// @Router /api/admin/stages/{stage} [post]
func (h *AdminHandler) CreateStage(w http.ResponseWriter, r *http.Request) {
	stage, err := models.ParseMatchType(chi.URLParam(r, "stage"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.admin.CreateStage(r.Context(), stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Сохранить результат матча
// @Tags admin
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body results.Submission true "Счёт, голы или техническое поражение"
// @Success 200 {object} results.Recorded
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/matches/{matchID}/result [post]
func (h *AdminHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var sub results.Submission
	if err := readJSON(w, r, &sub); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rec, err := h.admin.RecordResult(r.Context(), matchID, sub)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, rec, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearResult godoc
// @Summary Сбросить результат матча
// @Tags admin
// @Description Удаляет счёт и голы матча и все последующие стадии плей-офф.
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} models.ClearResult
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/matches/{matchID}/result [delete]
func (h *AdminHandler) ClearResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.admin.ClearResult(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddManualMatch godoc
// @Summary Добавить матч группового этапа вручную
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.ManualMatchInput true "Матч"
// @Success 201 {object} map[string]interface{} "match"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/matches [post]
func (h *AdminHandler) AddManualMatch(w http.ResponseWriter, r *http.Request) {
	var input services.ManualMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.admin.AddManualMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": m}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type teamNameInput struct {
	Name string `json:"name"`
}

// AddTeam godoc
// @Summary Добавить команду
// @Tags admin
// @Accept json
// @Produce json
// @Param input body teamNameInput true "Название"
// @Success 201 {object} map[string]interface{} "team"
// @Failure 409 {object} map[string]string "Название занято"
// @Security BearerAuth
// @Router /api/admin/teams [post]
func (h *AdminHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	var input teamNameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.admin.AddTeam(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RenameTeam godoc
// @Summary Переименовать команду
// @Tags admin
// @Accept json
// @Param teamID path int true "Team ID"
// @Param input body teamNameInput true "Новое название"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/teams/{teamID} [patch]
func (h *AdminHandler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input teamNameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.admin.RenameTeam(r.Context(), teamID, input.Name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadTeamLogo godoc
// @Summary Загрузить логотип команды
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param teamID path int true "Team ID"
// @Param logo formData file true "PNG, JPEG, WEBP или SVG до 2 МБ"
// @Success 200 {object} map[string]interface{} "team"
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /api/admin/teams/{teamID}/logo [post]
func (h *AdminHandler) UploadTeamLogo(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxLogoSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxLogoSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get logo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for logo"))
		return
	}

	team, err := h.admin.UploadTeamLogo(r.Context(), teamID, services.LogoUpload{
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddPlayer godoc
// @Summary Добавить игрока
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.PlayerInput true "Игрок"
// @Success 201 {object} map[string]interface{} "player"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Security BearerAuth
// @Router /api/admin/players [post]
func (h *AdminHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.admin.AddPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemovePlayer godoc
// @Summary Удалить игрока вместе с его голами
// @Tags admin
// @Param playerID path int true "Player ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/players/{playerID} [delete]
func (h *AdminHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.admin.RemovePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportTable godoc
// @Summary Загрузить собственную таблицу
// @Tags admin
// @Accept json
// @Produce json
// @Param input body []standings.CustomRowInput true "Строки таблицы"
// @Success 200 {object} map[string]interface{} "standings"
// @Failure 422 {object} map[string]string "Неизвестные команды"
// @Security BearerAuth
// @Router /api/admin/table [put]
func (h *AdminHandler) ImportTable(w http.ResponseWriter, r *http.Request) {
	var rows []standings.CustomRowInput
	if err := readJSON(w, r, &rows); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.admin.ImportTable(r.Context(), rows)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearCustomTable godoc
// @Summary Вернуть рассчитанную таблицу
// @Tags admin
// @Success 204
// @Security BearerAuth
// @Router /api/admin/table [delete]
func (h *AdminHandler) ClearCustomTable(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ClearCustomTable(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportMatches godoc
// @Summary Импорт матчей
// @Tags admin
// @Description Заменяет все матчи импортированными. Команды сопоставляются по названию.
// @Accept json
// @Produce json
// @Param input body []services.MatchRecord true "Матчи"
// @Success 200 {object} map[string]interface{} "imported"
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/matches/import [post]
func (h *AdminHandler) ImportMatches(w http.ResponseWriter, r *http.Request) {
	var records []services.MatchRecord
	if err := readJSON(w, r, &records); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	n, err := h.admin.ImportMatches(r.Context(), records)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"imported": n}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetData godoc
// @Summary Удалить матчи, голы и настройки
// @Tags admin
// @Success 204
// @Security BearerAuth
// @Router /api/admin/reset [post]
func (h *AdminHandler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ResetData(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
