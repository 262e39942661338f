package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/stats"
)

// LeagueHandler serves the public read-only pages.
type LeagueHandler struct {
	league services.LeagueService
	admin  services.AdminService
}

func NewLeagueHandler(league services.LeagueService, admin services.AdminService) *LeagueHandler {
	return &LeagueHandler{league: league, admin: admin}
}

// Standings godoc
// @Summary Турнирная таблица
// @Tags league
// @Description Загруженная таблица, если она задана, иначе рассчитанная по матчам группового этапа.
// @Produce json
// @Success 200 {object} map[string]interface{} "standings"
// @Failure 500 {object} map[string]string
// @Router /api/standings [get]
func (h *LeagueHandler) Standings(w http.ResponseWriter, r *http.Request) {
	view, err := h.league.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": view.Rows, "custom": view.Custom}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Matches godoc
// @Summary Список матчей
// @Tags league
// @Produce json
// @Param type query string false "group, qual, qf, sf, final"
// @Param round query int false "Номер тура"
// @Success 200 {object} map[string]interface{} "matches"
// @Failure 400 {object} map[string]string
// @Router /api/matches [get]
func (h *LeagueHandler) Matches(w http.ResponseWriter, r *http.Request) {
	var filter services.MatchFilter
	if raw := r.URL.Query().Get("type"); raw != "" {
		mt, err := models.ParseMatchType(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.Type = &mt
	}
	round, err := optionalIntQuery(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.Round = round

	matches, err := h.league.Matches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Bracket godoc
// @Summary Сетка плей-офф
// @Tags league
// @Description Сохранённые матчи и прогноз участников ещё не созданных стадий.
// @Produce json
// @Success 200 {object} map[string]interface{} "bracket"
// @Router /api/bracket [get]
func (h *LeagueHandler) Bracket(w http.ResponseWriter, r *http.Request) {
	view, err := h.league.Bracket(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Players godoc
// @Summary Статистика игроков
// @Tags league
// @Produce json
// @Param team query int false "ID команды"
// @Param search query string false "Поиск по имени"
// @Param sort query string false "goals, assists, ga"
// @Success 200 {object} map[string]interface{} "players"
// @Failure 400 {object} map[string]string
// @Router /api/players [get]
func (h *LeagueHandler) Players(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := stats.ParseSortKey(q.Get("sort"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := optionalIntQuery(r, "team")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter := stats.Filter{Search: q.Get("search")}
	if teamID != nil {
		filter.TeamID = *teamID
	}

	lines, err := h.league.PlayerStats(r.Context(), filter, key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": lines, "sort": key}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// HallOfFame godoc
// @Summary Лучшие бомбардиры и ассистенты
// @Tags league
// @Produce json
// @Success 200 {object} map[string]interface{} "hall_of_fame"
// @Router /api/hall-of-fame [get]
func (h *LeagueHandler) HallOfFame(w http.ResponseWriter, r *http.Request) {
	hof, err := h.league.HallOfFame(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"hall_of_fame": hof}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Overview godoc
// @Summary Сводка лиги
// @Tags league
// @Produce json
// @Success 200 {object} map[string]interface{} "overview"
// @Router /api/overview [get]
func (h *LeagueHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.league.Overview(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"overview": ov}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportMatches godoc
// @Summary Выгрузка матчей в JSON
// @Tags export
// @Produce json
// @Success 200 {array} services.MatchRecord
// @Router /api/export/matches [get]
func (h *LeagueHandler) ExportMatches(w http.ResponseWriter, r *http.Request) {
	records, err := h.admin.ExportMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	headers := http.Header{"Content-Disposition": {`attachment; filename="matches.json"`}}
	if err := writeJSON(w, http.StatusOK, records, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportTable godoc
// @Summary Выгрузка таблицы в JSON
// @Tags export
// @Produce json
// @Success 200 {array} services.TableRecord
// @Router /api/export/table [get]
func (h *LeagueHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	records, err := h.admin.ExportTable(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	headers := http.Header{"Content-Disposition": {`attachment; filename="table.json"`}}
	if err := writeJSON(w, http.StatusOK, records, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}
