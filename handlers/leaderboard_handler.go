package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/badarts/club-backend/services"
	"github.com/badarts/club-backend/standings"
	"github.com/go-chi/chi/v5"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// Tournament godoc
// @Summary      Leaderboard of a tournament
// @Description  Recomputed from the completed matches on every request.
// @Tags         leaderboard
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournament_id}/leaderboard [get]
func (h *LeaderboardHandler) Tournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.leaderboardService.TournamentLeaderboard(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if entries == nil {
		entries = []standings.Entry{}
	}

	response := jsonResponse{
		"tournament_id": tournamentID,
		"leaderboard":   entries,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Pools godoc
// @Summary      One leaderboard per pool
// @Tags         leaderboard
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {array} services.PoolLeaderboard
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournament_id}/pools-leaderboard [get]
func (h *LeaderboardHandler) Pools(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pools, err := h.leaderboardService.PoolsLeaderboard(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if pools == nil {
		pools = []services.PoolLeaderboard{}
	}

	if err := writeJSON(w, http.StatusOK, pools, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Season godoc
// @Summary      Season leaderboard per user
// @Description  Covers every tournament whose start date falls in the season year.
// @Tags         leaderboard
// @Produce      json
// @Param        season path int true "Season year"
// @Success      200 {object} map[string]interface{}
// @Router       /tournaments/leaderboard/season/{season} [get]
func (h *LeaderboardHandler) Season(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "season")
	season, err := strconv.Atoi(raw)
	if err != nil || season <= 0 {
		badRequestResponse(w, r, errors.New("invalid season"))
		return
	}

	entries, err := h.leaderboardService.SeasonLeaderboard(r.Context(), season)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if entries == nil {
		entries = []standings.SeasonEntry{}
	}

	response := jsonResponse{
		"season":      strconv.Itoa(season),
		"leaderboard": entries,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
