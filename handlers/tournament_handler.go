package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/badarts/club-backend/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// Create godoc
// @Summary      Create a tournament
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body services.CreateTournamentInput true "Tournament"
// @Success      201 {object} models.Tournament
// @Failure      422 {object} map[string]interface{}
// @Router       /tournaments [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary      Get a tournament
// @Tags         tournaments
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} models.Tournament
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournament_id} [get]
func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary      List tournaments
// @Tags         tournaments
// @Produce      json
// @Param        status query string false "open, running, finished or closed"
// @Param        mode query string false "single or team"
// @Param        season query int false "Year of the start date"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} models.Tournament
// @Router       /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, err := paginationFromQuery(r, 50)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.ListTournamentsInput{
		Status: query.Get("status"),
		Mode:   query.Get("mode"),
		Limit:  limit,
		Offset: offset,
	}
	if seasonStr := query.Get("season"); seasonStr != "" {
		season, err := strconv.Atoi(seasonStr)
		if err != nil || season <= 0 {
			badRequestResponse(w, r, errors.New("invalid season query parameter"))
			return
		}
		input.Season = &season
	}

	tournaments, err := h.tournamentService.List(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary      Update a tournament
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body services.UpdateTournamentInput true "Fields to change"
// @Success      200 {object} models.Tournament
// @Router       /tournaments/{tournament_id} [patch]
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary      Delete a tournament
// @Tags         tournaments
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      204
// @Router       /tournaments/{tournament_id} [delete]
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OpenRegistrations godoc
// @Summary      Open registrations
// @Tags         tournaments
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} models.Tournament
// @Router       /tournaments/{tournament_id}/registrations/open [patch]
func (h *TournamentHandler) OpenRegistrations(w http.ResponseWriter, r *http.Request) {
	h.setRegistrations(w, r, true)
}

// CloseRegistrations godoc
// @Summary      Close registrations
// @Tags         tournaments
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} models.Tournament
// @Router       /tournaments/{tournament_id}/registrations/close [patch]
func (h *TournamentHandler) CloseRegistrations(w http.ResponseWriter, r *http.Request) {
	h.setRegistrations(w, r, false)
}

func (h *TournamentHandler) setRegistrations(w http.ResponseWriter, r *http.Request, open bool) {
	id, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.SetRegistrationsOpen(r.Context(), id, open)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset godoc
// @Summary      Reset a tournament
// @Description  Deletes matches, pools and participants and sets the status back to open.
// @Tags         tournaments
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} models.Tournament
// @Router       /tournaments/{tournament_id}/reset [post]
func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Reset(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Details godoc
// @Summary      Tournament with its pools, participants and final matches
// @Tags         tournaments
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} models.TournamentDetails
// @Router       /tournaments/{tournament_id}/details [get]
func (h *TournamentHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.tournamentService.Details(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, details, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
