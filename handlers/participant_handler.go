package handlers

import (
	"errors"
	"net/http"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: ps}
}

type participantResponse struct {
	models.Participant
	DisplayName string `json:"display_name"`
}

func toParticipantResponse(p models.Participant) participantResponse {
	return participantResponse{Participant: p, DisplayName: p.DisplayName()}
}

// Create godoc
// @Summary      Add a participant
// @Description  Single mode takes exactly one user, team mode at least two.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body services.CreateParticipantInput true "Participant"
// @Success      201 {object} models.Participant
// @Router       /tournaments/{tournament_id}/participants [post]
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Create(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": toParticipantResponse(*participant)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary      Participants of a tournament with their members
// @Tags         participants
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {array} models.Participant
// @Router       /tournaments/{tournament_id}/participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.participantService.List(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	out := make([]participantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, toParticipantResponse(p))
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": out}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary      Remove a participant
// @Tags         participants
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        participant_id path int true "Participant ID"
// @Success      204
// @Router       /tournaments/{tournament_id}/participants/{participant_id} [delete]
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getIDFromURL(r, "participant_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.Delete(r.Context(), tournamentID, participantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SwapPlayers godoc
// @Summary      Give a participant's results to another user
// @Description  Only for finished single-player tournaments. Scores and pools are kept.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body services.SwapPlayerInput true "Swap"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /tournaments/{tournament_id}/swap-players [post]
func (h *ParticipantHandler) SwapPlayers(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SwapPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WrongParticipantID <= 0 || input.CorrectUserID <= 0 {
		badRequestResponse(w, r, errors.New("wrong_participant_id and correct_user_id are required"))
		return
	}

	participant, err := h.participantService.SwapPlayer(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message":     "Players swapped successfully. Leaderboards will update on refresh.",
		"participant": toParticipantResponse(*participant),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
