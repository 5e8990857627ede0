package handlers

import (
	"net/http"

	"github.com/badarts/club-backend/middleware"
	"github.com/badarts/club-backend/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// Register godoc
// @Summary      Register the current user for a tournament
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      201 {object} models.TournamentRegistration
// @Failure      403 {object} map[string]string "registrations closed"
// @Failure      409 {object} map[string]string "already registered"
// @Router       /tournaments/{tournament_id}/register [post]
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to register")
		return
	}

	registration, err := h.registrationService.Register(r.Context(), currentUserID, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": registration}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Unregister godoc
// @Summary      Cancel the current user's registration
// @Tags         registrations
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      204
// @Router       /tournaments/{tournament_id}/register [delete]
func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.registrationService.Unregister(r.Context(), currentUserID, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveUser godoc
// @Summary      Remove a user's registration
// @Tags         registrations
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        user_id path int true "User ID"
// @Success      204
// @Router       /tournaments/{tournament_id}/registrations/{user_id} [delete]
func (h *RegistrationHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := getIDFromURL(r, "user_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.Unregister(r.Context(), userID, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MyRegistration godoc
// @Summary      Whether the current user is registered
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {boolean} bool
// @Router       /tournaments/{tournament_id}/my-registration [get]
func (h *RegistrationHandler) MyRegistration(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	registered, err := h.registrationService.IsRegistered(r.Context(), currentUserID, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, registered, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisteredUsers godoc
// @Summary      Users registered for a tournament
// @Tags         registrations
// @Produce      json
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {array} models.User
// @Router       /tournaments/{tournament_id}/registered-users [get]
func (h *RegistrationHandler) RegisteredUsers(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	users, err := h.registrationService.ListUsers(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, users, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
