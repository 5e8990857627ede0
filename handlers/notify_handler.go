package handlers

import (
	"net/http"

	"github.com/badarts/club-backend/services"
)

type NotifyHandler struct {
	notificationService services.NotificationService
}

func NewNotifyHandler(ns services.NotificationService) *NotifyHandler {
	return &NotifyHandler{notificationService: ns}
}

// Send godoc
// @Summary      Send an announcement to the club channel
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body object true "{\"message\": \"...\"}"
// @Success      200 {object} map[string]string
// @Failure      500 {object} map[string]string "delivery failed"
// @Router       /notify [post]
func (h *NotifyHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.notificationService.Broadcast(r.Context(), input.Message); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
