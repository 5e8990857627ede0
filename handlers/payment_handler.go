package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/badarts/club-backend/middleware"
	"github.com/badarts/club-backend/services"
)

const maxWebhookSize = 64 << 10

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// PayForTournament godoc
// @Summary      Start a checkout for a tournament fee
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Param        input body object true "{\"amount\": 500}"
// @Success      200 {object} payments.Checkout
// @Router       /payments/pay_for_tournament/{tournament_id} [post]
func (h *PaymentHandler) PayForTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournament_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to pay")
		return
	}

	var input struct {
		Amount int64 `json:"amount"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	checkout, err := h.paymentService.PayForTournament(r.Context(), currentUserID, tournamentID, input.Amount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, checkout, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Webhook godoc
// @Summary      Payment provider callback
// @Description  The raw body is verified with the provider signature header.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /payments/tournament_webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookSize))
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to read webhook body: %w", err))
		return
	}

	if err := h.paymentService.HandleWebhook(r.Context(), body, r.Header); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Check godoc
// @Summary      Whether the current user paid for a tournament
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        tournament_id path int true "Tournament ID"
// @Success      200 {object} map[string]bool
// @Router       /payments/check/{tournament_id} [get]
func (h *PaymentHandler) Check(w http.ResponseWriter, r *http.Request) {
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

	paid, err := h.paymentService.IsPaid(r.Context(), currentUserID, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"paid": paid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
