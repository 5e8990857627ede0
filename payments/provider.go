// Package payments creates checkout sessions for tournament fees and turns
// provider webhooks into payment events.
package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/badarts/club-backend/config"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	// ErrIgnoredEvent is returned for webhook events that carry no payment.
	ErrIgnoredEvent = errors.New("webhook event ignored")
)

type CheckoutRequest struct {
	UserID         int
	TournamentID   int
	TournamentName string
	AmountCents    int64
	ReturnURL      string
}

type Checkout struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Event is a payment outcome reported by a provider.
type Event struct {
	UserID       int
	TournamentID int
	Reference    string
	Paid         bool
}

type Provider interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	ParseWebhook(ctx context.Context, body []byte, header http.Header) (*Event, error)
}

func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.PaymentProvider {
	case "stub":
		return NewStub(cfg.PaymentWebhookSecret, cfg.BasePublicURL), nil
	case "stripe":
		return NewStripe(cfg.StripeSecretKey, cfg.PaymentWebhookSecret), nil
	case "paypal":
		notifyURL := ""
		if cfg.BasePublicURL != "" {
			notifyURL = strings.TrimRight(cfg.BasePublicURL, "/") + "/payments/tournament_webhook"
		}
		return NewPayPal(PayPalConfig{
			ReceiverEmail: cfg.PayPalReceiverEmail,
			Sandbox:       cfg.PayPalSandbox,
			NotifyURL:     notifyURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.PaymentProvider)
	}
}
