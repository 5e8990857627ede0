package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Stripe creates Checkout Sessions in euros. Webhooks are verified with the
// endpoint signing secret.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(secretKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

func (p *Stripe) Name() string { return "stripe" }

func (p *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	name := req.TournamentName
	if name == "" {
		name = "Tournoi #" + strconv.Itoa(req.TournamentID)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.ReturnURL + "?status=success"),
		CancelURL:  stripe.String(req.ReturnURL + "?status=cancel"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.Itoa(req.UserID))
	params.AddMetadata("tournament_id", strconv.Itoa(req.TournamentID))

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}
	return &Checkout{SessionID: sess.ID, URL: sess.URL}, nil
}

func (p *Stripe) ParseWebhook(ctx context.Context, body []byte, header http.Header) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(body, header.Get("Stripe-Signature"), p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if event.Type != "checkout.session.completed" {
		return nil, ErrIgnoredEvent
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return eventFromMetadata(sess.ID, sess.Metadata, sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid)
}

func eventFromMetadata(reference string, metadata map[string]string, paid bool) (*Event, error) {
	userID, err := strconv.Atoi(metadata["user_id"])
	if err != nil {
		return nil, fmt.Errorf("%w: missing user_id metadata", ErrMalformedPayload)
	}
	tournamentID, err := strconv.Atoi(metadata["tournament_id"])
	if err != nil {
		return nil, fmt.Errorf("%w: missing tournament_id metadata", ErrMalformedPayload)
	}
	if userID <= 0 || tournamentID <= 0 {
		return nil, errors.Join(ErrMalformedPayload, fmt.Errorf("invalid ids %d/%d", userID, tournamentID))
	}
	return &Event{UserID: userID, TournamentID: tournamentID, Reference: reference, Paid: paid}, nil
}
