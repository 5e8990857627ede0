package payments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	paypalCheckoutLive    = "https://www.paypal.com/cgi-bin/webscr"
	paypalCheckoutSandbox = "https://www.sandbox.paypal.com/cgi-bin/webscr"
	paypalVerifyLive      = "https://ipnpb.paypal.com/cgi-bin/webscr"
	paypalVerifySandbox   = "https://ipnpb.sandbox.paypal.com/cgi-bin/webscr"
)

type PayPalConfig struct {
	ReceiverEmail string
	Sandbox       bool
	// NotifyURL is where PayPal posts the IPN messages.
	NotifyURL string
}

// PayPal sends players to a PayPal Payments Standard checkout and accepts
// Instant Payment Notifications. A notification is only trusted after PayPal
// answers VERIFIED to the echoed message.
type PayPal struct {
	receiver    string
	notifyURL   string
	checkoutURL string
	verifyURL   string
	client      *http.Client
}

func NewPayPal(cfg PayPalConfig) *PayPal {
	p := &PayPal{
		receiver:    strings.ToLower(strings.TrimSpace(cfg.ReceiverEmail)),
		notifyURL:   cfg.NotifyURL,
		checkoutURL: paypalCheckoutLive,
		verifyURL:   paypalVerifyLive,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
	if cfg.Sandbox {
		p.checkoutURL = paypalCheckoutSandbox
		p.verifyURL = paypalVerifySandbox
	}
	return p
}

func (p *PayPal) Name() string { return "paypal" }

func (p *PayPal) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	name := req.TournamentName
	if name == "" {
		name = "Tournoi #" + strconv.Itoa(req.TournamentID)
	}
	invoice := uuid.NewString()

	q := url.Values{}
	q.Set("cmd", "_xclick")
	q.Set("business", p.receiver)
	q.Set("item_name", name)
	q.Set("amount", formatCents(req.AmountCents))
	q.Set("currency_code", "EUR")
	q.Set("no_shipping", "1")
	q.Set("invoice", invoice)
	q.Set("custom", paypalCustom(req.UserID, req.TournamentID))
	if p.notifyURL != "" {
		q.Set("notify_url", p.notifyURL)
	}
	if req.ReturnURL != "" {
		q.Set("return", req.ReturnURL+"?status=success")
		q.Set("cancel_return", req.ReturnURL+"?status=cancel")
	}
	return &Checkout{SessionID: invoice, URL: p.checkoutURL + "?" + q.Encode()}, nil
}

// ParseWebhook handles an IPN message. Only completed payments to the
// configured receiver produce an event.
func (p *PayPal) ParseWebhook(ctx context.Context, body []byte, header http.Header) (*Event, error) {
	if err := p.verify(ctx, body); err != nil {
		return nil, err
	}

	params, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if status := params.Get("payment_status"); status != "Completed" {
		return nil, fmt.Errorf("%w: payment status %q", ErrIgnoredEvent, status)
	}

	receiver := strings.ToLower(params.Get("receiver_email"))
	business := strings.ToLower(params.Get("business"))
	if receiver != p.receiver && business != p.receiver {
		return nil, fmt.Errorf("%w: receiver mismatch", ErrMalformedPayload)
	}

	userID, tournamentID, err := parsePayPalCustom(params.Get("custom"))
	if err != nil {
		return nil, err
	}

	reference := params.Get("txn_id")
	if reference == "" {
		reference = params.Get("invoice")
	}
	return &Event{UserID: userID, TournamentID: tournamentID, Reference: reference, Paid: true}, nil
}

func (p *PayPal) verify(ctx context.Context, body []byte) error {
	payload := append([]byte("cmd=_notify-validate&"), body...)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build ipn verification: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ipn verification: %w", err)
	}
	defer resp.Body.Close()

	answer, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return fmt.Errorf("read ipn verification: %w", err)
	}
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(answer)) != "VERIFIED" {
		return fmt.Errorf("%w: paypal answered %q", ErrInvalidSignature, strings.TrimSpace(string(answer)))
	}
	return nil
}

func paypalCustom(userID, tournamentID int) string {
	return fmt.Sprintf("user_id:%d,tournament_id:%d", userID, tournamentID)
}

// parsePayPalCustom reads "user_id:<n>,tournament_id:<n>".
func parsePayPalCustom(custom string) (userID, tournamentID int, err error) {
	if custom == "" {
		return 0, 0, fmt.Errorf("%w: missing custom data", ErrMalformedPayload)
	}
	for _, part := range strings.Split(custom, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(value))
		if convErr != nil {
			continue
		}
		switch key {
		case "user_id":
			userID = n
		case "tournament_id":
			tournamentID = n
		}
	}
	if userID <= 0 || tournamentID <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid custom data %q", ErrMalformedPayload, custom)
	}
	return userID, tournamentID, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
