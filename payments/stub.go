package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Stub is a provider for development: checkout links point back at the API
// and webhooks are signed with HMAC-SHA256 in the X-Signature header.
type Stub struct {
	secret  string
	baseURL string
}

func NewStub(secret, baseURL string) *Stub {
	return &Stub{secret: secret, baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *Stub) Name() string { return "stub" }

// invoice format: <tournament_id>:<user_id>:<uuid>
func (p *Stub) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	invoice := fmt.Sprintf("%d:%d:%s", req.TournamentID, req.UserID, uuid.NewString())

	link := "/pay/stub?invoice=" + url.QueryEscape(invoice) + "&amount=" + strconv.FormatInt(req.AmountCents, 10)
	if p.baseURL != "" {
		link = p.baseURL + link
	}
	return &Checkout{SessionID: invoice, URL: link}, nil
}

type stubWebhook struct {
	Invoice string `json:"invoice"`
	Status  string `json:"status"`
}

func (p *Stub) ParseWebhook(ctx context.Context, body []byte, header http.Header) (*Event, error) {
	sig := header.Get("X-Signature")
	if sig == "" || !hmac.Equal([]byte(sig), []byte(SignHMAC(p.secret, body))) {
		return nil, ErrInvalidSignature
	}

	var pl stubWebhook
	if err := json.Unmarshal(body, &pl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	parts := strings.Split(pl.Invoice, ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: bad invoice %q", ErrMalformedPayload, pl.Invoice)
	}
	tournamentID, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad tournament id", ErrMalformedPayload)
	}
	userID, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad user id", ErrMalformedPayload)
	}

	status := strings.TrimSpace(pl.Status)
	if status == "" {
		status = "paid"
	}
	return &Event{
		UserID:       userID,
		TournamentID: tournamentID,
		Reference:    pl.Invoice,
		Paid:         status == "paid",
	}, nil
}

// SignHMAC returns the hex HMAC-SHA256 of body.
func SignHMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
