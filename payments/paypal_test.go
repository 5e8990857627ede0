package payments

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/badarts/club-backend/config"
)

// newVerifier fakes the PayPal IPN endpoint and records the echoed bodies.
func newVerifier(t *testing.T, answer string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, string(body))
		io.WriteString(w, answer)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func ipnBody(overrides map[string]string) []byte {
	v := url.Values{}
	v.Set("payment_status", "Completed")
	v.Set("receiver_email", "club@example.org")
	v.Set("custom", "user_id:5,tournament_id:9")
	v.Set("txn_id", "TX123")
	v.Set("mc_gross", "15.00")
	for k, val := range overrides {
		if val == "" {
			v.Del(k)
			continue
		}
		v.Set(k, val)
	}
	return []byte(v.Encode())
}

func TestPayPalCheckoutURL(t *testing.T) {
	p := NewPayPal(PayPalConfig{ReceiverEmail: "Club@Example.org", Sandbox: true, NotifyURL: "https://api.example/payments/tournament_webhook"})

	co, err := p.CreateCheckout(context.Background(), CheckoutRequest{UserID: 5, TournamentID: 9, TournamentName: "Open", AmountCents: 1505, ReturnURL: "https://club.example/paid"})
	if err != nil {
		t.Fatalf("CreateCheckout() error = %v", err)
	}
	u, err := url.Parse(co.URL)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "www.sandbox.paypal.com" {
		t.Errorf("host = %s", u.Host)
	}
	q := u.Query()
	want := map[string]string{
		"cmd":           "_xclick",
		"business":      "club@example.org",
		"amount":        "15.05",
		"currency_code": "EUR",
		"custom":        "user_id:5,tournament_id:9",
		"invoice":       co.SessionID,
		"notify_url":    "https://api.example/payments/tournament_webhook",
		"return":        "https://club.example/paid?status=success",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestPayPalWebhookCompleted(t *testing.T) {
	srv, seen := newVerifier(t, "VERIFIED")
	p := NewPayPal(PayPalConfig{ReceiverEmail: "club@example.org"})
	p.verifyURL = srv.URL

	body := ipnBody(nil)
	ev, err := p.ParseWebhook(context.Background(), body, http.Header{})
	if err != nil {
		t.Fatalf("ParseWebhook() error = %v", err)
	}
	if ev.UserID != 5 || ev.TournamentID != 9 || ev.Reference != "TX123" || !ev.Paid {
		t.Errorf("event = %+v", ev)
	}
	if len(*seen) != 1 || !strings.HasPrefix((*seen)[0], "cmd=_notify-validate&") || !strings.HasSuffix((*seen)[0], string(body)) {
		t.Errorf("verification bodies = %v", *seen)
	}
}

func TestPayPalWebhookRejects(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		body   []byte
		want   error
	}{
		{"not verified", "INVALID", ipnBody(nil), ErrInvalidSignature},
		{"pending payment", "VERIFIED", ipnBody(map[string]string{"payment_status": "Pending"}), ErrIgnoredEvent},
		{"other receiver", "VERIFIED", ipnBody(map[string]string{"receiver_email": "someone@example.org"}), ErrMalformedPayload},
		{"missing custom", "VERIFIED", ipnBody(map[string]string{"custom": ""}), ErrMalformedPayload},
		{"bad custom", "VERIFIED", ipnBody(map[string]string{"custom": "user_id:x,tournament_id:9"}), ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newVerifier(t, tt.answer)
			p := NewPayPal(PayPalConfig{ReceiverEmail: "club@example.org"})
			p.verifyURL = srv.URL

			if _, err := p.ParseWebhook(context.Background(), tt.body, http.Header{}); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPayPalBusinessMatchesReceiver(t *testing.T) {
	srv, _ := newVerifier(t, "VERIFIED")
	p := NewPayPal(PayPalConfig{ReceiverEmail: "club@example.org"})
	p.verifyURL = srv.URL

	body := ipnBody(map[string]string{"receiver_email": "primary@example.org", "business": "CLUB@example.org"})
	if _, err := p.ParseWebhook(context.Background(), body, http.Header{}); err != nil {
		t.Fatalf("ParseWebhook() error = %v", err)
	}
}

func TestNewProviderPayPal(t *testing.T) {
	p, err := NewProvider(&config.Config{
		PaymentProvider:     "paypal",
		PayPalReceiverEmail: "club@example.org",
		BasePublicURL:       "https://api.example/",
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	pp, ok := p.(*PayPal)
	if !ok {
		t.Fatalf("provider = %T", p)
	}
	if pp.notifyURL != "https://api.example/payments/tournament_webhook" || pp.verifyURL != paypalVerifyLive {
		t.Errorf("paypal = %+v", pp)
	}
}
