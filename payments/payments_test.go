package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestStubCheckoutAndWebhook(t *testing.T) {
	p := NewStub("s3cret", "https://api.example/")

	co, err := p.CreateCheckout(context.Background(), CheckoutRequest{UserID: 5, TournamentID: 9, AmountCents: 1500})
	if err != nil {
		t.Fatalf("CreateCheckout() error = %v", err)
	}
	if !strings.HasPrefix(co.SessionID, "9:5:") {
		t.Errorf("SessionID = %q", co.SessionID)
	}
	if !strings.HasPrefix(co.URL, "https://api.example/pay/stub?invoice=") {
		t.Errorf("URL = %q", co.URL)
	}

	body := []byte(`{"invoice":"` + co.SessionID + `","status":"paid"}`)
	h := http.Header{}
	h.Set("X-Signature", SignHMAC("s3cret", body))

	ev, err := p.ParseWebhook(context.Background(), body, h)
	if err != nil {
		t.Fatalf("ParseWebhook() error = %v", err)
	}
	if ev.UserID != 5 || ev.TournamentID != 9 || !ev.Paid || ev.Reference != co.SessionID {
		t.Errorf("event = %+v", ev)
	}
}

func TestStubWebhookRejects(t *testing.T) {
	p := NewStub("s3cret", "")
	body := []byte(`{"invoice":"1:2:x"}`)

	tests := []struct {
		name string
		body []byte
		sig  string
		want error
	}{
		{"missing signature", body, "", ErrInvalidSignature},
		{"wrong signature", body, SignHMAC("other", body), ErrInvalidSignature},
		{"bad json", []byte("{"), SignHMAC("s3cret", []byte("{")), ErrMalformedPayload},
		{"bad invoice", []byte(`{"invoice":"x"}`), SignHMAC("s3cret", []byte(`{"invoice":"x"}`)), ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.sig != "" {
				h.Set("X-Signature", tt.sig)
			}
			if _, err := p.ParseWebhook(context.Background(), tt.body, h); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStubCancelledStatus(t *testing.T) {
	p := NewStub("k", "")
	body := []byte(`{"invoice":"3:4:abc","status":"cancelled"}`)
	h := http.Header{}
	h.Set("X-Signature", SignHMAC("k", body))
	ev, err := p.ParseWebhook(context.Background(), body, h)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Paid {
		t.Error("cancelled payment reported as paid")
	}
}

func TestEventFromMetadata(t *testing.T) {
	ev, err := eventFromMetadata("cs_1", map[string]string{"user_id": "3", "tournament_id": "8"}, true)
	if err != nil || ev.UserID != 3 || ev.TournamentID != 8 || !ev.Paid {
		t.Fatalf("ev = %+v, err = %v", ev, err)
	}
	if _, err := eventFromMetadata("cs_2", map[string]string{"user_id": "3"}, true); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("err = %v", err)
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	p := NewStripe("sk_test_x", "whsec_x")
	h := http.Header{}
	h.Set("Stripe-Signature", "t=1,v1=deadbeef")
	if _, err := p.ParseWebhook(context.Background(), []byte(`{}`), h); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v", err)
	}
}
