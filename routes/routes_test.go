package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/handlers"
	"github.com/badarts/club-backend/services"
	"github.com/badarts/club-backend/standings"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "routes-secret"

type stubLeaderboard struct{}

func (stubLeaderboard) TournamentLeaderboard(ctx context.Context, tournamentID int) ([]standings.Entry, error) {
	if tournamentID == 404 {
		return nil, services.ErrTournamentNotFound
	}
	return []standings.Entry{{ParticipantID: 1, Nickname: "solo", Wins: 2, TotalManches: 6}}, nil
}

func (stubLeaderboard) PoolsLeaderboard(ctx context.Context, tournamentID int) ([]services.PoolLeaderboard, error) {
	return []services.PoolLeaderboard{}, nil
}

func (stubLeaderboard) SeasonLeaderboard(ctx context.Context, season int) ([]standings.SeasonEntry, error) {
	return []standings.SeasonEntry{}, nil
}

// newTestRouter mounts the real routes. Only the leaderboard handler has a
// working service; the rest are only reached by requests that the auth
// middleware rejects first.
func newTestRouter() http.Handler {
	hub := brackets.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Auth:         handlers.NewAuthHandler(nil, testSecret),
		User:         handlers.NewUserHandler(nil),
		Tournament:   handlers.NewTournamentHandler(nil),
		Registration: handlers.NewRegistrationHandler(nil),
		Participant:  handlers.NewParticipantHandler(nil),
		Structure:    handlers.NewStructureHandler(nil),
		Match:        handlers.NewMatchHandler(nil),
		Leaderboard:  handlers.NewLeaderboardHandler(stubLeaderboard{}),
		Official:     handlers.NewOfficialLeaderboardHandler(nil),
		Event:        handlers.NewEventHandler(nil),
		Licence:      handlers.NewLicenceHandler(nil),
		Inscription:  handlers.NewInscriptionHandler(nil),
		Payment:      handlers.NewPaymentHandler(nil),
		Notify:       handlers.NewNotifyHandler(nil),
		Admin:        handlers.NewAdminHandler(nil),
		WebSocket:    handlers.NewWebSocketHandler(hub),
		Shop:         handlers.NewShopHandler(services.NewShopService(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))),
	}, Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}})
	return router
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + token
}

func TestLeaderboardRoutesArePublic(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		path     string
		want     int
		contains string
	}{
		{"/tournaments/5/leaderboard", http.StatusOK, `"nickname": "solo"`},
		{"/tournaments/404/leaderboard", http.StatusNotFound, "tournament not found"},
		{"/tournaments/5/pools-leaderboard", http.StatusOK, "[]"},
		{"/tournaments/leaderboard/season/2024", http.StatusOK, `"season": "2024"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body = %s, want it to contain %s", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestProtectedRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"profile needs a token", http.MethodGet, "/users/me", "", http.StatusUnauthorized},
		{"players cannot create tournaments", http.MethodPost, "/tournaments", "player", http.StatusForbidden},
		{"players cannot score matches", http.MethodPatch, "/tournaments/matches/3", "player", http.StatusForbidden},
		{"editors cannot list licences", http.MethodGet, "/licences", "editor", http.StatusForbidden},
		{"registration needs a token", http.MethodPost, "/tournaments/2/register", "", http.StatusUnauthorized},
		{"notify is admin only", http.MethodPost, "/notify", "editor", http.StatusForbidden},
		{"backups disabled", http.MethodGet, "/admin/backups", "admin", http.StatusServiceUnavailable},
		{"refresh token list is admin only", http.MethodGet, "/auth/refresh-tokens", "editor", http.StatusForbidden},
		{"official leaderboard upload is admin only", http.MethodPost, "/leaderboard/lsef/update", "editor", http.StatusForbidden},
		{"shop orders need a token", http.MethodPost, "/api/printful/orders", "", http.StatusUnauthorized},
		{"shop disabled", http.MethodGet, "/api/printful/store/products", "", http.StatusServiceUnavailable},
		{"players cannot swap participants", http.MethodPost, "/tournaments/1/swap-players", "player", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", bearer(t, tt.auth))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestShopHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/printful/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"printful_set": false`) {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
