package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/services"
	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Register godoc
// @Summary      Register a player account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body services.RegisterInput true "Account"
// @Success      201 {object} models.User
// @Failure      409 {object} map[string]string
// @Failure      422 {object} map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Email) == "" || input.Password == "" || strings.TrimSpace(input.Nickname) == "" {
		badRequestResponse(w, r, errors.New("email, password and nickname are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login godoc
// @Summary      Log in and receive a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body services.LoginInput true "Credentials"
// @Success      200 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	refreshToken, err := h.authService.IssueRefreshToken(r.Context(), user.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeTokens(w, r, user, refreshToken)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body refreshRequest true "Refresh token"
// @Success      200 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.RefreshToken) == "" {
		badRequestResponse(w, r, errors.New("refresh_token is required"))
		return
	}

	user, refreshToken, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeTokens(w, r, user, refreshToken)
}

type refreshTokenView struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// ListRefreshTokens godoc
// @Summary      List issued refresh tokens
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /auth/refresh-tokens [get]
func (h *AuthHandler) ListRefreshTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.authService.ListRefreshTokens(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	views := make([]refreshTokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, refreshTokenView{
			ID:        t.ID,
			UserID:    t.UserID,
			Token:     maskTokenHash(t.TokenHash),
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
			Revoked:   t.Revoked,
		})
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"refresh_tokens": views}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) writeTokens(w http.ResponseWriter, r *http.Request, user *models.User, refreshToken string) {
	tokenString, err := h.signToken(user, time.Now())
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{
		"token":         tokenString,
		"refresh_token": refreshToken,
		"token_type":    "bearer",
	}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func maskTokenHash(hash string) string {
	if len(hash) <= 10 {
		return hash
	}
	return hash[:10] + "..."
}

func (h *AuthHandler) signToken(user *models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"name":    user.Nickname,
		"exp":     now.Add(tokenLifetime).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
