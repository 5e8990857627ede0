package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/notify"
	"github.com/badarts/club-backend/repositories"
	"github.com/badarts/club-backend/utils"
)

const refreshTokenLifetime = 7 * 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	IssueRefreshToken(ctx context.Context, userID int) (string, error)
	// Refresh swaps a valid refresh token for a new one and returns its owner.
	Refresh(ctx context.Context, token string) (*models.User, string, error)
	ListRefreshTokens(ctx context.Context) ([]models.RefreshToken, error)
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	notifier  notify.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	notifier notify.Notifier,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a player account.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return createUser(ctx, s.userRepo, CreateUserInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Nickname: input.Nickname,
		Role:     models.RolePlayer,
	})
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user.PasswordHash == nil || !utils.CheckPasswordHash(input.Password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	notifyAsync(ctx, s.notifier, s.logger, notify.Login(user.Nickname))
	return user, nil
}

func (s *authService) IssueRefreshToken(ctx context.Context, userID int) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	err := s.tokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    userID,
		TokenHash: hashRefreshToken(token),
		ExpiresAt: s.now().Add(refreshTokenLifetime),
	})
	if err != nil {
		return "", handleRepositoryError(err)
	}
	return token, nil
}

func (s *authService) Refresh(ctx context.Context, token string) (*models.User, string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, "", ErrInvalidRefreshToken
	}

	stored, err := s.tokenRepo.GetByHash(ctx, hashRefreshToken(token))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, "", ErrInvalidRefreshToken
		}
		return nil, "", fmt.Errorf("failed to find refresh token: %w", err)
	}
	if stored.Revoked || stored.Expired(s.now()) {
		return nil, "", ErrInvalidRefreshToken
	}

	// Revoke first so a token replayed concurrently loses the race.
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, "", ErrInvalidRefreshToken
		}
		return nil, "", fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, "", handleRepositoryError(err)
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	next, err := s.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, next, nil
}

func (s *authService) ListRefreshTokens(ctx context.Context) ([]models.RefreshToken, error) {
	tokens, err := s.tokenRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh tokens: %w", err)
	}
	return tokens, nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
