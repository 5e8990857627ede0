package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/notify"
	"github.com/badarts/club-backend/repositories"
	"github.com/badarts/club-backend/utils"
)

type CreateUserInput struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Name     string          `json:"name"`
	Nickname string          `json:"nickname"`
	Discord  *string         `json:"discord,omitempty"`
	Role     models.UserRole `json:"role,omitempty"`
}

// UpdateUserInput is a partial update. Role and IsActive are only honoured
// for administrators.
type UpdateUserInput struct {
	Email    *string          `json:"email,omitempty"`
	Name     *string          `json:"name,omitempty"`
	Nickname *string          `json:"nickname,omitempty"`
	Discord  *string          `json:"discord,omitempty"`
	Password *string          `json:"password,omitempty"`
	Role     *models.UserRole `json:"role,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, id int, input UpdateUserInput, asAdmin bool) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	userRepo repositories.UserRepository
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, notifier notify.Notifier, logger *slog.Logger) UserService {
	return &userService{userRepo: userRepo, notifier: notifier, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Role == "" {
		input.Role = models.RolePlayer
	}
	user, err := createUser(ctx, s.userRepo, input)
	if err != nil {
		return nil, err
	}
	notifyAsync(ctx, s.notifier, s.logger, notify.UserCreated(user.Nickname, derefString(user.Email), string(user.Role)))
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateUserInput, asAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	v := validator{}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		_, parseErr := mail.ParseAddress(email)
		v.check(parseErr == nil, "email", "must be a valid email address")
		user.Email = &email
	}
	if input.Name != nil {
		user.Name = trimmedPtr(input.Name)
	}
	if input.Nickname != nil {
		nick := strings.TrimSpace(*input.Nickname)
		v.check(nick != "", "nickname", "must not be empty")
		user.Nickname = nick
	}
	if input.Discord != nil {
		user.Discord = trimmedPtr(input.Discord)
	}
	if input.Password != nil {
		if len(*input.Password) < utils.MinPasswordLength {
			return nil, fmt.Errorf("%w: minimum %d characters", ErrPasswordTooShort, utils.MinPasswordLength)
		}
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
	}
	if input.Role != nil || input.IsActive != nil {
		if !asAdmin {
			return nil, ErrForbiddenOperation
		}
		if input.Role != nil {
			v.check(input.Role.Valid(), "role", "must be admin, editor or player")
			user.Role = *input.Role
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, handleRepositoryError(err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	return handleRepositoryError(s.userRepo.Delete(ctx, id))
}

func createUser(ctx context.Context, repo repositories.UserRepository, input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	nickname := strings.TrimSpace(input.Nickname)

	v := validator{}
	_, parseErr := mail.ParseAddress(email)
	v.check(email != "", "email", "must be provided")
	v.check(parseErr == nil, "email", "must be a valid email address")
	v.check(nickname != "", "nickname", "must be provided")
	v.check(input.Role.Valid(), "role", "must be admin, editor or player")
	if err := v.err(); err != nil {
		return nil, err
	}
	if len(input.Password) < utils.MinPasswordLength {
		return nil, fmt.Errorf("%w: minimum %d characters", ErrPasswordTooShort, utils.MinPasswordLength)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        &email,
		Name:         trimmedPtr(&input.Name),
		Nickname:     nickname,
		Discord:      trimmedPtr(input.Discord),
		PasswordHash: &hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) || errors.Is(err, repositories.ErrUserNicknameConflict) {
			return nil, handleRepositoryError(err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
