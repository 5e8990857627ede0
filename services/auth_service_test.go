package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/notify"
)

func TestRegisterAndLogin(t *testing.T) {
	users := &fakeUserRepo{}
	svc := NewAuthService(users, &fakeRefreshTokenRepo{}, notify.Nop{}, discardLogger())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: " Jean@Example.com ", Password: "longenough", Name: "Jean Dupont", Nickname: "jd"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.Role != models.RolePlayer || *u.Email != "jean@example.com" {
		t.Errorf("user = %+v", u)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "jean@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "jean@example.com", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "who@example.com", Password: "longenough"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}

	users.users[0].IsActive = false
	if _, err := svc.Login(ctx, LoginInput{Email: "jean@example.com", Password: "longenough"}); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("disabled err = %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{{ID: 1, Nickname: "jd", Role: models.RolePlayer, IsActive: true}}}
	tokens := &fakeRefreshTokenRepo{}
	svc := NewAuthService(users, tokens, notify.Nop{}, discardLogger())
	ctx := context.Background()

	first, err := svc.IssueRefreshToken(ctx, 1)
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}
	if tokens.tokens[0].TokenHash == first || tokens.tokens[0].TokenHash != hashRefreshToken(first) {
		t.Errorf("stored hash = %q", tokens.tokens[0].TokenHash)
	}

	u, second, err := svc.Refresh(ctx, first)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if u.ID != 1 || second == "" || second == first {
		t.Errorf("user = %+v, next = %q", u, second)
	}
	if !tokens.tokens[0].Revoked || tokens.tokens[1].Revoked {
		t.Errorf("tokens = %+v", tokens.tokens)
	}

	if _, _, err := svc.Refresh(ctx, first); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("reused token err = %v", err)
	}
}

func TestRefreshRejects(t *testing.T) {
	tests := []struct {
		name   string
		active bool
		expiry time.Duration
		token  string
		want   error
	}{
		{"unknown token", true, time.Hour, "nope", ErrInvalidRefreshToken},
		{"blank token", true, time.Hour, "  ", ErrInvalidRefreshToken},
		{"expired token", true, -time.Minute, "", ErrInvalidRefreshToken},
		{"disabled account", false, time.Hour, "", ErrAccountDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserRepo{users: []models.User{{ID: 1, Nickname: "jd", IsActive: tt.active}}}
			tokens := &fakeRefreshTokenRepo{tokens: []models.RefreshToken{{
				ID:        1,
				UserID:    1,
				TokenHash: hashRefreshToken("stored"),
				ExpiresAt: time.Now().Add(tt.expiry),
			}}}
			svc := NewAuthService(users, tokens, notify.Nop{}, discardLogger())

			token := tt.token
			if token == "" {
				token = "stored"
			}
			if _, _, err := svc.Refresh(context.Background(), token); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, &fakeRefreshTokenRepo{}, notify.Nop{}, discardLogger())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "short", Nickname: "x"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password err = %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "longenough", Nickname: "x"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad email err = %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "longenough", Nickname: "x"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "d@b.c", Password: "longenough", Nickname: "x"}); !errors.Is(err, ErrUserNicknameConflict) {
		t.Errorf("nickname conflict err = %v", err)
	}
}

func TestUserUpdateRoleRequiresAdmin(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{{ID: 1, Nickname: "jd", Role: models.RolePlayer, IsActive: true}}}
	svc := NewUserService(users, notify.Nop{}, discardLogger())
	role := models.RoleAdmin

	if _, err := svc.Update(context.Background(), 1, UpdateUserInput{Role: &role}, false); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("err = %v, want ErrForbiddenOperation", err)
	}
	u, err := svc.Update(context.Background(), 1, UpdateUserInput{Role: &role}, true)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %s", u.Role)
	}
}
