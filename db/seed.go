package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/utils"
	"gopkg.in/yaml.v3"
)

type SeedUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Nickname string `yaml:"nickname"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SeedFile is the layout of the initial users YAML file.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// ParseSeedFile decodes and validates a seed document.
func ParseSeedFile(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	for i, u := range f.Users {
		if u.Email == "" || u.Nickname == "" || u.Password == "" {
			return nil, fmt.Errorf("seed user #%d: email, nickname and password are required", i+1)
		}
		if u.Role == "" {
			f.Users[i].Role = string(models.RolePlayer)
		} else if !models.UserRole(u.Role).Valid() {
			return nil, fmt.Errorf("seed user #%d: unknown role %q", i+1, u.Role)
		}
	}
	return &f, nil
}

// SeedUsers inserts the users of the YAML file at path whose email is not
// taken yet. An empty path is a no-op.
func SeedUsers(ctx context.Context, conn *sql.DB, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("initial users file not found, skipping seed", slog.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	f, err := ParseSeedFile(data)
	if err != nil {
		return err
	}

	for _, u := range f.Users {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}
		res, err := conn.ExecContext(ctx, `
			INSERT INTO users (email, name, nickname, password_hash, role)
			VALUES ($1, NULLIF($2, ''), $3, $4, $5)
			ON CONFLICT DO NOTHING`,
			u.Email, u.Name, u.Nickname, hash, u.Role)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("seeded user", slog.String("email", u.Email), slog.String("role", u.Role))
		}
	}
	return nil
}
