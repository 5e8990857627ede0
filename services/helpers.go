package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/notify"
	"github.com/badarts/club-backend/repositories"
)

const notifyTimeout = 10 * time.Second

// Transactor runs fn inside one database transaction. fn receives the
// executor repositories must use to join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTransactor struct {
	db *sql.DB
}

func NewTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// notifyAsync sends a notification without holding up the request. Failures
// are only logged.
func notifyAsync(ctx context.Context, n notify.Notifier, logger *slog.Logger, text string) {
	if n == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := n.Notify(ctx, text); err != nil && logger != nil {
			logger.Warn("notification failed", slog.Any("error", err))
		}
	}()
}

func broadcast(b brackets.Broadcaster, tournamentID int, msgType string, payload interface{}) {
	if b == nil {
		return
	}
	room := brackets.TournamentRoom(tournamentID)
	b.BroadcastToRoom(room, brackets.WebSocketMessage{Type: msgType, Payload: payload, RoomID: room})
}

func uniqueInts(ids []int) bool {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
