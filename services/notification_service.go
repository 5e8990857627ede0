package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/badarts/club-backend/notify"
)

type NotificationService interface {
	// Broadcast sends an administrator message to the club channel.
	Broadcast(ctx context.Context, message string) error
}

type notificationService struct {
	notifier notify.Notifier
}

func NewNotificationService(notifier notify.Notifier) NotificationService {
	return &notificationService{notifier: notifier}
}

func (s *notificationService) Broadcast(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return &ValidationError{Fields: map[string]string{"message": "must be provided"}}
	}
	if err := s.notifier.Notify(ctx, notify.Broadcast(message)); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}
