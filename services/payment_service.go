package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/badarts/club-backend/notify"
	"github.com/badarts/club-backend/payments"
	"github.com/badarts/club-backend/repositories"
)

type PaymentService interface {
	PayForTournament(ctx context.Context, userID, tournamentID int, amountCents int64) (*payments.Checkout, error)
	HandleWebhook(ctx context.Context, body []byte, header http.Header) error
	IsPaid(ctx context.Context, userID, tournamentID int) (bool, error)
}

type paymentService struct {
	provider       payments.Provider
	paymentRepo    repositories.PaymentRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	notifier       notify.Notifier
	returnURL      string
	logger         *slog.Logger
}

func NewPaymentService(
	provider payments.Provider,
	paymentRepo repositories.PaymentRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	notifier notify.Notifier,
	returnURL string,
	logger *slog.Logger,
) PaymentService {
	return &paymentService{
		provider:       provider,
		paymentRepo:    paymentRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		returnURL:      returnURL,
		logger:         logger,
	}
}

func (s *paymentService) PayForTournament(ctx context.Context, userID, tournamentID int, amountCents int64) (*payments.Checkout, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	checkout, err := s.provider.CreateCheckout(ctx, payments.CheckoutRequest{
		UserID:         userID,
		TournamentID:   tournamentID,
		TournamentName: t.Name,
		AmountCents:    amountCents,
		ReturnURL:      s.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s checkout: %w", s.provider.Name(), err)
	}
	s.logger.Info("checkout created",
		slog.String("provider", s.provider.Name()),
		slog.Int("user_id", userID),
		slog.Int("tournament_id", tournamentID))
	return checkout, nil
}

// HandleWebhook records a confirmed payment. Events that do not confirm a
// payment are accepted and ignored.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, header http.Header) error {
	event, err := s.provider.ParseWebhook(ctx, body, header)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrIgnoredEvent):
			return nil
		case errors.Is(err, payments.ErrInvalidSignature), errors.Is(err, payments.ErrMalformedPayload):
			return fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
		}
		return err
	}
	if !event.Paid {
		return nil
	}

	if err := s.paymentRepo.MarkPaid(ctx, event.UserID, event.TournamentID, event.Reference); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.Info("payment confirmed",
		slog.Int("user_id", event.UserID),
		slog.Int("tournament_id", event.TournamentID),
		slog.String("reference", event.Reference))

	nickname := fmt.Sprintf("user #%d", event.UserID)
	if u, err := s.userRepo.GetByID(ctx, event.UserID); err == nil {
		nickname = u.Nickname
	}
	tournament := fmt.Sprintf("tournament #%d", event.TournamentID)
	if t, err := s.tournamentRepo.GetByID(ctx, event.TournamentID); err == nil {
		tournament = t.Name
	}
	notifyAsync(ctx, s.notifier, s.logger, notify.PaymentConfirmed(nickname, tournament, event.Reference))
	return nil
}

func (s *paymentService) IsPaid(ctx context.Context, userID, tournamentID int) (bool, error) {
	paid, err := s.paymentRepo.IsPaid(ctx, userID, tournamentID)
	if err != nil {
		return false, fmt.Errorf("failed to check payment: %w", err)
	}
	return paid, nil
}
