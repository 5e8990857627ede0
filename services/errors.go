package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/badarts/club-backend/repositories"
)

var (
	ErrNotFound = errors.New("requested resource not found")

	// validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrRegistrationNotOpen     = errors.New("tournament registrations are closed")
	ErrInvalidParticipantCount = errors.New("invalid number of users for the tournament mode")
	ErrInvalidStatusTransition = errors.New("invalid match status transition")
	ErrMatchScoresRequired     = errors.New("a completed match needs a score for both participants")
	ErrMatchInvalidParticipant = errors.New("participant does not belong to this tournament or match")
	ErrRoundUndecided          = errors.New("every match of the round must be completed with a winner")
	ErrNothingToAdvance        = errors.New("fewer than two winners, nothing to advance")
	ErrRoundAlreadyGenerated   = errors.New("next round already exists")
	ErrInvalidImportFile       = errors.New("invalid import file")
	ErrInvalidPaymentAmount    = errors.New("amount must be positive")
	ErrInvalidDoublette        = errors.New("doublette must reference an existing inscription")
	ErrSwapNotAllowed          = errors.New("players can only be swapped in a finished single-player tournament")

	// conflicts
	ErrUserEmailConflict     = errors.New("email address is already in use")
	ErrUserNicknameConflict  = errors.New("nickname is already in use")
	ErrRegistrationConflict  = errors.New("user is already registered for this tournament")
	ErrLicenceNumberConflict = errors.New("licence number already exists")
	ErrInscriptionConflict   = errors.New("an inscription with the same name, surname and club already exists")

	// authentication and authorization
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrInvalidWebhook       = errors.New("invalid payment webhook")
	ErrFeatureNotConfigured = errors.New("feature is not configured on this server")

	// entities
	ErrUserNotFound         = errors.New("user not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrPoolNotFound         = errors.New("pool not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrLicenceNotFound      = errors.New("licence not found")
	ErrInscriptionNotFound  = errors.New("inscription not found")
	ErrUnknownLeaderboard   = errors.New("unknown official leaderboard")

	ErrOfficialLeaderboardNotFound = errors.New("leaderboard not yet updated")

	ErrNotificationFailed = errors.New("notification could not be delivered")
	ErrUpstreamFailed     = errors.New("upstream service call failed")
)

// ValidationError carries per-field messages and matches ErrValidationFailed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

type validator map[string]string

func (v validator) check(ok bool, field, message string) {
	if !ok {
		if _, exists := v[field]; !exists {
			v[field] = message
		}
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

// handleRepositoryError translates repository sentinels into service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrUserNicknameConflict):
		return ErrUserNicknameConflict
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrRegistrationNotFound):
		return ErrRegistrationNotFound
	case errors.Is(err, repositories.ErrRegistrationConflict):
		return ErrRegistrationConflict
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrParticipantInvalidMember):
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	case errors.Is(err, repositories.ErrPoolNotFound):
		return ErrPoolNotFound
	case errors.Is(err, repositories.ErrPoolInvalidParticipant),
		errors.Is(err, repositories.ErrMatchInvalidParticipant):
		return ErrMatchInvalidParticipant
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrLicenceNotFound):
		return ErrLicenceNotFound
	case errors.Is(err, repositories.ErrLicenceNumberConflict):
		return ErrLicenceNumberConflict
	case errors.Is(err, repositories.ErrInscriptionNotFound):
		return ErrInscriptionNotFound
	case errors.Is(err, repositories.ErrInscriptionInvalidDoublette):
		return ErrInvalidDoublette
	default:
		return err
	}
}
