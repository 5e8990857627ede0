package services

import (
	"context"
	"errors"
	"testing"

	"github.com/badarts/club-backend/models"
)

func TestParticipantCreateByMode(t *testing.T) {
	tournaments := newFakeTournamentRepo(
		models.Tournament{ID: 1, Mode: models.ModeSingle},
		models.Tournament{ID: 2, Mode: models.ModeTeam},
	)
	svc := NewParticipantService(noTx{}, &fakeParticipantRepo{}, tournaments, &recordingHub{})
	ctx := context.Background()

	tests := []struct {
		name         string
		tournamentID int
		userIDs      []int
		wantErr      error
	}{
		{"single with one user", 1, []int{1}, nil},
		{"single with two users", 1, []int{1, 2}, ErrInvalidParticipantCount},
		{"team with one user", 2, []int{1}, ErrInvalidParticipantCount},
		{"team with duplicates", 2, []int{1, 1}, ErrValidationFailed},
		{"team with two users", 2, []int{1, 2}, nil},
		{"unknown tournament", 3, []int{1}, ErrTournamentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(ctx, tt.tournamentID, CreateParticipantInput{UserIDs: tt.userIDs})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if len(p.Members) != len(tt.userIDs) {
				t.Errorf("members = %+v", p.Members)
			}
		})
	}
}

func TestParticipantDisplayName(t *testing.T) {
	tournaments := newFakeTournamentRepo(models.Tournament{ID: 1, Mode: models.ModeTeam})
	svc := NewParticipantService(noTx{}, &fakeParticipantRepo{}, tournaments, nil)

	p, err := svc.Create(context.Background(), 1, CreateParticipantInput{UserIDs: []int{4, 5}})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.DisplayName(); got != "user4 / user5" {
		t.Errorf("DisplayName() = %q", got)
	}
}

func TestParticipantSwapPlayer(t *testing.T) {
	newFixture := func() (ParticipantService, *fakeParticipantRepo) {
		tournaments := newFakeTournamentRepo(
			models.Tournament{ID: 1, Mode: models.ModeSingle, Status: models.TournamentFinished},
			models.Tournament{ID: 2, Mode: models.ModeSingle, Status: models.TournamentRunning},
			models.Tournament{ID: 3, Mode: models.ModeTeam, Status: models.TournamentFinished},
		)
		participants := &fakeParticipantRepo{participants: []models.Participant{
			{ID: 10, TournamentID: 1, Members: []models.ParticipantMember{{UserID: 4}}},
			{ID: 11, TournamentID: 1, Members: []models.ParticipantMember{{UserID: 5}}},
			{ID: 20, TournamentID: 2, Members: []models.ParticipantMember{{UserID: 4}}},
			{ID: 30, TournamentID: 3, Members: []models.ParticipantMember{{UserID: 4}, {UserID: 6}}},
		}}
		return NewParticipantService(noTx{}, participants, tournaments, &recordingHub{}), participants
	}

	t.Run("finished single tournament", func(t *testing.T) {
		svc, participants := newFixture()
		p, err := svc.SwapPlayer(context.Background(), 1, SwapPlayerInput{WrongParticipantID: 10, CorrectUserID: 7})
		if err != nil {
			t.Fatalf("SwapPlayer() error = %v", err)
		}
		if p.ID != 10 || len(p.Members) != 1 || p.Members[0].UserID != 7 {
			t.Errorf("participant = %+v", p)
		}
		if participants.participants[1].Members[0].UserID != 5 {
			t.Error("another participant changed")
		}
	})

	tests := []struct {
		name         string
		tournamentID int
		input        SwapPlayerInput
		want         error
	}{
		{"running tournament", 2, SwapPlayerInput{WrongParticipantID: 20, CorrectUserID: 7}, ErrSwapNotAllowed},
		{"team tournament", 3, SwapPlayerInput{WrongParticipantID: 30, CorrectUserID: 7}, ErrSwapNotAllowed},
		{"participant of another tournament", 1, SwapPlayerInput{WrongParticipantID: 20, CorrectUserID: 7}, ErrParticipantNotFound},
		{"user already playing", 1, SwapPlayerInput{WrongParticipantID: 10, CorrectUserID: 5}, ErrSwapNotAllowed},
		{"unknown tournament", 9, SwapPlayerInput{WrongParticipantID: 10, CorrectUserID: 7}, ErrTournamentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, participants := newFixture()
			if _, err := svc.SwapPlayer(context.Background(), tt.tournamentID, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if participants.participants[0].Members[0].UserID != 4 {
				t.Error("participant changed on a rejected swap")
			}
		})
	}
}
