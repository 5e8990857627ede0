package services

import (
	"context"
	"errors"
	"testing"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/standings"
)

func newMatchFixture(status models.MatchStatus, s1, s2 *float64) (MatchService, *fakeMatchRepo, *recordingHub) {
	tournaments := newFakeTournamentRepo(models.Tournament{ID: 1, Name: "Open"})
	matches := newFakeMatchRepo(models.Match{
		ID:           7,
		TournamentID: 1,
		Status:       status,
		Round:        1,
		Players: []models.MatchPlayer{
			{ParticipantID: 1, Score: s1},
			{ParticipantID: 2, Score: s2},
		},
	})
	pools := &fakePoolRepo{pools: []models.Pool{
		{ID: 3, TournamentID: 1, Name: "Poule A"},
		{ID: 4, TournamentID: 2, Name: "Poule A"},
	}}
	lb := NewLeaderboardService(tournaments, pools, &fakeLeaderboardRepo{byTournament: map[int][]standings.Match{}})
	hub := &recordingHub{}
	return NewMatchService(noTx{}, matches, tournaments, pools, lb, hub, discardLogger()), matches, hub
}

func TestMatchUpdateCompletesAndBroadcasts(t *testing.T) {
	svc, _, hub := newMatchFixture(models.MatchPending, nil, nil)

	m, err := svc.Update(context.Background(), 7, UpdateMatchInput{
		Status: ptr(models.MatchCompleted),
		Scores: []ScoreInput{{ParticipantID: 1, Score: ptr(3.0)}, {ParticipantID: 2, Score: ptr(1.0)}},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if m.Status != models.MatchCompleted {
		t.Errorf("status = %s", m.Status)
	}
	if w, ok := m.Winner(); !ok || w != 1 {
		t.Errorf("Winner() = %d, %v", w, ok)
	}
	if types := hub.types(); len(types) != 1 || types[0] != brackets.MessageMatchUpdated {
		t.Errorf("broadcasts = %v", types)
	}
}

func TestMatchUpdateRequiresBothScores(t *testing.T) {
	svc, _, _ := newMatchFixture(models.MatchPending, nil, nil)
	_, err := svc.Update(context.Background(), 7, UpdateMatchInput{
		Status: ptr(models.MatchCompleted),
		Scores: []ScoreInput{{ParticipantID: 1, Score: ptr(3.0)}},
	})
	if !errors.Is(err, ErrMatchScoresRequired) {
		t.Fatalf("err = %v, want ErrMatchScoresRequired", err)
	}
}

func TestMatchUpdateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.MatchStatus
		to      models.MatchStatus
		wantErr error
	}{
		{"completed to cancelled", models.MatchCompleted, models.MatchCancelled, nil},
		{"completed to pending", models.MatchCompleted, models.MatchPending, nil},
		{"cancelled to pending", models.MatchCancelled, models.MatchPending, nil},
		{"cancelled to completed", models.MatchCancelled, models.MatchCompleted, ErrInvalidStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newMatchFixture(tt.from, ptr(2.0), ptr(1.0))
			_, err := svc.Update(context.Background(), 7, UpdateMatchInput{Status: ptr(tt.to)})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchUpdateRejectsForeignParticipant(t *testing.T) {
	svc, _, _ := newMatchFixture(models.MatchPending, nil, nil)
	_, err := svc.Update(context.Background(), 7, UpdateMatchInput{
		Scores: []ScoreInput{{ParticipantID: 42, Score: ptr(1.0)}},
	})
	if !errors.Is(err, ErrMatchInvalidParticipant) {
		t.Fatalf("err = %v, want ErrMatchInvalidParticipant", err)
	}
}

func TestMatchCancelClearsScores(t *testing.T) {
	svc, _, _ := newMatchFixture(models.MatchCompleted, ptr(3.0), ptr(0.0))
	m, err := svc.Cancel(context.Background(), 7)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if m.Status != models.MatchPending {
		t.Errorf("status = %s, want pending", m.Status)
	}
	for _, p := range m.Players {
		if p.Score != nil {
			t.Errorf("score of %d = %v, want nil", p.ParticipantID, *p.Score)
		}
	}
}

func TestMatchCreateValidation(t *testing.T) {
	svc, _, _ := newMatchFixture(models.MatchPending, nil, nil)

	_, err := svc.Create(context.Background(), CreateMatchInput{TournamentID: 1, ParticipantIDs: []int{1}})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("one participant: err = %v", err)
	}
	_, err = svc.Create(context.Background(), CreateMatchInput{TournamentID: 1, ParticipantIDs: []int{1, 1}})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("duplicate participant: err = %v", err)
	}
	_, err = svc.Create(context.Background(), CreateMatchInput{TournamentID: 2, ParticipantIDs: []int{1, 2}})
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("unknown tournament: err = %v", err)
	}

	m, err := svc.Create(context.Background(), CreateMatchInput{TournamentID: 1, ParticipantIDs: []int{1, 2}, Round: ptr(2)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if m.Round != 2 || m.Status != models.MatchPending || len(m.Players) != 2 {
		t.Errorf("match = %+v", m)
	}
}

func TestMatchCreatePoolMustBelongToTournament(t *testing.T) {
	tests := []struct {
		name    string
		poolID  int
		wantErr error
	}{
		{"own pool", 3, nil},
		{"pool of another tournament", 4, ErrPoolNotFound},
		{"unknown pool", 99, ErrPoolNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, matches, _ := newMatchFixture(models.MatchPending, nil, nil)
			before := len(matches.matches)

			m, err := svc.Create(context.Background(), CreateMatchInput{
				TournamentID:   1,
				ParticipantIDs: []int{1, 2},
				PoolID:         ptr(tt.poolID),
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(matches.matches) != before {
					t.Errorf("match stored despite error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if m.PoolID == nil || *m.PoolID != tt.poolID {
				t.Errorf("pool_id = %v, want %d", m.PoolID, tt.poolID)
			}
		})
	}
}
