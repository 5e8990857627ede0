package services

import (
	"context"
	"errors"
	"testing"

	"github.com/badarts/club-backend/models"
)

func newStructureFixture(participants int) (StructureService, *fakeMatchRepo, *fakePoolRepo) {
	tournaments := newFakeTournamentRepo(models.Tournament{ID: 1, Name: "Open", Mode: models.ModeSingle})
	pr := &fakeParticipantRepo{}
	for i := 0; i < participants; i++ {
		pr.Create(context.Background(), nil, &models.Participant{TournamentID: 1}, []int{i + 1})
	}
	pools := &fakePoolRepo{}
	matches := newFakeMatchRepo()
	svc := NewStructureService(noTx{}, tournaments, pr, pools, matches, &recordingHub{}, discardLogger())
	return svc, matches, pools
}

func TestGeneratePools(t *testing.T) {
	svc, matches, _ := newStructureFixture(5)

	pools, err := svc.GeneratePools(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("GeneratePools() error = %v", err)
	}
	if len(pools) != 2 || pools[0].Name != "Poule A" || pools[1].Name != "Poule B" {
		t.Fatalf("pools = %+v", pools)
	}
	if len(pools[0].Participants) != 3 || len(pools[1].Participants) != 2 {
		t.Errorf("sizes = %d, %d", len(pools[0].Participants), len(pools[1].Participants))
	}
	if len(pools[0].Matches) != 3 || len(pools[1].Matches) != 1 {
		t.Errorf("matches = %d, %d", len(pools[0].Matches), len(pools[1].Matches))
	}
	if len(matches.matches) != 4 {
		t.Errorf("stored matches = %d, want 4", len(matches.matches))
	}

	// Regenerating replaces the previous structure.
	if _, err := svc.GeneratePools(context.Background(), 1, 1); err != nil {
		t.Fatalf("regenerate error = %v", err)
	}
	if len(matches.matches) != 10 {
		t.Errorf("stored matches after regenerate = %d, want 10", len(matches.matches))
	}
}

func TestGeneratePoolsNeedsTwoParticipants(t *testing.T) {
	svc, _, _ := newStructureFixture(1)
	if _, err := svc.GeneratePools(context.Background(), 1, 1); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestGenerateFinalsRejectsOddCount(t *testing.T) {
	svc, _, _ := newStructureFixture(3)
	if _, err := svc.GenerateFinals(context.Background(), 1, []int{1, 2, 3}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestAdvanceFinals(t *testing.T) {
	svc, matches, _ := newStructureFixture(4)
	ctx := context.Background()

	round1, err := svc.GenerateFinals(ctx, 1, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("GenerateFinals() error = %v", err)
	}
	if len(round1) != 2 {
		t.Fatalf("round 1 = %+v", round1)
	}

	if _, err := svc.AdvanceFinals(ctx, 1, 1); !errors.Is(err, ErrRoundUndecided) {
		t.Fatalf("undecided err = %v", err)
	}

	matches.UpdateResult(ctx, nil, round1[0].ID, models.MatchCompleted, map[int]*float64{1: ptr(1.0), 2: ptr(3.0)})
	matches.UpdateResult(ctx, nil, round1[1].ID, models.MatchCompleted, map[int]*float64{3: ptr(3.0), 4: ptr(2.0)})

	round2, err := svc.AdvanceFinals(ctx, 1, 1)
	if err != nil {
		t.Fatalf("AdvanceFinals() error = %v", err)
	}
	if len(round2) != 1 || round2[0].Round != 2 {
		t.Fatalf("round 2 = %+v", round2)
	}
	if p := round2[0].Players; p[0].ParticipantID != 2 || p[1].ParticipantID != 3 {
		t.Errorf("round 2 players = %+v", p)
	}

	if _, err := svc.AdvanceFinals(ctx, 1, 1); !errors.Is(err, ErrRoundAlreadyGenerated) {
		t.Errorf("second advance err = %v", err)
	}
	if _, err := svc.AdvanceFinals(ctx, 1, 2); !errors.Is(err, ErrNothingToAdvance) {
		t.Errorf("final round err = %v", err)
	}
}
