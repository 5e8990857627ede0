package standings

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/badarts/club-backend/models"
)

func score(v float64) *float64 { return &v }

func side(id int, s *float64, members ...Member) Side {
	return Side{ParticipantID: id, Name: "p", Score: s, Members: members}
}

func completed(id int, sides ...Side) Match {
	return Match{ID: id, TournamentID: 1, Status: models.MatchCompleted, Mode: models.ModeSingle, Sides: sides}
}

func findEntry(t *testing.T, entries []Entry, participantID int) Entry {
	t.Helper()
	for _, e := range entries {
		if e.ParticipantID == participantID {
			return e
		}
	}
	t.Fatalf("participant %d not found in %+v", participantID, entries)
	return Entry{}
}

func TestByParticipantEmpty(t *testing.T) {
	got := ByParticipant(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	pending := Match{ID: 1, Status: models.MatchPending, Sides: []Side{side(1, score(3)), side(2, score(1))}}
	if got := ByParticipant([]Match{pending}); len(got) != 0 {
		t.Fatalf("pending match must not contribute, got %+v", got)
	}
}

func TestByParticipantSingleWin(t *testing.T) {
	got := ByParticipant([]Match{completed(1, side(1, score(3)), side(2, score(1)))})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	a := findEntry(t, got, 1)
	if a.Wins != 1 || a.TotalManches != 3 {
		t.Errorf("A = %+v, want wins=1 manches=3", a)
	}
	b := findEntry(t, got, 2)
	if b.Wins != 0 || b.TotalManches != 1 {
		t.Errorf("B = %+v, want wins=0 manches=1", b)
	}
	if got[0].ParticipantID != 1 {
		t.Errorf("winner should rank first, got %+v", got)
	}
}

func TestByParticipantTie(t *testing.T) {
	got := ByParticipant([]Match{completed(1, side(1, score(2)), side(2, score(2)))})
	for _, e := range got {
		if e.Wins != 0 {
			t.Errorf("tie credited a win: %+v", e)
		}
		if e.TotalManches != 2 {
			t.Errorf("tie manches = %v, want 2", e.TotalManches)
		}
	}
}

func TestByParticipantMalformedMatches(t *testing.T) {
	tests := []struct {
		name  string
		match Match
	}{
		{"one side", completed(1, side(1, score(3)))},
		{"three sides", completed(2, side(1, score(3)), side(2, score(1)), side(3, score(0)))},
		{"missing score", completed(3, side(1, score(3)), side(2, nil))},
		{"no sides", completed(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByParticipant([]Match{tt.match}); len(got) != 0 {
				t.Fatalf("expected no entries, got %+v", got)
			}
		})
	}
}

func TestByParticipantOrdering(t *testing.T) {
	// A: 2 wins 5 manches, B: 2 wins 7 manches, C: 1 win 10 manches.
	matches := []Match{
		completed(1, side(1, score(3)), side(9, score(0))),
		completed(2, side(1, score(2)), side(9, score(0))),
		completed(3, side(2, score(4)), side(9, score(0))),
		completed(4, side(2, score(3)), side(9, score(0))),
		completed(5, side(3, score(6)), side(9, score(0))),
		completed(6, side(3, score(4)), side(9, score(5))),
	}
	got := ByParticipant(matches)

	want := []struct {
		id      int
		wins    int
		manches float64
	}{
		{2, 2, 7},
		{1, 2, 5},
		{3, 1, 10},
		{9, 1, 5},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].ParticipantID != w.id || got[i].Wins != w.wins || got[i].TotalManches != w.manches {
			t.Errorf("position %d = %+v, want id=%d wins=%d manches=%v", i, got[i], w.id, w.wins, w.manches)
		}
	}
}

func TestByParticipantEqualKeysOrderedByID(t *testing.T) {
	got := ByParticipant([]Match{
		completed(1, side(7, score(1)), side(3, score(1))),
	})
	if got[0].ParticipantID != 3 || got[1].ParticipantID != 7 {
		t.Fatalf("expected id order on full tie, got %+v", got)
	}
}

func TestBySeasonTeamSplit(t *testing.T) {
	alice := Member{UserID: 10, Nickname: "alice"}
	bob := Member{UserID: 11, Nickname: "bob"}
	carl := Member{UserID: 12, Nickname: "carl"}
	dave := Member{UserID: 13, Nickname: "dave"}

	m := Match{
		ID:     1,
		Status: models.MatchCompleted,
		Mode:   models.ModeTeam,
		Sides: []Side{
			side(1, score(3), alice, bob),
			side(2, score(1), carl, dave),
		},
	}
	got := BySeason([]Match{m})
	if len(got) != 4 {
		t.Fatalf("expected 4 users, got %+v", got)
	}

	for _, e := range got[:2] {
		if e.UserID != 10 && e.UserID != 11 {
			t.Fatalf("winners should rank first, got %+v", got)
		}
		if e.TeamWins != 0.5 || e.TeamManches != 1.5 {
			t.Errorf("winner %+v, want double_wins=0.5 double_manches=1.5", e)
		}
		if e.TotalPoints != 2 {
			t.Errorf("winner total points = %v, want 2", e.TotalPoints)
		}
		if e.SingleWins != 0 || e.SingleManches != 0 {
			t.Errorf("team match leaked into single totals: %+v", e)
		}
	}
	for _, e := range got[2:] {
		if e.TeamWins != 0 || e.TeamManches != 0.5 || e.TotalPoints != 0.5 {
			t.Errorf("loser %+v, want double_wins=0 double_manches=0.5", e)
		}
	}
}

func TestBySeasonMergesModes(t *testing.T) {
	alice := Member{UserID: 10, Nickname: "alice"}
	bob := Member{UserID: 11, Nickname: "bob"}

	single := Match{ID: 1, TournamentID: 1, Status: models.MatchCompleted, Mode: models.ModeSingle,
		Sides: []Side{side(1, score(3), alice), side(2, score(2), bob)}}
	team := Match{ID: 2, TournamentID: 2, Status: models.MatchCompleted, Mode: models.ModeTeam,
		Sides: []Side{side(3, score(4), alice, bob), side(4, score(2), Member{UserID: 12}, Member{UserID: 13})}}
	// single participant with two members is not attributable
	broken := Match{ID: 3, TournamentID: 1, Status: models.MatchCompleted, Mode: models.ModeSingle,
		Sides: []Side{side(5, score(3), alice, bob), side(2, score(0), bob)}}

	got := BySeason([]Match{single, team, broken})
	if got[0].UserID != 10 {
		t.Fatalf("alice should lead, got %+v", got)
	}
	a := got[0]
	if a.SingleWins != 1 || a.SingleManches != 3 || a.TeamWins != 0.5 || a.TeamManches != 2 {
		t.Errorf("alice = %+v", a)
	}
	if a.TotalPoints != 6.5 {
		t.Errorf("alice total = %v, want 6.5", a.TotalPoints)
	}

	var b SeasonEntry
	for _, e := range got {
		if e.UserID == 11 {
			b = e
		}
	}
	if b.SingleWins != 0 || b.SingleManches != 2 || b.TeamWins != 0.5 || b.TeamManches != 2 {
		t.Errorf("bob = %+v", b)
	}
}

func TestIdempotentOutput(t *testing.T) {
	alice := Member{UserID: 10, Nickname: "alice"}
	bob := Member{UserID: 11, Nickname: "bob"}
	matches := []Match{
		{ID: 1, Status: models.MatchCompleted, Mode: models.ModeSingle, Sides: []Side{side(1, score(2), alice), side(2, score(2), bob)}},
		{ID: 2, Status: models.MatchCompleted, Mode: models.ModeSingle, Sides: []Side{side(3, score(1)), side(4, score(1))}},
		{ID: 3, Status: models.MatchCompleted, Mode: models.ModeSingle, Sides: []Side{side(5, score(0)), side(6, score(0))}},
	}

	first, err := json.Marshal(ByParticipant(matches))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(ByParticipant(matches))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("participant output differs:\n%s\n%s", first, second)
	}

	s1, _ := json.Marshal(BySeason(matches))
	s2, _ := json.Marshal(BySeason(matches))
	if !bytes.Equal(s1, s2) {
		t.Fatalf("season output differs:\n%s\n%s", s1, s2)
	}
}

func TestInputsNotMutated(t *testing.T) {
	s := score(3)
	matches := []Match{completed(1, side(1, s), side(2, score(1)))}
	ByParticipant(matches)
	BySeason(matches)
	if *matches[0].Sides[0].Score != 3 || len(matches[0].Sides) != 2 {
		t.Fatalf("input modified: %+v", matches[0])
	}
}
