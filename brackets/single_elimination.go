package brackets

import (
	"errors"
	"fmt"
)

var ErrRoundUndecided = errors.New("round has matches without a winner")

type SingleEliminationGenerator struct {
	round int
}

// NewSingleEliminationGenerator pairs seeds for the given round.
func NewSingleEliminationGenerator(round int) Generator {
	if round < 1 {
		round = 1
	}
	return &SingleEliminationGenerator{round: round}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate pairs consecutive seeds: 1 vs 2, 3 vs 4, ...
func (g *SingleEliminationGenerator) Generate(participantIDs []int) ([]Pairing, error) {
	n := len(participantIDs)
	if n < 2 {
		return nil, fmt.Errorf("elimination round with %d participants: %w", n, ErrNotEnoughParticipants)
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("elimination round with %d participants: %w", n, ErrOddParticipants)
	}
	if err := checkUnique(participantIDs); err != nil {
		return nil, err
	}

	pairings := make([]Pairing, 0, n/2)
	for i := 0; i < n; i += 2 {
		pairings = append(pairings, Pairing{
			Round:        g.round,
			OrderInRound: i/2 + 1,
			Participant1: participantIDs[i],
			Participant2: participantIDs[i+1],
		})
	}
	return pairings, nil
}

// RoundResult is the outcome of one finished elimination match.
type RoundResult struct {
	MatchID  int
	WinnerID int
	Decided  bool
}

// NextRound pairs the winners of round, in match order, into round+1.
func NextRound(round int, results []RoundResult) ([]Pairing, error) {
	winners := make([]int, 0, len(results))
	for _, r := range results {
		if !r.Decided {
			return nil, fmt.Errorf("match %d: %w", r.MatchID, ErrRoundUndecided)
		}
		winners = append(winners, r.WinnerID)
	}
	return NewSingleEliminationGenerator(round + 1).Generate(winners)
}
