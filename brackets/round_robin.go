package brackets

import "fmt"

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate pairs every participant with every other one once. All pool
// matches belong to round 1.
func (g *RoundRobinGenerator) Generate(participantIDs []int) ([]Pairing, error) {
	if len(participantIDs) < 2 {
		return nil, fmt.Errorf("round robin with %d participants: %w", len(participantIDs), ErrNotEnoughParticipants)
	}
	if err := checkUnique(participantIDs); err != nil {
		return nil, err
	}

	n := len(participantIDs)
	pairings := make([]Pairing, 0, n*(n-1)/2)
	order := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			order++
			pairings = append(pairings, Pairing{
				Round:        1,
				OrderInRound: order,
				Participant1: participantIDs[i],
				Participant2: participantIDs[j],
			})
		}
	}
	return pairings, nil
}
