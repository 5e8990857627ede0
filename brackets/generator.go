package brackets

import "errors"

var (
	ErrNotEnoughParticipants = errors.New("at least two participants are required")
	ErrOddParticipants       = errors.New("an even number of participants is required")
	ErrDuplicateParticipant  = errors.New("participant listed more than once")
)

// Pairing is a match to create between two participants.
type Pairing struct {
	Round        int
	OrderInRound int
	Participant1 int
	Participant2 int
}

// Generator turns an ordered list of participant ids into pairings.
type Generator interface {
	Generate(participantIDs []int) ([]Pairing, error)
	Name() string
}

func checkUnique(ids []int) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return ErrDuplicateParticipant
		}
		seen[id] = struct{}{}
	}
	return nil
}
