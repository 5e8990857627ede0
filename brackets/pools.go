package brackets

import "fmt"

type PoolDraft struct {
	Name           string
	ParticipantIDs []int
}

// PoolName returns "Poule A", "Poule B", ... and numbers past Z.
func PoolName(i int) string {
	if i < 26 {
		return fmt.Sprintf("Poule %c", 'A'+i)
	}
	return fmt.Sprintf("Poule %d", i+1)
}

// DistributePools deals participants into numPools pools one at a time, like
// cards. numPools is clamped to [1, len(participantIDs)].
func DistributePools(participantIDs []int, numPools int) []PoolDraft {
	if len(participantIDs) == 0 {
		return []PoolDraft{}
	}
	if numPools < 1 {
		numPools = 1
	}
	if numPools > len(participantIDs) {
		numPools = len(participantIDs)
	}

	pools := make([]PoolDraft, numPools)
	for i := range pools {
		pools[i] = PoolDraft{Name: PoolName(i), ParticipantIDs: []int{}}
	}
	for i, id := range participantIDs {
		p := &pools[i%numPools]
		p.ParticipantIDs = append(p.ParticipantIDs, id)
	}
	return pools
}
