package ballotbox

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/vocdoni/cipherballot/types"
)

// BallotCreated is emitted once per ballot, after the creation transaction
// has committed.
type BallotCreated struct {
	EventID  uuid.UUID
	BallotID types.BallotID
	Title    string
	Creator  common.Address
	EndTime  time.Time
}

// VoteCast is emitted after a vote has committed. It intentionally omits the
// candidate: the choice stays confidential until the reveal.
type VoteCast struct {
	EventID  uuid.UUID
	BallotID types.BallotID
	Voter    common.Address
}

// ResultsRevealed is emitted exactly once per ballot, after the plaintext
// results have committed.
type ResultsRevealed struct {
	EventID  uuid.UUID
	BallotID types.BallotID
	Results  []uint32
}

// EventSink receives lifecycle notifications. Sinks are invoked synchronously
// after the corresponding transaction has committed; implementations that
// block should hand off to their own goroutine.
type EventSink interface {
	OnBallotCreated(BallotCreated)
	OnVoteCast(VoteCast)
	OnResultsRevealed(ResultsRevealed)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnBallotCreated(BallotCreated)     {}
func (NopSink) OnVoteCast(VoteCast)               {}
func (NopSink) OnResultsRevealed(ResultsRevealed) {}
