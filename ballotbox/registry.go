package ballotbox

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/storage"
	"github.com/vocdoni/cipherballot/types"
)

// CreateBallot validates and stores a new ballot. One encrypted zero counter
// is created per candidate, and the engine principal is granted decrypt
// permission on each so the reveal can run later. Returns the new dense id.
func (bb *BallotBox) CreateBallot(creator common.Address, title string, candidates []string, duration time.Duration) (types.BallotID, error) {
	if len(candidates) < types.MinCandidates || len(candidates) > types.MaxCandidates {
		return 0, fmt.Errorf("%w: got %d", ErrCandidateCount, len(candidates))
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%w: got %s", ErrDuration, duration)
	}

	counters := make([]types.HexBytes, len(candidates))
	for i := range counters {
		counter, err := bb.enc.EncryptZero()
		if err != nil {
			return 0, fmt.Errorf("could not initialize counter %d: %w", i, err)
		}
		counters[i] = counter
	}

	b := &types.Ballot{
		Title:      title,
		Candidates: candidates,
		Creator:    creator,
		EndTime:    bb.now().Add(duration).UTC(),
		IsActive:   true,
		Counters:   counters,
	}
	id, err := bb.stg.CreateBallot(b)
	if err != nil {
		return 0, fmt.Errorf("could not store ballot: %w", err)
	}
	for i := range candidates {
		bb.enc.GrantDecrypt(encryption.CounterID(id, i), bb.engine)
	}

	log.Infow("ballot created", "ballotId", id, "title", title,
		"candidates", len(candidates), "endTime", b.EndTime, "creator", creator.Hex())
	bb.sink.OnBallotCreated(BallotCreated{
		EventID:  uuid.New(),
		BallotID: id,
		Title:    title,
		Creator:  creator,
		EndTime:  b.EndTime,
	})
	return id, nil
}

// Exists reports whether the ballot id is known.
func (bb *BallotBox) Exists(id types.BallotID) bool {
	return bb.stg.HasBallot(id)
}

// Ballot returns the ballot record with its IsActive flag recomputed from
// the wall clock, so callers never see a stale active flag.
func (bb *BallotBox) Ballot(id types.BallotID) (*types.Ballot, error) {
	b, err := bb.stg.Ballot(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBallotNotFound
		}
		return nil, err
	}
	b.IsActive = b.IsActive && bb.now().Before(b.EndTime)
	return b, nil
}

// ActiveBallots returns the ids of all ballots in the active phase.
func (bb *BallotBox) ActiveBallots() ([]types.BallotID, error) {
	return bb.ballotsInPhase(types.PhaseActive)
}

// EndedBallots returns the ids of all ballots whose voting window is over,
// revealed or not. Together with ActiveBallots it partitions the full id
// range with no overlap.
func (bb *BallotBox) EndedBallots() ([]types.BallotID, error) {
	ended, err := bb.ballotsInPhase(types.PhaseEnded)
	if err != nil {
		return nil, err
	}
	revealed, err := bb.ballotsInPhase(types.PhaseRevealed)
	if err != nil {
		return nil, err
	}
	ids := append(ended, revealed...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// PendingBallots returns the ids of all ballots in the ended phase that have
// not been revealed yet, the ones a reveal driver should pick up.
func (bb *BallotBox) PendingBallots() ([]types.BallotID, error) {
	return bb.ballotsInPhase(types.PhaseEnded)
}

func (bb *BallotBox) ballotsInPhase(phase types.Phase) ([]types.BallotID, error) {
	ballots, err := bb.stg.ListBallots()
	if err != nil {
		return nil, err
	}
	now := bb.now()
	ids := []types.BallotID{}
	for _, b := range ballots {
		if types.PhaseOf(b, now) == phase {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}
