package ballotbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/storage"
	"github.com/vocdoni/cipherballot/types"
)

// Reveal decrypts every candidate counter of an ended ballot and commits the
// plaintext results in one atomic step, flipping the revealed flag exactly
// once. Decryption happens outside the storage lock and honors the context:
// a cancelled reveal leaves the ballot pending, never partially revealed.
// Under RevealBestEffort a counter that fails to decrypt is published as 0,
// so the committed tally can under-report that candidate; RevealStrict
// aborts instead. If two callers race, exactly one commit wins and the other
// gets ErrAlreadyRevealed.
func (bb *BallotBox) Reveal(ctx context.Context, id types.BallotID) error {
	b, err := bb.Ballot(id)
	if err != nil {
		return err
	}
	switch types.PhaseOf(b, bb.now()) {
	case types.PhaseActive:
		return fmt.Errorf("%w: voting ends at %s", ErrStillActive, b.EndTime)
	case types.PhaseRevealed:
		return ErrAlreadyRevealed
	}

	results := make([]uint32, len(b.Candidates))
	for i, counter := range b.Counters {
		value, err := bb.enc.Decrypt(ctx, encryption.CounterID(id, i), counter, uint64(b.TotalVotes), bb.engine)
		switch {
		case err == nil:
			results[i] = uint32(value)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("reveal aborted: %w", err)
		case bb.policy == RevealStrict:
			return fmt.Errorf("%w: candidate %d: %v", ErrDecryption, i, err)
		default:
			log.Warnw("counter decryption failed, publishing zero",
				"ballotId", id, "candidate", i, "error", err.Error())
			results[i] = 0
		}
	}

	committed, err := bb.stg.CommitResults(id, results)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyRevealed) {
			return ErrAlreadyRevealed
		}
		return fmt.Errorf("could not commit results: %w", err)
	}

	log.Infow("results revealed", "ballotId", id, "totalVotes", committed.TotalVotes, "results", results)
	bb.sink.OnResultsRevealed(ResultsRevealed{EventID: uuid.New(), BallotID: id, Results: results})
	return nil
}

// Results returns the plaintext per-candidate counts of a revealed ballot.
// Before the reveal it fails with ErrNotRevealed.
func (bb *BallotBox) Results(id types.BallotID) ([]uint32, error) {
	b, err := bb.Ballot(id)
	if err != nil {
		return nil, err
	}
	if !b.ResultsRevealed {
		return nil, ErrNotRevealed
	}
	return b.Results, nil
}
