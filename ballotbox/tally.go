package ballotbox

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/storage"
	"github.com/vocdoni/cipherballot/types"
)

// Vote records one plaintext-index vote: the counter of the chosen candidate
// is incremented homomorphically by one and the voter receives decrypt
// permission on that counter, which lets them confirm their vote landed
// without exposing the aggregate to anyone else. The phase check, the
// duplicate check, the counter update and the participation mark commit in a
// single storage transaction.
func (bb *BallotBox) Vote(id types.BallotID, candidateIndex int, voter common.Address) error {
	b, err := bb.stg.CastVote(id, voter, func(b *types.Ballot) error {
		if phase := types.PhaseOf(b, bb.now()); phase != types.PhaseActive {
			return fmt.Errorf("%w: phase is %s", ErrNotActive, phase)
		}
		if candidateIndex < 0 || candidateIndex >= len(b.Candidates) {
			return fmt.Errorf("%w: index %d with %d candidates", ErrCandidateIndex, candidateIndex, len(b.Candidates))
		}
		counter, err := bb.enc.AddConstant(b.Counters[candidateIndex], 1)
		if err != nil {
			return fmt.Errorf("could not increment counter: %w", err)
		}
		b.Counters[candidateIndex] = counter
		b.TotalVotes++
		return nil
	})
	if err != nil {
		return mapVoteErr(err)
	}

	bb.enc.GrantDecrypt(encryption.CounterID(id, candidateIndex), bb.engine)
	bb.enc.GrantDecrypt(encryption.CounterID(id, candidateIndex), voter)

	log.Infow("vote cast", "ballotId", id, "voter", voter.Hex(), "totalVotes", b.TotalVotes)
	bb.sink.OnVoteCast(VoteCast{EventID: uuid.New(), BallotID: id, Voter: voter})
	return nil
}

// VoteEncrypted records one confidential vote. The ballot is a one-hot
// vector of ciphertexts, one per candidate; the proof is verified by the
// encryption backend before anything is credited, and on success every entry
// is added into its candidate's counter, so exactly one counter gains one.
// Verification recovers the entry plaintexts transiently; nothing about the
// chosen candidate is persisted, and no per-candidate grant is issued to the
// voter since that would record the choice.
func (bb *BallotBox) VoteEncrypted(id types.BallotID, entries []types.HexBytes, proof *encryption.BallotProof, voter common.Address) error {
	if !bb.stg.HasBallot(id) {
		return ErrBallotNotFound
	}
	if err := bb.enc.VerifyBallotProof(entries, proof); err != nil {
		return fmt.Errorf("%w: %v", ErrProofVerification, err)
	}
	b, err := bb.stg.CastVote(id, voter, func(b *types.Ballot) error {
		if phase := types.PhaseOf(b, bb.now()); phase != types.PhaseActive {
			return fmt.Errorf("%w: phase is %s", ErrNotActive, phase)
		}
		if len(entries) != len(b.Candidates) {
			return fmt.Errorf("%w: %d entries for %d candidates", ErrProofVerification, len(entries), len(b.Candidates))
		}
		for i := range entries {
			counter, err := bb.enc.AddCiphertext(b.Counters[i], entries[i])
			if err != nil {
				return fmt.Errorf("could not accumulate entry %d: %w", i, err)
			}
			b.Counters[i] = counter
		}
		b.TotalVotes++
		return nil
	})
	if err != nil {
		return mapVoteErr(err)
	}

	log.Infow("encrypted vote cast", "ballotId", id, "voter", voter.Hex(), "totalVotes", b.TotalVotes)
	bb.sink.OnVoteCast(VoteCast{EventID: uuid.New(), BallotID: id, Voter: voter})
	return nil
}

// HasVoted reports whether the voter already has a participation mark for
// the ballot.
func (bb *BallotBox) HasVoted(id types.BallotID, voter common.Address) (bool, error) {
	if !bb.stg.HasBallot(id) {
		return false, ErrBallotNotFound
	}
	return bb.stg.HasVoted(id, voter)
}

// EncryptedVoteCount returns the opaque counter handle of one candidate. The
// handle is public; only granted principals can turn it into a plaintext.
func (bb *BallotBox) EncryptedVoteCount(id types.BallotID, candidateIndex int) (types.HexBytes, error) {
	b, err := bb.Ballot(id)
	if err != nil {
		return nil, err
	}
	if candidateIndex < 0 || candidateIndex >= len(b.Candidates) {
		return nil, fmt.Errorf("%w: index %d with %d candidates", ErrCandidateIndex, candidateIndex, len(b.Candidates))
	}
	return b.Counters[candidateIndex], nil
}

func mapVoteErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrBallotNotFound
	case errors.Is(err, storage.ErrVoteExists):
		return ErrDuplicateVote
	default:
		return err
	}
}
