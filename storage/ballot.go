package storage

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/vocdoni/cipherballot/types"
)

// CreateBallot allocates the next ballot id, stores the record and returns
// the id. The id in the passed record is overwritten. The registry is
// append-only: ballots are never deleted and ids are never reused.
func (s *Storage) CreateBallot(b *types.Ballot) (types.BallotID, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	tx := s.db.WriteTx()
	defer tx.Discard()

	id, err := nextID(tx)
	if err != nil {
		return 0, fmt.Errorf("read id allocator: %w", err)
	}
	b.ID = id

	val, err := encodeArtifact(b)
	if err != nil {
		return 0, fmt.Errorf("encode ballot: %w", err)
	}
	wTx := prefixeddb.NewPrefixedWriteTx(tx, ballotPrefix)
	if err := wTx.Set(ballotKey(id), val); err != nil {
		return 0, err
	}
	if err := setNextID(tx, id+1); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Ballot retrieves a ballot record. Returns ErrNotFound for unknown ids.
func (s *Storage) Ballot(id types.BallotID) (*types.Ballot, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, ballotPrefix)
	data, err := rd.Get(ballotKey(id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b := &types.Ballot{}
	if err := decodeArtifact(data, b); err != nil {
		return nil, fmt.Errorf("decode ballot: %w", err)
	}
	return b, nil
}

// HasBallot reports whether the ballot id exists.
func (s *Storage) HasBallot(id types.BallotID) bool {
	rd := prefixeddb.NewPrefixedReader(s.db, ballotPrefix)
	_, err := rd.Get(ballotKey(id))
	return err == nil
}

// ListBallots returns every stored ballot in id order.
func (s *Storage) ListBallots() ([]*types.Ballot, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, ballotPrefix)
	var ballots []*types.Ballot
	var iterErr error
	if err := rd.Iterate(nil, func(_, v []byte) bool {
		b := &types.Ballot{}
		if err := decodeArtifact(v, b); err != nil {
			iterErr = fmt.Errorf("decode ballot: %w", err)
			return false
		}
		ballots = append(ballots, b)
		return true
	}); err != nil {
		return nil, err
	}
	return ballots, iterErr
}

// HasVoted reports whether the voter holds a participation mark for the
// ballot.
func (s *Storage) HasVoted(id types.BallotID, voter common.Address) (bool, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, participationPrefix)
	_, err := rd.Get(participationKey(id, voter.Bytes()))
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CastVote atomically records a vote: it checks the voter has no
// participation mark yet, applies update to the ballot record, and commits
// the updated record together with the new participation mark in a single
// write transaction. Returns ErrVoteExists on a duplicate and rolls back
// everything if update fails.
func (s *Storage) CastVote(id types.BallotID, voter common.Address, update func(*types.Ballot) error) (*types.Ballot, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	b, err := s.Ballot(id)
	if err != nil {
		return nil, err
	}
	voted, err := s.HasVoted(id, voter)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrVoteExists
	}
	if err := update(b); err != nil {
		return nil, err
	}

	val, err := encodeArtifact(b)
	if err != nil {
		return nil, fmt.Errorf("encode ballot: %w", err)
	}
	tx := s.db.WriteTx()
	defer tx.Discard()
	if err := prefixeddb.NewPrefixedWriteTx(tx, ballotPrefix).Set(ballotKey(id), val); err != nil {
		return nil, err
	}
	if err := prefixeddb.NewPrefixedWriteTx(tx, participationPrefix).Set(participationKey(id, voter.Bytes()), []byte{1}); err != nil {
		return nil, err
	}
	return b, tx.Commit()
}

// CommitResults atomically publishes the plaintext results of a ballot: it
// re-checks the revealed flag under the global lock and flips it together
// with the results in one write transaction, so exactly one of several
// racing callers succeeds. The others get ErrAlreadyRevealed.
func (s *Storage) CommitResults(id types.BallotID, results []uint32) (*types.Ballot, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	b, err := s.Ballot(id)
	if err != nil {
		return nil, err
	}
	if b.ResultsRevealed {
		return nil, ErrAlreadyRevealed
	}
	if len(results) != len(b.Candidates) {
		return nil, fmt.Errorf("results length %d does not match %d candidates", len(results), len(b.Candidates))
	}
	b.Results = results
	b.ResultsRevealed = true

	val, err := encodeArtifact(b)
	if err != nil {
		return nil, fmt.Errorf("encode ballot: %w", err)
	}
	tx := s.db.WriteTx()
	defer tx.Discard()
	if err := prefixeddb.NewPrefixedWriteTx(tx, ballotPrefix).Set(ballotKey(id), val); err != nil {
		return nil, err
	}
	return b, tx.Commit()
}
