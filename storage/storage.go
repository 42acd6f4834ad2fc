// Package storage persists ballot records and per-ballot participation sets
// in a prefixed key-value store. The following prefixes are used:
//   - 'b/' for ballot records, keyed by big-endian ballot id
//   - 'vp/' for participation marks, keyed by ballot id + voter address
//   - 'id/' for the next-ballot-id allocator
//
// Every mutation runs under a single lock and commits one write transaction,
// so writes are atomic and globally ordered: no two mutations on the same
// ballot ever interleave. Reads take no lock and observe the latest
// committed state.
package storage

import (
	"encoding/binary"
	"errors"
	"sync"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	ballotPrefix        = []byte("b/")
	participationPrefix = []byte("vp/")
	idPrefix            = []byte("id/")

	// nextIDKey holds the id the next created ballot receives.
	nextIDKey = []byte("next")
)

var (
	// ErrNotFound is returned when a ballot id is unknown.
	ErrNotFound = errors.New("ballot not found")
	// ErrVoteExists is returned when a voter already has a participation
	// mark for the ballot.
	ErrVoteExists = errors.New("voter already voted in this ballot")
	// ErrAlreadyRevealed is returned when results were already committed.
	ErrAlreadyRevealed = errors.New("results already revealed")
)

// Storage wraps the database with ballot-specific operations.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance over the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

// ballotKey encodes a ballot id as a fixed-width big-endian key so ids
// iterate in creation order.
func ballotKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// participationKey scopes a voter mark to its ballot.
func participationKey(id uint64, voter []byte) []byte {
	return append(ballotKey(id), voter...)
}

// nextID reads the id allocator inside an open transaction.
func nextID(tx db.WriteTx) (uint64, error) {
	wTx := prefixeddb.NewPrefixedWriteTx(tx, idPrefix)
	data, err := wTx.Get(nextIDKey)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

func setNextID(tx db.WriteTx, id uint64) error {
	wTx := prefixeddb.NewPrefixedWriteTx(tx, idPrefix)
	return wTx.Set(nextIDKey, ballotKey(id))
}
