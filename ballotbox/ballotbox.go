// Package ballotbox implements the ballot lifecycle: creation, confidential
// vote accumulation on homomorphically encrypted counters, one vote per
// address, time-gated phases and the one-time reveal that publishes the
// plaintext tally. All state lives in the storage layer, whose globally
// serialized write transactions play the role of the ledger; this package
// never mutates ballot fields outside those transactions.
package ballotbox

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/storage"
)

// RevealPolicy selects how a reveal reacts to a counter that fails to
// decrypt.
type RevealPolicy uint8

const (
	// RevealBestEffort substitutes 0 for a counter that fails to decrypt,
	// logs the failure and continues. The published tally can under-report
	// that candidate; availability is chosen over accuracy and the
	// substitution is irreversible once committed.
	RevealBestEffort RevealPolicy = iota
	// RevealStrict aborts the whole reveal on the first decryption failure,
	// leaving the ballot pending so the reveal can be retried.
	RevealStrict
)

// Config configures a BallotBox.
type Config struct {
	// Storage is the persistence layer. Required.
	Storage *storage.Storage
	// Encryption is the homomorphic counter backend. Required.
	Encryption encryption.Service
	// Engine is the principal the box decrypts as; it keeps decrypt
	// permission on every counter. Required.
	Engine common.Address
	// Sink receives lifecycle events after commit. Optional.
	Sink EventSink
	// Policy selects the reveal failure policy. Defaults to RevealBestEffort.
	Policy RevealPolicy
	// Now overrides the wall clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// BallotBox is the ballot engine.
type BallotBox struct {
	stg    *storage.Storage
	enc    encryption.Service
	engine common.Address
	sink   EventSink
	policy RevealPolicy
	now    func() time.Time
}

// New creates a BallotBox from the given configuration.
func New(cfg Config) (*BallotBox, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if cfg.Encryption == nil {
		return nil, fmt.Errorf("missing encryption service")
	}
	if cfg.Engine == (common.Address{}) {
		return nil, fmt.Errorf("missing engine address")
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BallotBox{
		stg:    cfg.Storage,
		enc:    cfg.Encryption,
		engine: cfg.Engine,
		sink:   cfg.Sink,
		policy: cfg.Policy,
		now:    cfg.Now,
	}, nil
}

// Encryption returns the encryption backend, so callers can reach
// backend-specific surface such as the ElGamal public key.
func (bb *BallotBox) Encryption() encryption.Service {
	return bb.enc
}
