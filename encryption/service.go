// Package encryption defines the surface the ballot engine uses to work with
// homomorphically encrypted vote counters. Counters are opaque byte handles:
// the engine never inspects them, it only asks a Service to create, combine,
// grant access to, or decrypt them. Two backends are provided, EC-ElGamal on
// Baby Jubjub (the default) and Paillier.
package encryption

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vocdoni/cipherballot/types"
)

var (
	// ErrProofInvalid is returned when a confidential ballot proof does not
	// verify against the submitted ciphertexts.
	ErrProofInvalid = errors.New("ballot proof verification failed")
	// ErrProofUnsupported is returned by backends that cannot verify
	// confidential ballot proofs.
	ErrProofUnsupported = errors.New("ballot proofs not supported by this backend")
	// ErrPermissionDenied is returned when a principal without a decrypt
	// grant asks for a counter's plaintext.
	ErrPermissionDenied = errors.New("principal has no decrypt permission")
	// ErrMalformedCounter is returned when a counter handle cannot be
	// decoded by the backend.
	ErrMalformedCounter = errors.New("malformed counter handle")
)

// BallotProof accompanies a confidential ballot. It carries the encryption
// randomness of every ciphertext entry, which lets the service check that
// each entry encrypts 0 or 1 and that exactly one entry encrypts 1, without
// learning which one at rest (the check happens in memory and nothing about
// the chosen candidate is persisted).
type BallotProof struct {
	Randomness []*types.BigInt `json:"randomness"`
}

// Service is the encryption collaborator of the ballot engine. All methods
// operate on opaque counter handles produced by the same backend. Handles are
// immutable; the Add* operations return a new handle.
type Service interface {
	// Name identifies the backend ("elgamal", "paillier").
	Name() string
	// EncryptZero returns a fresh counter encrypting zero.
	EncryptZero() (types.HexBytes, error)
	// AddConstant homomorphically adds a plaintext constant to the counter.
	AddConstant(counter types.HexBytes, delta uint64) (types.HexBytes, error)
	// AddCiphertext homomorphically adds another ciphertext to the counter.
	AddCiphertext(counter, other types.HexBytes) (types.HexBytes, error)
	// VerifyBallotProof checks that entries form a valid one-hot encrypted
	// ballot. Returns ErrProofInvalid on failure, ErrProofUnsupported if the
	// backend cannot verify proofs.
	VerifyBallotProof(entries []types.HexBytes, proof *BallotProof) error
	// GrantDecrypt records decrypt permission for principal on a counter.
	GrantDecrypt(counterID string, principal common.Address)
	// CanDecrypt reports whether principal may decrypt the counter.
	CanDecrypt(counterID string, principal common.Address) bool
	// Decrypt returns the plaintext of a counter for a granted principal.
	// maxValue bounds the plaintext search space. The context cancels the
	// operation.
	Decrypt(ctx context.Context, counterID string, counter types.HexBytes, maxValue uint64, principal common.Address) (uint64, error)
}

// CounterID derives the stable identifier of the encrypted counter of one
// candidate of one ballot. Grants attach to this identifier, not to the
// ciphertext value, which changes on every vote.
func CounterID(ballotID types.BallotID, candidate int) string {
	return fmt.Sprintf("%d/%d", ballotID, candidate)
}
