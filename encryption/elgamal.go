package encryption

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/vocdoni/cipherballot/crypto/elgamal"
	"github.com/vocdoni/cipherballot/types"
)

// ElGamalService implements Service with additively homomorphic EC-ElGamal
// over Baby Jubjub. Counter handles are 64 byte serialized ciphertexts.
type ElGamalService struct {
	acl        *ACL
	publicKey  *babyjub.Point
	privateKey *big.Int
}

// NewElGamal creates an ElGamal backend with a fresh key pair. The owner
// principal holds decrypt permission on every counter.
func NewElGamal(owner common.Address) (*ElGamalService, error) {
	publicKey, privateKey, err := elgamal.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate elgamal key: %w", err)
	}
	return &ElGamalService{
		acl:        NewACL(owner),
		publicKey:  publicKey,
		privateKey: privateKey,
	}, nil
}

func (s *ElGamalService) Name() string { return "elgamal" }

// PublicKey returns the encryption public key, needed by clients to build
// confidential ballots.
func (s *ElGamalService) PublicKey() *babyjub.Point { return s.publicKey }

func (s *ElGamalService) EncryptZero() (types.HexBytes, error) {
	z := elgamal.NewCiphertext()
	if _, _, err := z.Encrypt(big.NewInt(0), s.publicKey, nil); err != nil {
		return nil, err
	}
	return z.Serialize(), nil
}

func (s *ElGamalService) AddConstant(counter types.HexBytes, delta uint64) (types.HexBytes, error) {
	acc, err := s.deserialize(counter)
	if err != nil {
		return nil, err
	}
	d := elgamal.NewCiphertext()
	if _, _, err := d.Encrypt(new(big.Int).SetUint64(delta), s.publicKey, nil); err != nil {
		return nil, err
	}
	return acc.Add(acc, d).Serialize(), nil
}

func (s *ElGamalService) AddCiphertext(counter, other types.HexBytes) (types.HexBytes, error) {
	acc, err := s.deserialize(counter)
	if err != nil {
		return nil, err
	}
	o, err := s.deserialize(other)
	if err != nil {
		return nil, err
	}
	return acc.Add(acc, o).Serialize(), nil
}

// VerifyBallotProof checks a one-hot encrypted ballot. The proof carries the
// encryption randomness of every entry, so the service can recover each
// plaintext point M = C2 - k*publicKey and check that every entry encrypts
// 0 or 1 and that exactly one encrypts 1.
func (s *ElGamalService) VerifyBallotProof(entries []types.HexBytes, proof *BallotProof) error {
	if proof == nil || len(proof.Randomness) != len(entries) {
		return fmt.Errorf("%w: expected %d randomness scalars", ErrProofInvalid, len(entries))
	}
	ones := 0
	for i, entry := range entries {
		z, err := s.deserialize(entry)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrProofInvalid, i, err)
		}
		k := proof.Randomness[i]
		if k == nil {
			return fmt.Errorf("%w: entry %d: missing randomness", ErrProofInvalid, i)
		}
		if !elgamal.CheckK(z.C1, k.MathBigInt()) {
			return fmt.Errorf("%w: entry %d: randomness does not match C1", ErrProofInvalid, i)
		}
		M := elgamal.MessagePoint(s.publicKey, z.C2, k.MathBigInt())
		switch {
		case M.X.Sign() == 0 && M.Y.Cmp(big.NewInt(1)) == 0:
			// encrypts 0
		case M.X.Cmp(babyjub.B8.X) == 0 && M.Y.Cmp(babyjub.B8.Y) == 0:
			// encrypts 1
			ones++
		default:
			return fmt.Errorf("%w: entry %d is neither 0 nor 1", ErrProofInvalid, i)
		}
	}
	if ones != 1 {
		return fmt.Errorf("%w: ballot must select exactly one candidate, got %d", ErrProofInvalid, ones)
	}
	return nil
}

func (s *ElGamalService) GrantDecrypt(counterID string, principal common.Address) {
	s.acl.Grant(counterID, principal)
}

func (s *ElGamalService) CanDecrypt(counterID string, principal common.Address) bool {
	return s.acl.Allowed(counterID, principal)
}

// Decrypt recovers the counter plaintext with baby-step giant-step bounded by
// maxValue. The discrete log search runs in a separate goroutine so the
// caller's context can cancel it.
func (s *ElGamalService) Decrypt(ctx context.Context, counterID string, counter types.HexBytes, maxValue uint64, principal common.Address) (uint64, error) {
	if !s.acl.Allowed(counterID, principal) {
		return 0, fmt.Errorf("%w: %s on counter %s", ErrPermissionDenied, principal.Hex(), counterID)
	}
	z, err := s.deserialize(counter)
	if err != nil {
		return 0, err
	}

	type result struct {
		value *big.Int
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := elgamal.Decrypt(s.privateKey, z.C1, z.C2, maxValue)
		ch <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return 0, res.err
		}
		return res.value.Uint64(), nil
	}
}

func (s *ElGamalService) deserialize(counter types.HexBytes) (*elgamal.Ciphertext, error) {
	z := elgamal.NewCiphertext()
	if err := z.Deserialize(counter); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCounter, err)
	}
	return z, nil
}
