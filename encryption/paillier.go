package encryption

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	paillier "github.com/roasbeef/go-go-gadget-paillier"

	"github.com/vocdoni/cipherballot/types"
)

// DefaultPaillierBits is the modulus size used for fresh Paillier keys.
const DefaultPaillierBits = 2048

// PaillierService implements Service with the Paillier cryptosystem. Counter
// handles are raw Paillier ciphertexts. The backend cannot verify one-hot
// ballot proofs (the library does not expose encryption with caller-chosen
// randomness), so confidential ballots require the ElGamal backend.
type PaillierService struct {
	acl        *ACL
	privateKey *paillier.PrivateKey
}

// NewPaillier creates a Paillier backend with a fresh key of the given
// modulus size in bits.
func NewPaillier(owner common.Address, bits int) (*PaillierService, error) {
	if bits <= 0 {
		bits = DefaultPaillierBits
	}
	privateKey, err := paillier.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("could not generate paillier key: %w", err)
	}
	return &PaillierService{
		acl:        NewACL(owner),
		privateKey: privateKey,
	}, nil
}

func (s *PaillierService) Name() string { return "paillier" }

func (s *PaillierService) EncryptZero() (types.HexBytes, error) {
	c, err := paillier.Encrypt(&s.privateKey.PublicKey, big.NewInt(0).Bytes())
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PaillierService) AddConstant(counter types.HexBytes, delta uint64) (types.HexBytes, error) {
	if len(counter) == 0 {
		return nil, ErrMalformedCounter
	}
	return paillier.Add(&s.privateKey.PublicKey, counter, new(big.Int).SetUint64(delta).Bytes()), nil
}

func (s *PaillierService) AddCiphertext(counter, other types.HexBytes) (types.HexBytes, error) {
	if len(counter) == 0 || len(other) == 0 {
		return nil, ErrMalformedCounter
	}
	return paillier.AddCipher(&s.privateKey.PublicKey, counter, other), nil
}

func (s *PaillierService) VerifyBallotProof([]types.HexBytes, *BallotProof) error {
	return ErrProofUnsupported
}

func (s *PaillierService) GrantDecrypt(counterID string, principal common.Address) {
	s.acl.Grant(counterID, principal)
}

func (s *PaillierService) CanDecrypt(counterID string, principal common.Address) bool {
	return s.acl.Allowed(counterID, principal)
}

func (s *PaillierService) Decrypt(ctx context.Context, counterID string, counter types.HexBytes, maxValue uint64, principal common.Address) (uint64, error) {
	if !s.acl.Allowed(counterID, principal) {
		return 0, fmt.Errorf("%w: %s on counter %s", ErrPermissionDenied, principal.Hex(), counterID)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	plain, err := paillier.Decrypt(s.privateKey, counter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedCounter, err)
	}
	value := new(big.Int).SetBytes(plain)
	if !value.IsUint64() || value.Uint64() > maxValue {
		return 0, fmt.Errorf("decrypted value %s above maximum %d", value, maxValue)
	}
	return value.Uint64(), nil
}
