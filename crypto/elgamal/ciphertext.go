package elgamal

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/vocdoni/cipherballot/types"
)

// Sizes in bytes of a serialized ciphertext (two compressed curve points).
const (
	sizePoint      = 32
	SizeCiphertext = 2 * sizePoint
)

// Ciphertext is an ElGamal ciphertext (C1, C2). The zero value is not usable;
// use NewCiphertext or Deserialize.
type Ciphertext struct {
	C1 *babyjub.Point
	C2 *babyjub.Point
}

// NewCiphertext returns a ciphertext holding the identity on both components,
// which is a valid encryption of zero with randomness zero.
func NewCiphertext() *Ciphertext {
	return &Ciphertext{C1: identity(), C2: identity()}
}

// Encrypt sets z to an encryption of message under publicKey. If k is nil a
// fresh randomness is generated. It returns z and the randomness used.
func (z *Ciphertext) Encrypt(message *big.Int, publicKey *babyjub.Point, k *big.Int) (*Ciphertext, *big.Int, error) {
	var err error
	if k == nil {
		if k, err = RandK(); err != nil {
			return nil, nil, err
		}
	}
	c1, c2, err := EncryptWithK(publicKey, message, k)
	if err != nil {
		return nil, nil, err
	}
	z.C1, z.C2 = c1, c2
	return z, k, nil
}

// Add sets z to the homomorphic sum of x and y and returns z. The plaintext
// of z is the sum of the plaintexts of x and y.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.C1 = add(x.C1, y.C1)
	z.C2 = add(x.C2, y.C2)
	return z
}

// Serialize returns the compressed form of both points, 64 bytes.
func (z *Ciphertext) Serialize() []byte {
	buf := make([]byte, 0, SizeCiphertext)
	c1 := z.C1.Compress()
	c2 := z.C2.Compress()
	buf = append(buf, c1[:]...)
	buf = append(buf, c2[:]...)
	return buf
}

// Deserialize reconstructs a ciphertext from its 64 byte compressed form.
func (z *Ciphertext) Deserialize(data []byte) error {
	if len(data) != SizeCiphertext {
		return fmt.Errorf("invalid ciphertext length: got %d bytes, expected %d", len(data), SizeCiphertext)
	}
	var b32 [32]byte
	copy(b32[:], data[:sizePoint])
	c1, err := babyjub.NewPoint().Decompress(b32)
	if err != nil {
		return fmt.Errorf("invalid C1 point: %w", err)
	}
	copy(b32[:], data[sizePoint:])
	c2, err := babyjub.NewPoint().Decompress(b32)
	if err != nil {
		return fmt.Errorf("invalid C2 point: %w", err)
	}
	z.C1, z.C2 = c1, c2
	return nil
}

// MarshalJSON encodes the ciphertext as two coordinate pairs.
func (z *Ciphertext) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][2]*types.BigInt{
		{(*types.BigInt)(z.C1.X), (*types.BigInt)(z.C1.Y)},
		{(*types.BigInt)(z.C2.X), (*types.BigInt)(z.C2.Y)},
	})
}

// UnmarshalJSON decodes the ciphertext from two coordinate pairs.
func (z *Ciphertext) UnmarshalJSON(data []byte) error {
	var coords [2][2]*types.BigInt
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	for _, pair := range coords {
		if pair[0] == nil || pair[1] == nil {
			return fmt.Errorf("missing ciphertext coordinates")
		}
	}
	z.C1 = &babyjub.Point{X: coords[0][0].MathBigInt(), Y: coords[0][1].MathBigInt()}
	z.C2 = &babyjub.Point{X: coords[1][0].MathBigInt(), Y: coords[1][1].MathBigInt()}
	return nil
}

// String returns a short human readable representation.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{C1: nil, C2: nil}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", pointKey(z.C1), pointKey(z.C2))
}
