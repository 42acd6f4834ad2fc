// Package elgamal implements additively homomorphic EC-ElGamal over the
// Baby Jubjub curve. Messages are encoded in the exponent (M = m*G), so the
// sum of two ciphertexts decrypts to the sum of the plaintexts. Decryption
// recovers the exponent with baby-step giant-step, which is practical because
// vote counters are bounded by the number of voters.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/vocdoni/arbo"
)

// RandK generates a random scalar suitable as encryption randomness.
func RandK() (*big.Int, error) {
	kBytes := make([]byte, 20)
	if _, err := rand.Read(kBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random k: %w", err)
	}
	k := new(big.Int).SetBytes(kBytes)
	return arbo.BigToFF(arbo.BN254BaseField, k), nil
}

// GenerateKey generates a new public/private ElGamal key pair.
func GenerateKey() (publicKey *babyjub.Point, privateKey *big.Int, err error) {
	order := babyjub.SubOrder
	d, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key scalar: %w", err)
	}
	if d.Sign() == 0 {
		d = big.NewInt(1) // avoid zero private keys
	}
	publicKey = babyjub.NewPoint().Mul(d, babyjub.B8)
	return publicKey, d, nil
}

// EncryptWithK encrypts msg under publicKey using the provided randomness k.
// It returns the ciphertext points (C1, C2) = (k*G, m*G + k*publicKey).
func EncryptWithK(publicKey *babyjub.Point, msg, k *big.Int) (*babyjub.Point, *babyjub.Point, error) {
	if publicKey == nil {
		return nil, nil, fmt.Errorf("nil public key")
	}
	m := new(big.Int).Mod(msg, babyjub.SubOrder)
	c1 := babyjub.NewPoint().Mul(k, babyjub.B8)
	s := babyjub.NewPoint().Mul(k, publicKey)
	c2 := add(babyjub.NewPoint().Mul(m, babyjub.B8), s)
	return c1, c2, nil
}

// Encrypt encrypts msg under publicKey with fresh randomness, returning the
// ciphertext points and the randomness used.
func Encrypt(publicKey *babyjub.Point, msg *big.Int) (*babyjub.Point, *babyjub.Point, *big.Int, error) {
	k, err := RandK()
	if err != nil {
		return nil, nil, nil, err
	}
	c1, c2, err := EncryptWithK(publicKey, msg, k)
	if err != nil {
		return nil, nil, nil, err
	}
	return c1, c2, k, nil
}

// Decrypt recovers the plaintext scalar from (c1, c2) using the private key.
// maxMessage bounds the discrete log search; it must be at least the real
// plaintext or an error is returned.
func Decrypt(privateKey *big.Int, c1, c2 *babyjub.Point, maxMessage uint64) (*big.Int, error) {
	// M = c2 - d*c1
	dC1 := neg(babyjub.NewPoint().Mul(privateKey, c1))
	M := add(c2, dC1)
	msg, err := babyStepGiantStep(M, maxMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to find discrete log: %w", err)
	}
	return msg, nil
}

// CheckK reports whether the randomness k produced the ciphertext component
// c1, i.e. whether c1 == k*G. It proves knowledge of the encryption
// randomness without decrypting anything.
func CheckK(c1 *babyjub.Point, k *big.Int) bool {
	return equal(babyjub.NewPoint().Mul(k, babyjub.B8), c1)
}

// MessagePoint computes M = c2 - k*publicKey, the plaintext encoded as a
// curve point, for a verifier that knows the encryption randomness k.
func MessagePoint(publicKey *babyjub.Point, c2 *babyjub.Point, k *big.Int) *babyjub.Point {
	s := neg(babyjub.NewPoint().Mul(k, publicKey))
	return add(c2, s)
}

// babyStepGiantStep solves M = x*G for x in [0, maxMessage].
func babyStepGiantStep(M *babyjub.Point, maxMessage uint64) (*big.Int, error) {
	mSqrt := uint64(math.Sqrt(float64(maxMessage))) + 1

	babySteps := make(map[string]uint64, mSqrt)
	babyStep := identity()
	for j := uint64(0); j < mSqrt; j++ {
		babySteps[pointKey(babyStep)] = j
		babyStep = add(babyStep, babyjub.B8)
	}

	// c = -mSqrt*G
	c := neg(babyjub.NewPoint().Mul(new(big.Int).SetUint64(mSqrt), babyjub.B8))

	giantStep := clone(M)
	for i := uint64(0); i <= mSqrt; i++ {
		if j, found := babySteps[pointKey(giantStep)]; found {
			return new(big.Int).SetUint64(i*mSqrt + j), nil
		}
		giantStep = add(giantStep, c)
	}
	return nil, fmt.Errorf("no discrete log found below %d", maxMessage)
}

func pointKey(p *babyjub.Point) string {
	return p.X.String() + "," + p.Y.String()
}
