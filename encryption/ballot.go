package encryption

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/vocdoni/cipherballot/crypto/elgamal"
	"github.com/vocdoni/cipherballot/types"
)

// EncryptOneHotBallot builds a confidential ballot for the ElGamal backend:
// one ciphertext per candidate, encrypting 1 at the chosen index and 0
// elsewhere, plus the proof carrying the randomness of every entry. This is
// what a voting client runs locally before submitting an encrypted vote.
func EncryptOneHotBallot(publicKey *babyjub.Point, numCandidates, choice int) ([]types.HexBytes, *BallotProof, error) {
	if choice < 0 || choice >= numCandidates {
		return nil, nil, fmt.Errorf("choice %d out of range for %d candidates", choice, numCandidates)
	}
	entries := make([]types.HexBytes, numCandidates)
	proof := &BallotProof{Randomness: make([]*types.BigInt, numCandidates)}
	for i := 0; i < numCandidates; i++ {
		msg := big.NewInt(0)
		if i == choice {
			msg = big.NewInt(1)
		}
		z := elgamal.NewCiphertext()
		_, k, err := z.Encrypt(msg, publicKey, nil)
		if err != nil {
			return nil, nil, err
		}
		entries[i] = z.Serialize()
		proof.Randomness[i] = (*types.BigInt)(k)
	}
	return entries, proof, nil
}
