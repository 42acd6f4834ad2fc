package encryption

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/cipherballot/types"
)

var (
	testOwner = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testVoter = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func testBackend(t *testing.T, svc Service) {
	t.Helper()
	ctx := context.Background()
	counterID := CounterID(0, 0)

	counter, err := svc.EncryptZero()
	qt.Assert(t, err, qt.IsNil)

	// accumulate three votes of one
	for i := 0; i < 3; i++ {
		counter, err = svc.AddConstant(counter, 1)
		qt.Assert(t, err, qt.IsNil)
	}

	// owner decrypts without explicit grant
	value, err := svc.Decrypt(ctx, counterID, counter, 100, testOwner)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, value, qt.Equals, uint64(3))

	// a stranger cannot decrypt until granted
	_, err = svc.Decrypt(ctx, counterID, counter, 100, testVoter)
	qt.Assert(t, err, qt.ErrorIs, ErrPermissionDenied)
	qt.Assert(t, svc.CanDecrypt(counterID, testVoter), qt.IsFalse)

	svc.GrantDecrypt(counterID, testVoter)
	qt.Assert(t, svc.CanDecrypt(counterID, testVoter), qt.IsTrue)
	value, err = svc.Decrypt(ctx, counterID, counter, 100, testVoter)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, value, qt.Equals, uint64(3))

	// malformed handles are rejected
	_, err = svc.AddConstant(nil, 1)
	qt.Assert(t, err, qt.Not(qt.IsNil))
}

func TestElGamalService(t *testing.T) {
	svc, err := NewElGamal(testOwner)
	qt.Assert(t, err, qt.IsNil)
	testBackend(t, svc)
}

func TestPaillierService(t *testing.T) {
	if testing.Short() {
		t.Skip("paillier keygen is slow")
	}
	svc, err := NewPaillier(testOwner, 1024)
	qt.Assert(t, err, qt.IsNil)
	testBackend(t, svc)

	err = svc.VerifyBallotProof(nil, nil)
	qt.Assert(t, err, qt.ErrorIs, ErrProofUnsupported)
}

func TestElGamalBallotProof(t *testing.T) {
	svc, err := NewElGamal(testOwner)
	qt.Assert(t, err, qt.IsNil)

	entries, proof, err := EncryptOneHotBallot(svc.PublicKey(), 3, 1)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, svc.VerifyBallotProof(entries, proof), qt.IsNil)

	// adding the entries into fresh counters credits only the chosen one
	ctx := context.Background()
	for i, entry := range entries {
		counter, err := svc.EncryptZero()
		qt.Assert(t, err, qt.IsNil)
		counter, err = svc.AddCiphertext(counter, entry)
		qt.Assert(t, err, qt.IsNil)
		value, err := svc.Decrypt(ctx, CounterID(0, i), counter, 10, testOwner)
		qt.Assert(t, err, qt.IsNil)
		if i == 1 {
			qt.Assert(t, value, qt.Equals, uint64(1))
		} else {
			qt.Assert(t, value, qt.Equals, uint64(0))
		}
	}

	// tampered randomness fails
	bad := &BallotProof{Randomness: append([]*types.BigInt{}, proof.Randomness...)}
	bad.Randomness[0], bad.Randomness[1] = bad.Randomness[1], bad.Randomness[0]
	qt.Assert(t, svc.VerifyBallotProof(entries, bad), qt.ErrorIs, ErrProofInvalid)

	// wrong arity fails
	qt.Assert(t, svc.VerifyBallotProof(entries[:2], proof), qt.ErrorIs, ErrProofInvalid)

	// a two-hot ballot fails even with valid randomness
	twoHotA, proofA, err := EncryptOneHotBallot(svc.PublicKey(), 2, 0)
	qt.Assert(t, err, qt.IsNil)
	twoHotB, proofB, err := EncryptOneHotBallot(svc.PublicKey(), 2, 1)
	qt.Assert(t, err, qt.IsNil)
	entries2 := []types.HexBytes{twoHotA[0], twoHotB[1]}
	proof2 := &BallotProof{Randomness: []*types.BigInt{proofA.Randomness[0], proofB.Randomness[1]}}
	qt.Assert(t, svc.VerifyBallotProof(entries2, proof2), qt.ErrorIs, ErrProofInvalid)
}
