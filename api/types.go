package api

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/crypto/ethereum"

	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/types"
)

// NewBallot is the request to create a ballot. The signature covers
// CreateBallotMessage(nonce, title) and identifies the creator.
type NewBallot struct {
	Title      string         `json:"title"`
	Candidates []string       `json:"candidates"`
	Duration   int64          `json:"duration"` // seconds
	Nonce      uint64         `json:"nonce"`
	Signature  types.HexBytes `json:"signature"`
}

// NewBallotResponse is the response to a ballot creation request.
type NewBallotResponse struct {
	BallotID types.BallotID `json:"ballotId"`
	EndTime  time.Time      `json:"endTime"`
}

// BallotInfo is the public view of a ballot. IsActive is recomputed from the
// wall clock on every read.
type BallotInfo struct {
	BallotID        types.BallotID `json:"ballotId"`
	Title           string         `json:"title"`
	Candidates      []string       `json:"candidates"`
	Creator         common.Address `json:"creator"`
	EndTime         time.Time      `json:"endTime"`
	IsActive        bool           `json:"isActive"`
	ResultsRevealed bool           `json:"resultsRevealed"`
	TotalVotes      uint32         `json:"totalVotes"`
}

// BallotList is the response to a ballot listing request.
type BallotList struct {
	Ballots []types.BallotID `json:"ballots"`
}

// Vote is the request to cast a vote. Exactly one of CandidateIndex or the
// Entries/Proof pair must be set: the former is a plaintext-index vote, the
// latter a confidential one-hot ballot. The signature identifies the voter.
type Vote struct {
	CandidateIndex *int                    `json:"candidateIndex,omitempty"`
	Entries        []types.HexBytes        `json:"entries,omitempty"`
	Proof          *encryption.BallotProof `json:"proof,omitempty"`
	Signature      types.HexBytes          `json:"signature"`
}

// Results is the response carrying the revealed plaintext counts.
type Results struct {
	Candidates []string `json:"candidates"`
	Results    []uint32 `json:"results"`
	TotalVotes uint32   `json:"totalVotes"`
}

// Counter is the response carrying one opaque encrypted counter handle.
type Counter struct {
	Counter types.HexBytes `json:"counter"`
}

// VoterStatus is the response to a has-voted query.
type VoterStatus struct {
	HasVoted bool `json:"hasVoted"`
}

// EncryptionKey is the response carrying the ElGamal public key coordinates,
// which clients need to build confidential ballots.
type EncryptionKey struct {
	Backend string        `json:"backend"`
	X       *types.BigInt `json:"x,omitempty"`
	Y       *types.BigInt `json:"y,omitempty"`
}

// CreateBallotMessage is the message a creator signs to authenticate a
// ballot creation request.
func CreateBallotMessage(nonce uint64, title string) []byte {
	return []byte(fmt.Sprintf("cipherballot/create/%d/%s", nonce, title))
}

// VoteMessage is the message a voter signs for a plaintext-index vote.
func VoteMessage(ballotID types.BallotID, candidateIndex int) []byte {
	return []byte(fmt.Sprintf("cipherballot/vote/%d/%d", ballotID, candidateIndex))
}

// EncryptedVoteMessage is the message a voter signs for a confidential vote.
// It commits to the ciphertext entries so the ballot cannot be swapped after
// signing.
func EncryptedVoteMessage(ballotID types.BallotID, entries []types.HexBytes) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.Write(e)
	}
	return []byte(fmt.Sprintf("cipherballot/vote/%d/%x", ballotID, ethereum.HashRaw(buf.Bytes())))
}
