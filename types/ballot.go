package types

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// MinCandidates is the minimum number of candidates a ballot can have.
	MinCandidates = 2
	// MaxCandidates is the maximum number of candidates a ballot can have.
	MaxCandidates = 10
)

// BallotID identifies a ballot. IDs are dense, monotonically increasing and
// never reused.
type BallotID = uint64

// Ballot is the persistent record of one election instance. Per-candidate
// encrypted counters are stored as opaque ciphertext handles owned by the
// encryption backend. Results is nil until the ballot has been revealed.
type Ballot struct {
	ID              BallotID       `json:"id"              cbor:"0,keyasint"`
	Title           string         `json:"title"           cbor:"1,keyasint"`
	Candidates      []string       `json:"candidates"      cbor:"2,keyasint"`
	Creator         common.Address `json:"creator"         cbor:"3,keyasint"`
	EndTime         time.Time      `json:"endTime"         cbor:"4,keyasint"`
	IsActive        bool           `json:"isActive"        cbor:"5,keyasint"`
	ResultsRevealed bool           `json:"resultsRevealed" cbor:"6,keyasint"`
	TotalVotes      uint32         `json:"totalVotes"      cbor:"7,keyasint"`
	Counters        []HexBytes     `json:"counters"        cbor:"8,keyasint"`
	Results         []uint32       `json:"results,omitempty" cbor:"9,keyasint,omitempty"`
}

func (b *Ballot) String() string {
	data, err := json.Marshal(b)
	if err != nil {
		return ""
	}
	return string(data)
}

// Phase is the lifecycle phase of a ballot, derived from the wall clock and
// the two stored flags. There is no way back from a later phase to an
// earlier one.
type Phase uint8

const (
	// PhaseActive means the ballot accepts votes: isActive and now < endTime.
	PhaseActive Phase = iota
	// PhaseEnded means the voting window is over but results are still
	// encrypted: now >= endTime and not yet revealed.
	PhaseEnded
	// PhaseRevealed means the plaintext results have been committed.
	PhaseRevealed
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	case PhaseRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// PhaseOf derives the phase of a ballot at the given time.
func PhaseOf(b *Ballot, now time.Time) Phase {
	switch {
	case b.ResultsRevealed:
		return PhaseRevealed
	case b.IsActive && now.Before(b.EndTime):
		return PhaseActive
	default:
		return PhaseEnded
	}
}
