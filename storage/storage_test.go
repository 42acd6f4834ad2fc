package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/cipherballot/types"
)

func testBallot(title string) *types.Ballot {
	return &types.Ballot{
		Title:      title,
		Candidates: []string{"Alice", "Bob"},
		Creator:    common.HexToAddress("0x01"),
		EndTime:    time.Now().Add(time.Hour).UTC(),
		IsActive:   true,
		Counters:   []types.HexBytes{{0x01}, {0x02}},
	}
}

func TestCreateAndGetBallot(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	id, err := stg.CreateBallot(testBallot("First"))
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(0))

	id, err = stg.CreateBallot(testBallot("Second"))
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(1))

	b, err := stg.Ballot(0)
	c.Assert(err, qt.IsNil)
	c.Assert(b.Title, qt.Equals, "First")
	c.Assert(b.Candidates, qt.DeepEquals, []string{"Alice", "Bob"})
	c.Assert(stg.HasBallot(1), qt.IsTrue)
	c.Assert(stg.HasBallot(2), qt.IsFalse)

	_, err = stg.Ballot(42)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	ballots, err := stg.ListBallots()
	c.Assert(err, qt.IsNil)
	c.Assert(len(ballots), qt.Equals, 2)
	c.Assert(ballots[0].ID, qt.Equals, uint64(0))
	c.Assert(ballots[1].ID, qt.Equals, uint64(1))
}

func TestCastVote(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	id, err := stg.CreateBallot(testBallot("Vote test"))
	c.Assert(err, qt.IsNil)

	voter := common.HexToAddress("0x02")
	voted, err := stg.HasVoted(id, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsFalse)

	b, err := stg.CastVote(id, voter, func(b *types.Ballot) error {
		b.TotalVotes++
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(b.TotalVotes, qt.Equals, uint32(1))

	voted, err = stg.HasVoted(id, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsTrue)

	// duplicate vote is rejected and does not run the update
	_, err = stg.CastVote(id, voter, func(b *types.Ballot) error {
		t.Fatal("update must not run for a duplicate vote")
		return nil
	})
	c.Assert(err, qt.ErrorIs, ErrVoteExists)

	// a failing update leaves no participation mark
	other := common.HexToAddress("0x03")
	_, err = stg.CastVote(id, other, func(b *types.Ballot) error {
		return fmt.Errorf("boom")
	})
	c.Assert(err, qt.Not(qt.IsNil))
	voted, err = stg.HasVoted(id, other)
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsFalse)

	// unknown ballot
	_, err = stg.CastVote(99, voter, func(*types.Ballot) error { return nil })
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}

func TestCommitResults(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	id, err := stg.CreateBallot(testBallot("Results"))
	c.Assert(err, qt.IsNil)

	_, err = stg.CommitResults(id, []uint32{1})
	c.Assert(err, qt.Not(qt.IsNil)) // wrong arity

	b, err := stg.CommitResults(id, []uint32{1, 0})
	c.Assert(err, qt.IsNil)
	c.Assert(b.ResultsRevealed, qt.IsTrue)
	c.Assert(b.Results, qt.DeepEquals, []uint32{1, 0})

	// second commit loses the race
	_, err = stg.CommitResults(id, []uint32{5, 5})
	c.Assert(err, qt.ErrorIs, ErrAlreadyRevealed)

	b, err = stg.Ballot(id)
	c.Assert(err, qt.IsNil)
	c.Assert(b.Results, qt.DeepEquals, []uint32{1, 0})
}
