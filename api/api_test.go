package api_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/iden3/go-iden3-crypto/babyjub"
	"go.vocdoni.io/dvote/crypto/ethereum"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/api"
	"github.com/vocdoni/cipherballot/api/client"
	"github.com/vocdoni/cipherballot/ballotbox"
	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/storage"
)

func TestMain(m *testing.M) {
	log.Init("error", "stderr", nil)
	m.Run()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSigner(c *qt.C) *ethereum.SignKeys {
	signer := ethereum.NewSignKeys()
	c.Assert(signer.Generate(), qt.IsNil)
	return signer
}

// newTestAPI spins up the whole stack behind an httptest server and returns
// a connected client plus the clock driving ballot phases.
func newTestAPI(t *testing.T) (*client.HTTPclient, *testClock) {
	t.Helper()
	c := qt.New(t)

	engine := newTestSigner(c)
	enc, err := encryption.NewElGamal(engine.Address())
	c.Assert(err, qt.IsNil)
	clock := &testClock{now: time.Now()}
	box, err := ballotbox.New(ballotbox.Config{
		Storage:    storage.New(metadb.NewTest(t)),
		Encryption: enc,
		Engine:     engine.Address(),
		Now:        clock.Now,
	})
	c.Assert(err, qt.IsNil)

	a, err := api.New(&api.APIConfig{Host: "127.0.0.1", Port: 0, BallotBox: box})
	c.Assert(err, qt.IsNil)
	server := httptest.NewServer(a.Router())
	t.Cleanup(server.Close)

	cli, err := client.New(server.URL)
	c.Assert(err, qt.IsNil)
	return cli, clock
}

// babyjubPoint rebuilds the curve point served by the key endpoint.
func babyjubPoint(key *api.EncryptionKey) *babyjub.Point {
	p := babyjub.NewPoint()
	p.X = key.X.MathBigInt()
	p.Y = key.Y.MathBigInt()
	return p
}

func TestAPIElectionFlow(t *testing.T) {
	c := qt.New(t)
	cli, clock := newTestAPI(t)

	alice := newTestSigner(c)
	bob := newTestSigner(c)

	id, err := cli.CreateBallot(alice, "Election", []string{"Alice", "Bob", "Charlie"}, time.Hour, 1)
	c.Assert(err, qt.IsNil)

	info, err := cli.BallotInfo(id)
	c.Assert(err, qt.IsNil)
	c.Assert(info.Title, qt.Equals, "Election")
	c.Assert(info.Candidates, qt.HasLen, 3)
	c.Assert(info.Creator.Hex(), qt.Equals, alice.Address().Hex())
	c.Assert(info.IsActive, qt.IsTrue)
	c.Assert(info.TotalVotes, qt.Equals, uint32(0))

	active, err := cli.ListBallots("active")
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.DeepEquals, []uint64{id})

	// results are sealed while the ballot runs
	_, err = cli.Results(id)
	c.Assert(err, qt.ErrorMatches, ".*results not yet revealed.*")
	err = cli.Reveal(id)
	c.Assert(err, qt.ErrorMatches, ".*ballot is still active.*")

	c.Assert(cli.Vote(bob, id, 1), qt.IsNil)
	err = cli.Vote(bob, id, 2)
	c.Assert(err, qt.ErrorMatches, ".*already voted.*")

	voted, err := cli.HasVoted(id, bob.Address().Hex())
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsTrue)
	voted, err = cli.HasVoted(id, alice.Address().Hex())
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsFalse)

	clock.Advance(2 * time.Hour)

	err = cli.Vote(alice, id, 0)
	c.Assert(err, qt.ErrorMatches, ".*not active.*")

	c.Assert(cli.Reveal(id), qt.IsNil)
	err = cli.Reveal(id)
	c.Assert(err, qt.ErrorMatches, ".*already revealed.*")

	results, err := cli.Results(id)
	c.Assert(err, qt.IsNil)
	c.Assert(results.Results, qt.DeepEquals, []uint32{0, 1, 0})
	c.Assert(results.TotalVotes, qt.Equals, uint32(1))

	ended, err := cli.ListBallots("ended")
	c.Assert(err, qt.IsNil)
	c.Assert(ended, qt.DeepEquals, []uint64{id})
}

func TestAPIEncryptedVote(t *testing.T) {
	c := qt.New(t)
	cli, clock := newTestAPI(t)

	creator := newTestSigner(c)
	id, err := cli.CreateBallot(creator, "Confidential", []string{"yes", "no"}, time.Hour, 7)
	c.Assert(err, qt.IsNil)

	key, err := cli.EncryptionKey()
	c.Assert(err, qt.IsNil)
	c.Assert(key.Backend, qt.Equals, "elgamal")
	c.Assert(key.X, qt.IsNotNil)
	pub := babyjubPoint(key)

	for i, choice := range []int{0, 1, 0} {
		voter := newTestSigner(c)
		entries, proof, err := encryption.EncryptOneHotBallot(pub, 2, choice)
		c.Assert(err, qt.IsNil)
		c.Assert(cli.VoteEncrypted(voter, id, entries, proof), qt.IsNil, qt.Commentf("vote %d", i))
	}

	// tampering with the proof must be rejected
	voter := newTestSigner(c)
	entries, proof, err := encryption.EncryptOneHotBallot(pub, 2, 0)
	c.Assert(err, qt.IsNil)
	proof.Randomness[0], proof.Randomness[1] = proof.Randomness[1], proof.Randomness[0]
	err = cli.VoteEncrypted(voter, id, entries, proof)
	c.Assert(err, qt.ErrorMatches, ".*invalid ballot proof.*")

	clock.Advance(2 * time.Hour)
	c.Assert(cli.Reveal(id), qt.IsNil)

	results, err := cli.Results(id)
	c.Assert(err, qt.IsNil)
	c.Assert(results.Results, qt.DeepEquals, []uint32{2, 1})
	c.Assert(results.TotalVotes, qt.Equals, uint32(3))
}

func TestAPIMalformedRequests(t *testing.T) {
	c := qt.New(t)
	cli, _ := newTestAPI(t)

	_, status, err := cli.Request(client.HTTPGET, nil, nil, "ballots", "notanumber")
	c.Assert(err, qt.IsNil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	_, err = cli.BallotInfo(42)
	c.Assert(err, qt.ErrorMatches, ".*ballot not found.*")

	_, status, err = cli.Request(client.HTTPGET, nil, nil, "ballots", "0", "voters", "nothex")
	c.Assert(err, qt.IsNil)
	c.Assert(status, qt.Equals, http.StatusBadRequest)

	signer := newTestSigner(c)
	_, err = cli.CreateBallot(signer, "Few", []string{"solo"}, time.Hour, 1)
	c.Assert(err, qt.ErrorMatches, ".*invalid number of candidates.*")
	_, err = cli.CreateBallot(signer, "Short", []string{"a", "b"}, 0, 2)
	c.Assert(err, qt.ErrorMatches, ".*invalid ballot duration.*")
}
