package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"

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

func newMonitorTestBox(t *testing.T) (*ballotbox.BallotBox, *testClock) {
	t.Helper()
	c := qt.New(t)
	engine := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	enc, err := encryption.NewElGamal(engine)
	c.Assert(err, qt.IsNil)
	clock := &testClock{now: time.Now()}
	box, err := ballotbox.New(ballotbox.Config{
		Storage:    storage.New(metadb.NewTest(t)),
		Encryption: enc,
		Engine:     engine,
		Now:        clock.Now,
	})
	c.Assert(err, qt.IsNil)
	return box, clock
}

func TestRevealMonitor(t *testing.T) {
	c := qt.New(t)
	box, clock := newMonitorTestBox(t)

	creator := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	voter := common.HexToAddress("0x00000000000000000000000000000000000000b2")

	id, err := box.CreateBallot(creator, "Auto", []string{"yes", "no"}, time.Hour)
	c.Assert(err, qt.IsNil)
	c.Assert(box.Vote(id, 0, voter), qt.IsNil)

	rm := NewRevealMonitor(box, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Assert(rm.Start(ctx), qt.IsNil)
	defer rm.Stop()

	// double start must fail
	c.Assert(rm.Start(ctx), qt.ErrorMatches, "service already running")

	// the ballot is still active, the monitor must leave it alone
	time.Sleep(50 * time.Millisecond)
	_, err = box.Results(id)
	c.Assert(err, qt.ErrorIs, ballotbox.ErrNotRevealed)

	clock.Advance(2 * time.Hour)

	deadline := time.Now().Add(5 * time.Second)
	var results []uint32
	for time.Now().Before(deadline) {
		if results, err = box.Results(id); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	c.Assert(err, qt.IsNil)
	c.Assert(results, qt.DeepEquals, []uint32{1, 0})
}

func TestRevealMonitorStop(t *testing.T) {
	c := qt.New(t)
	box, clock := newMonitorTestBox(t)

	creator := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	id, err := box.CreateBallot(creator, "Stopped", []string{"yes", "no"}, time.Hour)
	c.Assert(err, qt.IsNil)

	rm := NewRevealMonitor(box, 10*time.Millisecond)
	c.Assert(rm.Start(context.Background()), qt.IsNil)
	rm.Stop()

	// once stopped the monitor must not reveal anything
	clock.Advance(2 * time.Hour)
	time.Sleep(50 * time.Millisecond)
	_, err = box.Results(id)
	c.Assert(err, qt.ErrorIs, ballotbox.ErrNotRevealed)

	// a stopped monitor can be started again
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Assert(rm.Start(ctx), qt.IsNil)
	rm.Stop()
}
