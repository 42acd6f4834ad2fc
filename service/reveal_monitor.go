package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/ballotbox"
)

// DefaultMonitorInterval is the sweep period used when none is configured.
const DefaultMonitorInterval = 10 * time.Second

// RevealMonitor is a background service that periodically sweeps for ballots
// whose end time has passed and triggers their reveal, so results become
// public without anyone having to call the reveal endpoint.
type RevealMonitor struct {
	box      *ballotbox.BallotBox
	interval time.Duration
	mu       sync.Mutex
	cancel   context.CancelFunc
}

// NewRevealMonitor creates a new RevealMonitor service.
func NewRevealMonitor(box *ballotbox.BallotBox, interval time.Duration) *RevealMonitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	return &RevealMonitor{
		box:      box,
		interval: interval,
	}
}

// Start begins monitoring for ended ballots. It returns an error if the
// service is already running.
func (rm *RevealMonitor) Start(ctx context.Context) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.cancel != nil {
		return fmt.Errorf("service already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	rm.cancel = cancel

	go rm.monitor(ctx)
	return nil
}

// Stop halts the monitoring service.
func (rm *RevealMonitor) Stop() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.cancel != nil {
		rm.cancel()
		rm.cancel = nil
	}
}

func (rm *RevealMonitor) monitor(ctx context.Context) {
	ticker := time.NewTicker(rm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.sweep(ctx)
		}
	}
}

// sweep reveals every ballot that has ended but still holds sealed results.
func (rm *RevealMonitor) sweep(ctx context.Context) {
	ids, err := rm.box.PendingBallots()
	if err != nil {
		log.Warnw("failed to list pending ballots", "error", err.Error())
		return
	}
	for _, id := range ids {
		if err := rm.box.Reveal(ctx, id); err != nil {
			if errors.Is(err, ballotbox.ErrAlreadyRevealed) {
				// lost the race against a manual reveal
				log.Debugw("ballot already revealed", "ballotId", id)
				continue
			}
			log.Warnw("automatic reveal failed", "ballotId", id, "error", err.Error())
			continue
		}
		log.Infow("ballot automatically revealed", "ballotId", id)
	}
}
