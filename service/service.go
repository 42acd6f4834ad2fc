// Package service wires the storage, encryption, ballot box and HTTP API
// layers into a runnable ballot service, and hosts the background reveal
// monitor.
package service

import (
	"context"
	"fmt"
	"time"

	"go.vocdoni.io/dvote/crypto/ethereum"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/api"
	"github.com/vocdoni/cipherballot/ballotbox"
	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/storage"
)

// Config holds the configuration of a BallotService.
type Config struct {
	// DataDir is the directory where the database lives. Required.
	DataDir string
	// DBType selects the key-value database backend. Defaults to pebble.
	DBType string
	// Host and Port bind the HTTP API server.
	Host string
	Port int
	// EncryptionBackend selects the homomorphic counter backend, "elgamal"
	// (default) or "paillier".
	EncryptionBackend string
	// RevealPolicy selects how a reveal reacts to a counter that fails to
	// decrypt.
	RevealPolicy ballotbox.RevealPolicy
	// AutoReveal enables the background monitor that reveals ended ballots.
	AutoReveal bool
	// MonitorInterval is the sweep period of the reveal monitor.
	MonitorInterval time.Duration
	// Signer is the service identity, the principal that decrypts the
	// counters. A fresh key is generated when nil.
	Signer *ethereum.SignKeys
}

// BallotService bundles the running components of the ballot service.
type BallotService struct {
	stg     *storage.Storage
	box     *ballotbox.BallotBox
	api     *api.API
	monitor *RevealMonitor
	signer  *ethereum.SignKeys
	conf    *Config
}

// New builds the service stack from the given configuration. The HTTP server
// and the reveal monitor are not started until Start is called.
func New(conf *Config) (*BallotService, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing service configuration")
	}
	if conf.DataDir == "" {
		return nil, fmt.Errorf("missing data directory")
	}
	if conf.DBType == "" {
		conf.DBType = db.TypePebble
	}
	signer := conf.Signer
	if signer == nil {
		signer = ethereum.NewSignKeys()
		if err := signer.Generate(); err != nil {
			return nil, fmt.Errorf("could not generate service identity: %w", err)
		}
		log.Infow("generated service identity", "address", signer.AddressString())
	}

	database, err := metadb.New(conf.DBType, conf.DataDir)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	stg := storage.New(database)

	var enc encryption.Service
	switch conf.EncryptionBackend {
	case "", "elgamal":
		enc, err = encryption.NewElGamal(signer.Address())
	case "paillier":
		enc, err = encryption.NewPaillier(signer.Address(), encryption.DefaultPaillierBits)
	default:
		err = fmt.Errorf("unknown encryption backend %q", conf.EncryptionBackend)
	}
	if err != nil {
		stg.Close()
		return nil, err
	}

	box, err := ballotbox.New(ballotbox.Config{
		Storage:    stg,
		Encryption: enc,
		Engine:     signer.Address(),
		Sink:       LogSink{},
		Policy:     conf.RevealPolicy,
	})
	if err != nil {
		stg.Close()
		return nil, err
	}

	return &BallotService{
		stg:     stg,
		box:     box,
		monitor: NewRevealMonitor(box, conf.MonitorInterval),
		signer:  signer,
		conf:    conf,
	}, nil
}

// Start launches the HTTP API server and, if enabled, the reveal monitor.
func (s *BallotService) Start(ctx context.Context) error {
	a, err := api.New(&api.APIConfig{
		Host:      s.conf.Host,
		Port:      s.conf.Port,
		BallotBox: s.box,
	})
	if err != nil {
		return fmt.Errorf("could not start API: %w", err)
	}
	s.api = a
	if s.conf.AutoReveal {
		if err := s.monitor.Start(ctx); err != nil {
			return err
		}
		log.Infow("reveal monitor started", "interval", s.monitor.interval.String())
	}
	return nil
}

// Stop halts the reveal monitor and closes the storage.
func (s *BallotService) Stop() {
	s.monitor.Stop()
	s.stg.Close()
}

// BallotBox returns the ballot engine, used by tests.
func (s *BallotService) BallotBox() *ballotbox.BallotBox {
	return s.box
}
