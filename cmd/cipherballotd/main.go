// cipherballotd runs the confidential ballot service: a key-value store, a
// homomorphic counter backend and the HTTP API, plus an optional background
// monitor that reveals ballots as soon as they end.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/vocdoni/cipherballot/ballotbox"
	"github.com/vocdoni/cipherballot/service"
)

func main() {
	app := cli.NewApp()
	app.Name = "cipherballotd"
	app.Usage = "confidential ballot service with homomorphic vote counters"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "host",
			Usage: "address to bind the API server to",
			Value: "0.0.0.0",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "port to bind the API server to",
			Value: 9090,
		},
		cli.StringFlag{
			Name:  "datadir",
			Usage: "directory where the database is stored",
			Value: filepath.Join(os.Getenv("HOME"), ".cipherballot"),
		},
		cli.StringFlag{
			Name:  "dbtype",
			Usage: "key-value database backend",
			Value: db.TypePebble,
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "encryption backend, elgamal or paillier",
			Value: "elgamal",
		},
		cli.BoolFlag{
			Name:  "strict-reveal",
			Usage: "abort a reveal on the first decryption failure instead of counting 0",
		},
		cli.BoolTFlag{
			Name:  "auto-reveal",
			Usage: "reveal ended ballots automatically in the background",
		},
		cli.DurationFlag{
			Name:  "monitor-interval",
			Usage: "sweep period of the automatic reveal monitor",
			Value: service.DefaultMonitorInterval,
		},
		cli.StringFlag{
			Name:  "loglevel",
			Usage: "log level (debug, info, warn, error)",
			Value: "info",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log.Init(c.String("loglevel"), "stdout", nil)

	policy := ballotbox.RevealBestEffort
	if c.Bool("strict-reveal") {
		policy = ballotbox.RevealStrict
	}

	svc, err := service.New(&service.Config{
		DataDir:           c.String("datadir"),
		DBType:            c.String("dbtype"),
		Host:              c.String("host"),
		Port:              c.Int("port"),
		EncryptionBackend: c.String("backend"),
		RevealPolicy:      policy,
		AutoReveal:        c.BoolT("auto-reveal"),
		MonitorInterval:   c.Duration("monitor-interval"),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	cancel()
	svc.Stop()
	time.Sleep(time.Second) // let in-flight requests drain
	return nil
}
