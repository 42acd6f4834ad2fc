package service

import (
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/ballotbox"
)

// LogSink is an EventSink that writes every ballot lifecycle event to the
// structured log.
type LogSink struct{}

func (LogSink) OnBallotCreated(e ballotbox.BallotCreated) {
	log.Infow("ballot created",
		"eventId", e.EventID.String(),
		"ballotId", e.BallotID,
		"title", e.Title,
		"creator", e.Creator.Hex(),
		"endTime", e.EndTime.String())
}

func (LogSink) OnVoteCast(e ballotbox.VoteCast) {
	log.Infow("vote cast",
		"eventId", e.EventID.String(),
		"ballotId", e.BallotID,
		"voter", e.Voter.Hex())
}

func (LogSink) OnResultsRevealed(e ballotbox.ResultsRevealed) {
	log.Infow("results revealed",
		"eventId", e.EventID.String(),
		"ballotId", e.BallotID,
		"results", e.Results)
}
