package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.vocdoni.io/dvote/log"
)

// reveal triggers the one-time decryption and publication of the results
// POST /ballots/{ballotId}/reveal
func (a *API) reveal(w http.ResponseWriter, r *http.Request) {
	id, err := ballotIDFromRequest(r)
	if err != nil {
		ErrMalformedBallotID.WithErr(err).Write(w)
		return
	}
	if err := a.box.Reveal(r.Context(), id); err != nil {
		fromEngine(err).Write(w)
		return
	}
	log.Infow("ballot revealed", "ballotId", id)
	httpWriteOK(w)
}

// results serves the plaintext counts of a revealed ballot
// GET /ballots/{ballotId}/results
func (a *API) results(w http.ResponseWriter, r *http.Request) {
	id, err := ballotIDFromRequest(r)
	if err != nil {
		ErrMalformedBallotID.WithErr(err).Write(w)
		return
	}
	results, err := a.box.Results(id)
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	b, err := a.box.Ballot(id)
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &Results{
		Candidates: b.Candidates,
		Results:    results,
		TotalVotes: b.TotalVotes,
	})
}

// encryptedVoteCount serves the opaque counter handle of one candidate
// GET /ballots/{ballotId}/counters/{candidateIndex}
func (a *API) encryptedVoteCount(w http.ResponseWriter, r *http.Request) {
	id, err := ballotIDFromRequest(r)
	if err != nil {
		ErrMalformedBallotID.WithErr(err).Write(w)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, CandidateURLParam))
	if err != nil {
		ErrInvalidCandidateIndex.Withf("%q is not a valid index", chi.URLParam(r, CandidateURLParam)).Write(w)
		return
	}
	counter, err := a.box.EncryptedVoteCount(id, index)
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &Counter{Counter: counter})
}
