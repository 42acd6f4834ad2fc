package api

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.vocdoni.io/dvote/crypto/ethereum"
	"go.vocdoni.io/dvote/log"
)

// newVote casts a vote, plaintext or confidential
// POST /ballots/{ballotId}/votes
func (a *API) newVote(w http.ResponseWriter, r *http.Request) {
	id, err := ballotIDFromRequest(r)
	if err != nil {
		ErrMalformedBallotID.WithErr(err).Write(w)
		return
	}
	vote := &Vote{}
	if err := json.NewDecoder(r.Body).Decode(vote); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}

	switch {
	case vote.CandidateIndex != nil:
		voter, err := ethereum.AddrFromSignature(VoteMessage(id, *vote.CandidateIndex), vote.Signature)
		if err != nil {
			ErrInvalidSignature.Withf("could not extract address from signature: %v", err).Write(w)
			return
		}
		if err := a.box.Vote(id, *vote.CandidateIndex, voter); err != nil {
			fromEngine(err).Write(w)
			return
		}
		log.Debugw("vote accepted", "ballotId", id, "voter", voter.Hex())
	case len(vote.Entries) > 0:
		voter, err := ethereum.AddrFromSignature(EncryptedVoteMessage(id, vote.Entries), vote.Signature)
		if err != nil {
			ErrInvalidSignature.Withf("could not extract address from signature: %v", err).Write(w)
			return
		}
		if err := a.box.VoteEncrypted(id, vote.Entries, vote.Proof, voter); err != nil {
			fromEngine(err).Write(w)
			return
		}
		log.Debugw("encrypted vote accepted", "ballotId", id, "voter", voter.Hex())
	default:
		ErrMalformedBody.Withf("either candidateIndex or entries must be provided").Write(w)
		return
	}
	httpWriteOK(w)
}

// hasVoted reports whether an address already voted in a ballot
// GET /ballots/{ballotId}/voters/{address}
func (a *API) hasVoted(w http.ResponseWriter, r *http.Request) {
	id, err := ballotIDFromRequest(r)
	if err != nil {
		ErrMalformedBallotID.WithErr(err).Write(w)
		return
	}
	raw := chi.URLParam(r, VoterURLParam)
	if !common.IsHexAddress(raw) {
		ErrMalformedVoterAddress.Withf("%q is not a valid address", raw).Write(w)
		return
	}
	voted, err := a.box.HasVoted(id, common.HexToAddress(raw))
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &VoterStatus{HasVoted: voted})
}
