package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.vocdoni.io/dvote/crypto/ethereum"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/types"
)

// newBallot creates a new ballot
// POST /ballots
func (a *API) newBallot(w http.ResponseWriter, r *http.Request) {
	req := &NewBallot{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}

	// the creator identity comes from the signature
	creator, err := ethereum.AddrFromSignature(CreateBallotMessage(req.Nonce, req.Title), req.Signature)
	if err != nil {
		ErrInvalidSignature.Withf("could not extract address from signature: %v", err).Write(w)
		return
	}

	id, err := a.box.CreateBallot(creator, req.Title, req.Candidates, time.Duration(req.Duration)*time.Second)
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	b, err := a.box.Ballot(id)
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	log.Infow("new ballot", "ballotId", id, "creator", creator.Hex())
	httpWriteJSON(w, &NewBallotResponse{BallotID: id, EndTime: b.EndTime})
}

// ballotInfo returns the public view of a ballot
// GET /ballots/{ballotId}
func (a *API) ballotInfo(w http.ResponseWriter, r *http.Request) {
	id, err := ballotIDFromRequest(r)
	if err != nil {
		ErrMalformedBallotID.WithErr(err).Write(w)
		return
	}
	b, err := a.box.Ballot(id)
	if err != nil {
		fromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &BallotInfo{
		BallotID:        b.ID,
		Title:           b.Title,
		Candidates:      b.Candidates,
		Creator:         b.Creator,
		EndTime:         b.EndTime,
		IsActive:        b.IsActive,
		ResultsRevealed: b.ResultsRevealed,
		TotalVotes:      b.TotalVotes,
	})
}

// listBallots returns ballot ids, optionally filtered by status
// GET /ballots?status=active|ended
func (a *API) listBallots(w http.ResponseWriter, r *http.Request) {
	var ids []types.BallotID
	var err error
	switch status := r.URL.Query().Get("status"); status {
	case "active":
		ids, err = a.box.ActiveBallots()
	case "ended":
		ids, err = a.box.EndedBallots()
	case "":
		var active, ended []types.BallotID
		if active, err = a.box.ActiveBallots(); err == nil {
			if ended, err = a.box.EndedBallots(); err == nil {
				ids = append(active, ended...)
			}
		}
	default:
		ErrMalformedBody.Withf("unknown status filter %q", status).Write(w)
		return
	}
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &BallotList{Ballots: ids})
}

// encryptionKey serves the encryption public key for confidential ballots
// GET /key
func (a *API) encryptionKey(w http.ResponseWriter, _ *http.Request) {
	resp := &EncryptionKey{Backend: a.box.Encryption().Name()}
	if eg, ok := a.box.Encryption().(*encryption.ElGamalService); ok {
		pub := eg.PublicKey()
		resp.X = (*types.BigInt)(pub.X)
		resp.Y = (*types.BigInt)(pub.Y)
	}
	httpWriteJSON(w, resp)
}
