package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/ballotbox"
)

// Error is used by handler functions to wrap errors, assigning a unique error
// code and also specifying which HTTP Status should be used.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field HTTPstatus is ignored.
//
// Example output: {"error":"ballot not found","code":40007}
func (e Error) MarshalJSON() ([]byte, error) {
	// This anon struct is needed to actually include the error string,
	// since it wouldn't be marshaled otherwise. (json.Marshal doesn't call Err.Error())
	return json.Marshal(
		struct {
			Err  string `json:"error"`
			Code int    `json:"code"`
		}{
			Err:  e.Err.Error(),
			Code: e.Code,
		})
}

// Error returns the message contained inside the API error.
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes the error as JSON and sends it with the error's HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of the error with the Sprintf formatted string appended at the end of e.Err.
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of the error with err.Error() appended at the end of e.Err.
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// fromEngine maps the ballot engine error taxonomy onto API errors. Unknown
// errors become a generic internal server error.
func fromEngine(err error) Error {
	switch {
	case errors.Is(err, ballotbox.ErrBallotNotFound):
		return ErrBallotNotFound
	case errors.Is(err, ballotbox.ErrCandidateCount):
		return ErrInvalidCandidateCount.WithErr(err)
	case errors.Is(err, ballotbox.ErrDuration):
		return ErrInvalidDuration.WithErr(err)
	case errors.Is(err, ballotbox.ErrCandidateIndex):
		return ErrInvalidCandidateIndex.WithErr(err)
	case errors.Is(err, ballotbox.ErrNotActive):
		return ErrBallotNotActive.WithErr(err)
	case errors.Is(err, ballotbox.ErrStillActive):
		return ErrBallotStillActive.WithErr(err)
	case errors.Is(err, ballotbox.ErrAlreadyRevealed):
		return ErrResultsAlreadyRevealed
	case errors.Is(err, ballotbox.ErrNotRevealed):
		return ErrResultsNotRevealed
	case errors.Is(err, ballotbox.ErrDuplicateVote):
		return ErrDuplicateVote
	case errors.Is(err, ballotbox.ErrProofVerification):
		return ErrInvalidBallotProof.WithErr(err)
	case errors.Is(err, ballotbox.ErrDecryption):
		return ErrRevealFailed.WithErr(err)
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
