//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// Error codes in the 40001-49999 range are the user's fault and return HTTP
// Status 400 or 404, whatever is most appropriate. Error codes 50001-59999
// are the server's fault and return HTTP Status 500 or 503.
//
// NEVER change any of the current error codes, only append new errors after
// the current last 4XXX or 5XXX. There is no correlation between Code and
// HTTP Status.
var (
	ErrResourceNotFound       = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody          = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature       = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid signature")}
	ErrMalformedBallotID      = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed ballot ID")}
	ErrBallotNotFound         = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("ballot not found")}
	ErrInvalidCandidateCount  = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid number of candidates")}
	ErrInvalidDuration        = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot duration")}
	ErrInvalidCandidateIndex  = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid candidate index")}
	ErrBallotNotActive        = Error{Code: 40011, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ballot is not active")}
	ErrBallotStillActive      = Error{Code: 40012, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ballot is still active")}
	ErrResultsAlreadyRevealed = Error{Code: 40013, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("results already revealed")}
	ErrResultsNotRevealed     = Error{Code: 40014, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("results not yet revealed")}
	ErrDuplicateVote          = Error{Code: 40015, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("address already voted in this ballot")}
	ErrInvalidBallotProof     = Error{Code: 40016, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot proof")}
	ErrMalformedVoterAddress  = Error{Code: 40017, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed voter address")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrRevealFailed               = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("reveal failed")}
)
