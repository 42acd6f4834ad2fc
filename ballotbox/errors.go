package ballotbox

import "errors"

// Validation errors. These are rejected before any state change.
var (
	ErrCandidateCount = errors.New("ballots need between 2 and 10 candidates")
	ErrDuration       = errors.New("ballot duration must be positive")
	ErrCandidateIndex = errors.New("candidate index out of range")
)

// ErrBallotNotFound is returned for unknown ballot ids.
var ErrBallotNotFound = errors.New("ballot not found")

// Phase errors. Retrying without a changed precondition will not help, so
// callers must not retry these automatically.
var (
	ErrNotActive       = errors.New("ballot is not active")
	ErrStillActive     = errors.New("ballot is still active")
	ErrAlreadyRevealed = errors.New("ballot results already revealed")
	ErrNotRevealed     = errors.New("ballot results not yet revealed")
	ErrDuplicateVote   = errors.New("voter already voted in this ballot")
)

// ErrProofVerification is returned when a confidential ballot proof does not
// verify; the caller must resubmit with a corrected proof.
var ErrProofVerification = errors.New("ballot proof verification failed")

// ErrDecryption is returned by a strict reveal when a counter cannot be
// decrypted; the ballot stays pending and the reveal can be retried.
var ErrDecryption = errors.New("counter decryption failed")
