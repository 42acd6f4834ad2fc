package api

const (
	// PingEndpoint is the endpoint for checking the API status.
	PingEndpoint = "/ping"
	// EncryptionKeyEndpoint serves the encryption public key clients need to
	// build confidential ballots.
	EncryptionKeyEndpoint = "/key"
	// BallotsEndpoint is the endpoint for creating and listing ballots.
	BallotsEndpoint = "/ballots"
	// BallotURLParam is the URL parameter holding the ballot id.
	BallotURLParam = "ballotId"
	// BallotEndpoint is the endpoint to get the ballot info.
	BallotEndpoint = "/ballots/{" + BallotURLParam + "}"
	// VotesEndpoint is the endpoint for submitting a vote, plaintext or
	// confidential.
	VotesEndpoint = BallotEndpoint + "/votes"
	// RevealEndpoint triggers the one-time reveal of an ended ballot.
	RevealEndpoint = BallotEndpoint + "/reveal"
	// ResultsEndpoint serves the plaintext results of a revealed ballot.
	ResultsEndpoint = BallotEndpoint + "/results"
	// CandidateURLParam is the URL parameter holding a candidate index.
	CandidateURLParam = "candidateIndex"
	// CounterEndpoint serves the opaque encrypted counter of one candidate.
	CounterEndpoint = BallotEndpoint + "/counters/{" + CandidateURLParam + "}"
	// VoterURLParam is the URL parameter holding a voter address.
	VoterURLParam = "address"
	// VoterEndpoint reports whether an address already voted in a ballot.
	VoterEndpoint = BallotEndpoint + "/voters/{" + VoterURLParam + "}"
)
