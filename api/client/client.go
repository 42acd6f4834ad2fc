// Package client implements a typed HTTP client for the cipherballot API,
// used by the CLI and the integration tests.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"go.vocdoni.io/dvote/crypto/ethereum"
	"go.vocdoni.io/dvote/log"

	"github.com/vocdoni/cipherballot/api"
	"github.com/vocdoni/cipherballot/encryption"
	"github.com/vocdoni/cipherballot/types"
)

const (
	// HTTPGET is the method string used for calling Request()
	HTTPGET = http.MethodGet
	// HTTPPOST is the method string used for calling Request()
	HTTPPOST = http.MethodPost

	errCodeNot200 = "API error"

	// DefaultRetries this enables Request() to handle the situation where the server connection fails
	DefaultRetries = 3
	// DefaultTimeout is the default timeout for the HTTP client
	DefaultTimeout = 10 * time.Second
)

// HTTPclient is the cipherballot API HTTP client.
type HTTPclient struct {
	c       *http.Client
	host    *url.URL
	retries int
}

// New connects to the API host and returns the handle.
func New(host string) (*HTTPclient, error) {
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	tr := &http.Transport{
		IdleConnTimeout:    DefaultTimeout,
		DisableCompression: false,
	}
	c := &HTTPclient{
		c:       &http.Client{Transport: tr, Timeout: DefaultTimeout},
		host:    hostURL,
		retries: DefaultRetries,
	}
	log.Debugw("http client created", "host", hostURL.String())
	data, status, err := c.Request(HTTPGET, nil, nil, api.PingEndpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%s: %d (%s)", errCodeNot200, status, data)
	}
	return c, nil
}

// CreateBallot signs and submits a ballot creation request, returning the
// new ballot id.
func (c *HTTPclient) CreateBallot(signer *ethereum.SignKeys, title string, candidates []string, duration time.Duration, nonce uint64) (types.BallotID, error) {
	signature, err := signer.SignEthereum(api.CreateBallotMessage(nonce, title))
	if err != nil {
		return 0, fmt.Errorf("could not sign creation request: %w", err)
	}
	resp := &api.NewBallotResponse{}
	if err := c.post(&api.NewBallot{
		Title:      title,
		Candidates: candidates,
		Duration:   int64(duration.Seconds()),
		Nonce:      nonce,
		Signature:  signature,
	}, resp, api.BallotsEndpoint); err != nil {
		return 0, err
	}
	return resp.BallotID, nil
}

// Vote signs and submits a plaintext-index vote.
func (c *HTTPclient) Vote(signer *ethereum.SignKeys, id types.BallotID, candidateIndex int) error {
	signature, err := signer.SignEthereum(api.VoteMessage(id, candidateIndex))
	if err != nil {
		return fmt.Errorf("could not sign vote: %w", err)
	}
	return c.post(&api.Vote{
		CandidateIndex: &candidateIndex,
		Signature:      signature,
	}, nil, api.BallotsEndpoint, strconv.FormatUint(id, 10), "votes")
}

// VoteEncrypted signs and submits a confidential one-hot ballot.
func (c *HTTPclient) VoteEncrypted(signer *ethereum.SignKeys, id types.BallotID, entries []types.HexBytes, proof *encryption.BallotProof) error {
	signature, err := signer.SignEthereum(api.EncryptedVoteMessage(id, entries))
	if err != nil {
		return fmt.Errorf("could not sign vote: %w", err)
	}
	return c.post(&api.Vote{
		Entries:   entries,
		Proof:     proof,
		Signature: signature,
	}, nil, api.BallotsEndpoint, strconv.FormatUint(id, 10), "votes")
}

// Reveal asks the service to decrypt and publish the results of an ended
// ballot.
func (c *HTTPclient) Reveal(id types.BallotID) error {
	return c.post(nil, nil, api.BallotsEndpoint, strconv.FormatUint(id, 10), "reveal")
}

// BallotInfo retrieves the public view of a ballot.
func (c *HTTPclient) BallotInfo(id types.BallotID) (*api.BallotInfo, error) {
	info := &api.BallotInfo{}
	if err := c.get(info, nil, api.BallotsEndpoint, strconv.FormatUint(id, 10)); err != nil {
		return nil, err
	}
	return info, nil
}

// Results retrieves the revealed plaintext counts of a ballot.
func (c *HTTPclient) Results(id types.BallotID) (*api.Results, error) {
	results := &api.Results{}
	if err := c.get(results, nil, api.BallotsEndpoint, strconv.FormatUint(id, 10), "results"); err != nil {
		return nil, err
	}
	return results, nil
}

// ListBallots retrieves ballot ids, optionally filtered by "active" or
// "ended" status.
func (c *HTTPclient) ListBallots(status string) ([]types.BallotID, error) {
	var params []string
	if status != "" {
		params = []string{"status", status}
	}
	list := &api.BallotList{}
	if err := c.get(list, params, api.BallotsEndpoint); err != nil {
		return nil, err
	}
	return list.Ballots, nil
}

// HasVoted reports whether the address already voted in the ballot.
func (c *HTTPclient) HasVoted(id types.BallotID, address string) (bool, error) {
	status := &api.VoterStatus{}
	if err := c.get(status, nil, api.BallotsEndpoint, strconv.FormatUint(id, 10), "voters", address); err != nil {
		return false, err
	}
	return status.HasVoted, nil
}

// EncryptionKey retrieves the encryption public key of the service.
func (c *HTTPclient) EncryptionKey() (*api.EncryptionKey, error) {
	key := &api.EncryptionKey{}
	if err := c.get(key, nil, api.EncryptionKeyEndpoint); err != nil {
		return nil, err
	}
	return key, nil
}

func (c *HTTPclient) post(body, out any, urlPath ...string) error {
	return c.call(HTTPPOST, body, out, nil, urlPath...)
}

func (c *HTTPclient) get(out any, params []string, urlPath ...string) error {
	return c.call(HTTPGET, nil, out, params, urlPath...)
}

func (c *HTTPclient) call(method string, body, out any, params []string, urlPath ...string) error {
	data, status, err := c.Request(method, body, params, urlPath...)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: %d (%s)", errCodeNot200, status, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("could not decode response: %w", err)
		}
	}
	return nil
}

// Request performs a `method` type raw request to the endpoint specified in
// urlPath parameter. If a JSON body is provided it is attached to the
// request. Returns the response body, the status code and an error.
//
// Supports query parameters via `params` slice containing pairs of strings:
// the first element of each pair is the key, the second the value.
func (c *HTTPclient) Request(method string, jsonBody any, params []string, urlPath ...string) ([]byte, int, error) {
	var (
		body []byte
		err  error
	)
	if jsonBody != nil {
		body, err = json.Marshal(jsonBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	u, err := url.Parse(c.host.String())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse host URL: %w", err)
	}
	u.Path = path.Join(u.Path, path.Join(urlPath...))
	if len(params) > 0 {
		values := url.Values{}
		for i := 0; i < len(params)-1; i += 2 {
			values.Set(params[i], params[i+1])
		}
		u.RawQuery = values.Encode()
	}

	headers := http.Header{}
	if jsonBody != nil {
		headers.Set("Content-Type", "application/json")
		headers.Set("Accept", "application/json")
	}

	var resp *http.Response
	for i := 1; i <= c.retries; i++ {
		var reqBody io.ReadCloser
		if body != nil {
			reqBody = io.NopCloser(bytes.NewReader(body))
		}
		req, err := http.NewRequest(method, u.String(), reqBody)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header = headers

		resp, err = c.c.Do(req)
		if err != nil {
			log.Warnw("http request failed", "error", err.Error(), "attempt", i, "retries", c.retries)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		break
	}
	if resp == nil {
		return nil, 0, fmt.Errorf("http request ultimately failed after %d retries", c.retries)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnw("failed to close response body", "error", err.Error())
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, resp.StatusCode, nil
}
