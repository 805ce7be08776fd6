// Package uniprot queries the UniProt proteins REST API for sequence
// masses.
package uniprot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the UniProt proteins API endpoint. A record lives
// at {base}/{accession}.
const DefaultBaseURL = "https://www.ebi.ac.uk/proteins/api/proteins"

const requestTimeout = 30 * time.Second

// Lookup errors.
var (
	ErrBadStatus   = errors.New("unexpected response status")
	ErrMassMissing = errors.New("response has no sequence mass")
)

// Client fetches protein records over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given API base URL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// proteinRecord is the subset of the UniProt response this tool reads.
// Mass is a pointer so an absent field is distinguishable from zero.
type proteinRecord struct {
	Sequence struct {
		Mass *float64 `json:"mass"`
	} `json:"sequence"`
}

// SequenceMass returns the molecular mass of the protein's sequence
// as reported by the service.
//
// Any non-2xx status, transport error, or response lacking the mass
// field is an error for this accession only; callers decide whether
// that aborts anything.
func (c *Client) SequenceMass(ctx context.Context, accession string) (float64, error) {
	url := c.baseURL + "/" + accession

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building request for %s: %w", accession, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("querying %s: %w", accession, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("%w: %s for %s", ErrBadStatus, resp.Status, accession)
	}

	var record proteinRecord

	decodeErr := json.NewDecoder(resp.Body).Decode(&record)
	if decodeErr != nil {
		return 0, fmt.Errorf("decoding response for %s: %w", accession, decodeErr)
	}

	if record.Sequence.Mass == nil {
		return 0, fmt.Errorf("%w: %s", ErrMassMissing, accession)
	}

	return *record.Sequence.Mass, nil
}
