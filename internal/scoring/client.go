package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Scoring dimension keys the service returns per candidate. The ranker maps
// a user's preferred factor onto exactly one of these.
const (
	DimensionFee        = "fee"
	DimensionDistance   = "distance"
	DimensionReview     = "review"
	DimensionCongestion = "congestion"
)

const (
	// The scoring model is a single shared deployment; keep request pressure low.
	rateLimit = 5 // requests per second
	rateBurst = 10

	// Retry configuration for transient transport failures
	maxRetries   = 2
	initialDelay = 500 * time.Millisecond
)

// Candidate is one lot submitted for scoring.
type Candidate struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	AverageReview float64 `json:"average_review"`
}

// ScoreRequest is the wire contract: candidates plus the query context the
// model needs (position, weekday, hour).
type ScoreRequest struct {
	Candidates []Candidate `json:"candidates"`
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	Weekday    int         `json:"weekday"`
	Hour       int         `json:"hour"`
}

// LotScores carries the per-dimension scores for one candidate, in the same
// order the candidate was submitted.
type LotScores struct {
	LotID      int64
	Name       string
	Dimensions map[string]float64
}

// scoreResponse mirrors the service's JSON body: scores keyed by lot name,
// each a map of dimension key to numeric score.
type scoreResponse struct {
	Scores map[string]map[string]float64 `json:"scores"`
}

// Gateway abstracts the external scoring call so the recommendation pipeline
// can be tested against a stub.
type Gateway interface {
	Score(ctx context.Context, req ScoreRequest) ([]LotScores, error)
}

// Client calls the scoring service over HTTP with rate limiting and a
// bounded timeout.
type Client struct {
	apiURL      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a scoring service client. Every call is bounded by
// timeout end to end, including retries.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL:      apiURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Score submits the candidates and returns their per-dimension scores in
// candidate order. Transport failures, non-2xx statuses, malformed bodies
// and responses missing a submitted candidate all surface as errors; scores
// are never zero-filled.
func (c *Client) Score(ctx context.Context, req ScoreRequest) ([]LotScores, error) {
	if len(req.Candidates) == 0 {
		return []LotScores{}, nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scoring request: %w", err)
	}

	var lastErr error
	delay := initialDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.doRequest(ctx, body)
		if err != nil {
			lastErr = err
			continue // transient transport failure, retry
		}
		return c.decodeResponse(resp, req.Candidates)
	}
	return nil, fmt.Errorf("scoring request failed after %d attempts: %w", maxRetries+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(httpReq)
}

func (c *Client) decodeResponse(resp *http.Response, candidates []Candidate) ([]LotScores, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed scoring response: %w", err)
	}

	// Re-key into candidate submission order so downstream sorting is
	// deterministic regardless of JSON map iteration.
	out := make([]LotScores, 0, len(candidates))
	for _, cand := range candidates {
		dims, ok := decoded.Scores[cand.Name]
		if !ok {
			return nil, fmt.Errorf("scoring response missing candidate %q", cand.Name)
		}
		out = append(out, LotScores{
			LotID:      cand.ID,
			Name:       cand.Name,
			Dimensions: dims,
		})
	}
	return out, nil
}
