// Package subgraph fetches Uniswap V2 pair snapshots from a The Graph endpoint.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	uniswapv2 "github.com/defistate/defistate-arb/protocols/uniswapv2"
)

const (
	DefaultBatchSize  = 1000
	DefaultMaxRetries = 5

	defaultInitialBackoff   = 1 * time.Second
	defaultMaxBackoff       = 30 * time.Second
	defaultMaxResponseBytes = 64 << 20
	defaultRequestTimeout   = 60 * time.Second
)

const pairsQuery = `query Pairs($first: Int!, $skip: Int!) {
  pairs(first: $first, skip: $skip, orderBy: reserveUSD, orderDirection: desc) {
    id
    token0 { id symbol name }
    token1 { id symbol name }
    reserve0
    reserve1
    reserveUSD
    token0Price
    token1Price
  }
}`

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the configuration for the client. Zero numeric fields take their defaults.
type Config struct {
	URL    string
	APIKey string // sent as a bearer token when set
	Logger Logger

	BatchSize  int
	MaxPages   int // zero fetches until a short page
	MaxRetries int

	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	MaxResponseBytes int64

	HTTPClient *http.Client
}

func (c *Config) applyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.MaxResponseBytes == 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultRequestTimeout}
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("config: URL is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.BatchSize < 1 {
		return errors.New("config: BatchSize must be greater than 0")
	}
	if c.MaxPages < 0 {
		return errors.New("config: MaxPages cannot be negative")
	}
	if c.MaxRetries < 0 {
		return errors.New("config: MaxRetries cannot be negative")
	}
	if c.InitialBackoff < 0 || c.MaxBackoff < c.InitialBackoff {
		return errors.New("config: backoff must satisfy 0 <= InitialBackoff <= MaxBackoff")
	}
	return nil
}

// Client pages through the pairs entity of a Uniswap V2 subgraph.
type Client struct {
	cfg    Config
	logger Logger
}

// NewClient creates a client, returning an error if the config is invalid.
func NewClient(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	return &Client{cfg: cfg, logger: cfg.Logger}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]int `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type pairsResponse struct {
	Data *struct {
		Pairs []uniswapv2.Pair `json:"pairs"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// QueryError carries the errors reported in a GraphQL response body.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "subgraph query failed: " + strings.Join(e.Messages, "; ")
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("subgraph http %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether a failed page request is worth repeating.
func retryable(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// FetchAllPairs fetches pages of BatchSize pairs, ordered by reserveUSD
// descending, until a page comes back short or MaxPages pages were read.
func (c *Client) FetchAllPairs(ctx context.Context) ([]uniswapv2.Pair, error) {
	var all []uniswapv2.Pair
	for page := 0; c.cfg.MaxPages == 0 || page < c.cfg.MaxPages; page++ {
		skip := page * c.cfg.BatchSize
		c.logger.Info("Fetching pairs", "from", skip, "to", skip+c.cfg.BatchSize)

		pairs, err := c.FetchPage(ctx, c.cfg.BatchSize, skip)
		if err != nil {
			return all, fmt.Errorf("fetching pairs at skip %d: %w", skip, err)
		}
		all = append(all, pairs...)
		if len(pairs) < c.cfg.BatchSize {
			break
		}
	}
	c.logger.Info("Fetched pairs", "count", len(all))
	return all, nil
}

// FetchPage fetches a single page, retrying transport errors, 429 and 5xx
// responses with exponential backoff.
func (c *Client) FetchPage(ctx context.Context, first, skip int) ([]uniswapv2.Pair, error) {
	delay := c.cfg.InitialBackoff
	for attempt := 0; ; attempt++ {
		pairs, err := c.fetchPage(ctx, first, skip)
		if err == nil {
			return pairs, nil
		}
		if attempt >= c.cfg.MaxRetries || !retryable(err) {
			return nil, err
		}

		c.logger.Warn("Subgraph request failed, will retry...", "error", err, "attempt", attempt+1, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay = min(delay*2, c.cfg.MaxBackoff)
	}
}

func (c *Client) fetchPage(ctx context.Context, first, skip int) ([]uniswapv2.Pair, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     pairsQuery,
		Variables: map[string]int{"first": first, "skip": skip},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(b))
		if len(msg) > 512 {
			msg = msg[:512] + "..."
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	var pr pairsResponse
	if err := json.Unmarshal(b, &pr); err != nil {
		return nil, fmt.Errorf("decoding subgraph response: %w", err)
	}
	if len(pr.Errors) > 0 {
		qe := &QueryError{Messages: make([]string, len(pr.Errors))}
		for i, e := range pr.Errors {
			qe.Messages[i] = e.Message
		}
		return nil, qe
	}
	if pr.Data == nil {
		return nil, &QueryError{Messages: []string{"response has no data"}}
	}
	return pr.Data.Pairs, nil
}
