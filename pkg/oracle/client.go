package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxBodySize bounds how much of an oracle response is read
const maxBodySize = 1 << 20

// ClientOption allows for customization of the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// Client fetches speed tables from a gas price oracle.
// It performs no retries; callers decide how to fall back.
type Client struct {
	config  *Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient creates a new oracle client with the provided configuration
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  config.Logger,
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchSpeedTable requests the current speed table from the oracle.
// Transport errors and non-2xx answers are NETWORK_FAILURE, undecodable
// bodies or bodies without a single tier are PARSE_FAILURE.
func (c *Client) FetchSpeedTable(ctx context.Context) (*SpeedTable, error) {
	log := c.logger.WithFields(logrus.Fields{
		"chain_side": c.config.Side,
		"url":        c.config.URL,
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, NewOracleError(ErrCodeNetworkFailure, "rate limiter wait aborted", err, c.config.Side)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, NewOracleError(ErrCodeNetworkFailure, "failed to create request", err, c.config.Side)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Requesting oracle speed table")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewOracleError(ErrCodeNetworkFailure, "oracle request failed", err, c.config.Side)
	}
	defer resp.Body.Close()

	log.WithField("status_code", resp.StatusCode).Debug("Received oracle response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		oe := NewOracleError(
			ErrCodeNetworkFailure,
			"unexpected status code",
			fmt.Errorf("status %d", resp.StatusCode),
			c.config.Side,
		)
		oe.StatusCode = resp.StatusCode
		return nil, oe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewOracleError(ErrCodeNetworkFailure, "failed to read response body", err, c.config.Side)
	}

	table, err := ParseSpeedTable(body)
	if err != nil {
		return nil, NewOracleError(ErrCodeParseFailure, "failed to parse oracle response", err, c.config.Side)
	}

	log.WithFields(logrus.Fields{
		"block_number": table.BlockNumber,
		"health":       table.Health,
		"speeds":       table.AvailableSpeeds(),
	}).Debug("Decoded oracle speed table")

	return table, nil
}

// ParseSpeedTable decodes an oracle body. Absent tiers stay nil; a body
// reporting no tier at all is rejected.
func ParseSpeedTable(body []byte) (*SpeedTable, error) {
	var table SpeedTable
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if len(table.AvailableSpeeds()) == 0 {
		return nil, fmt.Errorf("response contains no speed tiers")
	}
	return &table, nil
}
