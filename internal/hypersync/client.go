// Package hypersync queries an Envio HyperSync endpoint for event logs.
package hypersync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"swapextract/internal/model"
)

// DefaultURL is the Ethereum mainnet HyperSync endpoint.
const DefaultURL = "https://eth.hypersync.xyz"

const maxErrorBody = 512

// logFields is the log field selection requested from the service.
var logFields = []string{
	"block_number",
	"transaction_hash",
	"log_index",
	"address",
	"data",
	"topic0",
	"topic1",
	"topic2",
	"topic3",
}

// Client is a minimal HyperSync HTTP client.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *zap.Logger
}

// Option configures Client.
type Option func(*Client)

// WithToken sets the bearer token sent with each query.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   http.DefaultClient,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type query struct {
	FromBlock      uint64         `json:"from_block"`
	ToBlock        *uint64        `json:"to_block,omitempty"`
	Logs           []logSelection `json:"logs"`
	FieldSelection fieldSelection `json:"field_selection"`
}

type logSelection struct {
	Address []string   `json:"address"`
	Topics  [][]string `json:"topics"`
}

type fieldSelection struct {
	Log []string `json:"log"`
}

type response struct {
	Data          json.RawMessage `json:"data"`
	NextBlock     *uint64         `json:"next_block"`
	ArchiveHeight *uint64         `json:"archive_height"`
}

type batch struct {
	Logs []json.RawMessage `json:"logs"`
}

// buildQuery maps a LogQuery to the service's query body. ToBlock is
// exclusive, as the service defines it; zero leaves the range open-ended.
func buildQuery(q model.LogQuery) query {
	out := query{
		FromBlock: q.FromBlock,
		Logs: []logSelection{{
			Address: []string{q.Address.Hex()},
			Topics:  [][]string{{q.Topic0.Hex()}},
		}},
		FieldSelection: fieldSelection{Log: logFields},
	}
	if q.ToBlock > 0 {
		to := q.ToBlock
		out.ToBlock = &to
	}
	return out
}

// FetchLogs issues one query and returns the logs in response order. A log
// element that cannot be read is returned as a DecodeError instead of failing
// the whole response.
func (c *Client) FetchLogs(ctx context.Context, q model.LogQuery) ([]model.RawLog, []model.DecodeError, error) {
	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("send query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, nil, fmt.Errorf("query failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}

	logs, failures, err := parseData(decoded.Data)
	if err != nil {
		return nil, nil, err
	}

	if decoded.NextBlock != nil && q.ToBlock > 0 && *decoded.NextBlock < q.ToBlock {
		c.logger.Warn("partial range returned",
			zap.Uint64("next_block", *decoded.NextBlock),
			zap.Uint64("to", q.ToBlock),
		)
	}

	return logs, failures, nil
}

// parseData accepts data as a single {logs: [...]} object or as an array of
// such batches. Each log element is decoded on its own.
func parseData(raw json.RawMessage) ([]model.RawLog, []model.DecodeError, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []model.RawLog{}, nil, nil
	}

	var batches []batch
	switch trimmed[0] {
	case '{':
		var single batch
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, nil, fmt.Errorf("decode data: %w", err)
		}
		batches = []batch{single}
	case '[':
		if err := json.Unmarshal(trimmed, &batches); err != nil {
			return nil, nil, fmt.Errorf("decode data: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unexpected data shape: %.32s", trimmed)
	}

	logs := make([]model.RawLog, 0)
	var failures []model.DecodeError
	position := 0
	for _, b := range batches {
		for _, element := range b.Logs {
			position++
			var log model.RawLog
			if err := json.Unmarshal(element, &log); err != nil {
				failures = append(failures, model.DecodeError{Error: fmt.Sprintf("log %d: %v", position, err)})
				continue
			}
			logs = append(logs, log)
		}
	}
	return logs, failures, nil
}
