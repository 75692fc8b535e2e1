package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/cascade/pkg/formatting"
)

var (
	ErrEmptyText = errors.New("document text is empty")
	ErrService   = errors.New("extraction service error")
)

// maxResponseSize bounds the extraction response body.
const maxResponseSize = 16 << 20

// Client calls an extraction service over HTTP. The service receives
// {"document_text": "..."} and answers with a Result as JSON, optionally
// wrapped in a markdown code fence.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a Client. A zero timeout leaves calls unbounded.
func NewClient(endpoint, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.With("system", "extraction"),
	}
}

type request struct {
	DocumentText string `json:"document_text"`
}

func (c *Client) Extract(ctx context.Context, rawText string) (*Result, error) {
	if rawText == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(request{DocumentText: rawText})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrService, resp.StatusCode, bytes.TrimSpace(data))
	}

	result, err := formatting.Parse[Result](string(data))
	if err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}

	c.logger.Info("extraction complete",
		"document_type", result.DocumentType,
		"covenants", len(result.Covenants),
		"obligations", len(result.Obligations),
		"duration", time.Since(start),
	)
	return &result, nil
}
