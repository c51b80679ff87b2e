package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marketdash/internal/domain/port"
)

// Client talks to the remote analyzer control API (status/pause/resume).
// The analyzer itself is opaque to this service; we only proxy its state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type statusResponse struct {
	Analyzers map[string]port.AnalyzerStatus `json:"analyzers"`
}

type controlResponse struct {
	Message    string `json:"message"`
	StatusInfo struct {
		Analyzers map[string]port.AnalyzerStatus `json:"analyzers"`
	} `json:"status_info"`
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) Status(ctx context.Context) (map[string]port.AnalyzerStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/trading/analyzer/status")
	if err != nil {
		return nil, err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer status: %w", err)
	}
	return resp.Analyzers, nil
}

func (c *Client) Pause(ctx context.Context) (map[string]port.AnalyzerStatus, error) {
	return c.control(ctx, "/trading/analyzer/pause")
}

func (c *Client) Resume(ctx context.Context) (map[string]port.AnalyzerStatus, error) {
	return c.control(ctx, "/trading/analyzer/resume")
}

func (c *Client) control(ctx context.Context, path string) (map[string]port.AnalyzerStatus, error) {
	body, err := c.do(ctx, http.MethodPost, path)
	if err != nil {
		return nil, err
	}

	var resp controlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
	}
	c.log.Info("analyzer control call completed", "path", path, "message", resp.Message)
	return resp.StatusInfo.Analyzers, nil
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyzer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
