package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindfulbreak/internal/core/scheduler"
)

// Client talks to a running instance's control API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for address ("host:port" or a full URL).
func NewClient(address string) *Client {
	base := strings.TrimRight(address, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{baseURL: base, http: &http.Client{Timeout: 5 * time.Second}}
}

// State fetches the scheduler snapshot.
func (client *Client) State(ctx context.Context) (scheduler.Snapshot, error) {
	var snapshot scheduler.Snapshot
	err := client.do(ctx, http.MethodGet, "/api/state", &snapshot)
	return snapshot, err
}

// TakeBreak asks the instance to open a break now.
func (client *Client) TakeBreak(ctx context.Context) (scheduler.Snapshot, error) {
	var snapshot scheduler.Snapshot
	err := client.do(ctx, http.MethodPost, "/api/break", &snapshot)
	return snapshot, err
}

func (client *Client) do(ctx context.Context, method, path string, into any) error {
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode == http.StatusConflict {
		if err := json.Unmarshal(body, into); err != nil {
			return fmt.Errorf("%s %s: status %d", method, path, response.StatusCode)
		}
		return fmt.Errorf("%w: %s %s", ErrConflict, method, path)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, response.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
