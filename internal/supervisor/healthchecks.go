package supervisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/wrlog/internal/shared"
)

// Healthchecks reports liveness to a healthchecks.io style check URL.
//
// A nil *Healthchecks is valid and does nothing.
type Healthchecks struct {
	url    string
	client *http.Client
}

// NewHealthchecks returns nil when url is empty.
func NewHealthchecks(url string, client *http.Client) *Healthchecks {
	if url == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Healthchecks{url: strings.TrimSuffix(url, "/"), client: client}
}

// Ping signals a successful run.
func (h *Healthchecks) Ping(ctx context.Context) error {
	if h == nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return err
	}
	return h.do(req)
}

// Fail signals a failure, carrying cause in the request body.
func (h *Healthchecks) Fail(ctx context.Context, cause error) error {
	if h == nil {
		return nil
	}
	body := fmt.Sprintf("[manager] error: %v", cause)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url+"/fail", strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	return h.do(req)
}

func (h *Healthchecks) do(req *http.Request) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: healthchecks returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
