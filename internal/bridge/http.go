package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTP is a Transport that POSTs each request to <baseURL>/invoke.
type HTTP struct {
	client *resty.Client
}

// NewHTTP creates an HTTP transport. A zero timeout leaves requests unbounded.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTP{client: client}
}

// RoundTrip posts req and decodes the response body.
func (h *HTTP) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	var out Response
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/invoke")
	if err != nil {
		return nil, fmt.Errorf("post invoke: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("engine bridge returned %s", resp.Status())
	}
	if out.ID != req.ID {
		return nil, fmt.Errorf("engine bridge answered request %q with %q", req.ID, out.ID)
	}
	return &out, nil
}

// Close is a no-op; connections are pooled by the HTTP client.
func (h *HTTP) Close() error {
	return nil
}
