package session

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
)

// URLCheck verifies that a URL answers with a non-error status. It is used
// to report an unreachable drawing library before a browser is launched.
type URLCheck struct {
	url    string
	client *retryablehttp.Client
}

var _ Checker = (*URLCheck)(nil)

// NewURLCheck creates a check for url with up to three retries
func NewURLCheck(url string, logger hclog.Logger) *URLCheck {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	if logger != nil {
		client.Logger = logger.Named("preflight")
	} else {
		client.Logger = nil
	}
	return &URLCheck{url: url, client: client}
}

// Check fetches the URL and fails on transport errors or a 4xx/5xx status
func (c *URLCheck) Check(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create preflight request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("fetching %s returned status %d", c.url, resp.StatusCode)
	}
	return nil
}
