// Package httpapi is the shared HTTP layer for provider REST calls and
// artifact downloads. Metadata and listing calls use a short per-request
// timeout; downloads stream with retries and no overall deadline.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	metadataTimeout = 10 * time.Second
	retryMax        = 3
)

var ErrEmptyBody = errors.New("empty response body")

// Client wraps retryablehttp with the timeout policy of the pipeline.
type Client struct {
	api      *retryablehttp.Client
	download *retryablehttp.Client
}

// NewClient creates a Client with the default retry budget.
func NewClient() *Client {
	api := retryablehttp.NewClient()
	api.RetryMax = retryMax
	api.HTTPClient.Timeout = metadataTimeout
	api.Logger = nil

	dl := retryablehttp.NewClient()
	dl.RetryMax = retryMax
	dl.Logger = nil

	return &Client{api: api, download: dl}
}

// GetJSON performs a GET with the given headers and decodes the JSON body
// into a generic map. Non-200 statuses and empty bodies are errors; callers
// treat them as recoverable.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string) (map[string]any, error) {
	body, err := c.get(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if unmarshalErr := json.Unmarshal(body, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("malformed JSON from %s: %w", url, unmarshalErr)
	}
	return raw, nil
}

// GetJSONList is GetJSON for endpoints returning a top-level array.
func (c *Client) GetJSONList(ctx context.Context, url string, headers map[string]string) ([]map[string]any, error) {
	body, err := c.get(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if unmarshalErr := json.Unmarshal(body, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("malformed JSON from %s: %w", url, unmarshalErr)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", url, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}

// Download streams the given URL into destPath, creating parent directories
// as needed.
func (c *Client) Download(ctx context.Context, url, destPath string, headers map[string]string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid request for %s: %w", url, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return fmt.Errorf("download of %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading %s", resp.StatusCode, url)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(destPath), 0o755); mkdirErr != nil {
		return fmt.Errorf("creating directory for %s: %w", destPath, mkdirErr)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer out.Close()

	if _, copyErr := io.Copy(out, resp.Body); copyErr != nil {
		return fmt.Errorf("writing %s: %w", destPath, copyErr)
	}
	return nil
}
