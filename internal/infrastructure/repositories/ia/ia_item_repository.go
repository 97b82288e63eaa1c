// Package ia is the Internet Archive item store client. Items are written
// through the S3-compatible endpoint; existence is checked through the read
// API, which is authoritative for the idempotency guarantee.
package ia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	domainRepos "github.com/Andres9890/iagitbetter/internal/domain/repositories"
)

const (
	metadataEndpoint = "https://archive.org/metadata/%s"
	s3Endpoint       = "https://s3.us.archive.org/%s/%s"
	uploadRetries    = 3
	existsTimeout    = 10 * time.Second
)

// Credentials are the S3-style access/secret pair of an archive.org account.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// ItemRepository implements repositories.ItemRepository against archive.org.
type ItemRepository struct {
	creds  Credentials
	client *retryablehttp.Client
}

// NewItemRepository creates an item repository with the given credentials.
// Uploads have no overall deadline: large bundles on slow links are expected,
// and the retry budget bounds failure handling instead.
func NewItemRepository(creds Credentials) domainRepos.ItemRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = uploadRetries
	client.Logger = nil
	return &ItemRepository{creds: creds, client: client}
}

// Exists reports whether the item identifier is already taken.
func (r *ItemRepository) Exists(ctx context.Context, identifier string) (bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, existsTimeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(reqCtx, http.MethodGet, fmt.Sprintf(metadataEndpoint, identifier), nil)
	if err != nil {
		return false, fmt.Errorf("invalid metadata request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("existence check for %q failed: %w", identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("existence check for %q: unexpected status %d", identifier, resp.StatusCode)
	}

	// The metadata endpoint answers 200 with an empty object for unknown
	// identifiers.
	var payload struct {
		Metadata map[string]any `json:"metadata"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return false, fmt.Errorf("decoding metadata for %q: %w", identifier, decodeErr)
	}
	return len(payload.Metadata) > 0, nil
}

// Upload PUTs one file into the item under the given key. Metadata, when
// present, rides along as x-archive-meta headers; archive.org applies item
// metadata from the first file written to a new item. Derive stays queued
// off until the final file so the task runs once over the complete item.
func (r *ItemRepository) Upload(ctx context.Context, identifier, key, path string, metadata map[string]string, queueDerive bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	url := fmt.Sprintf(s3Endpoint, identifier, escapeKey(key))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, url, func() (io.Reader, error) {
		// Rewind for retries.
		if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
			return nil, seekErr
		}
		return f, nil
	})
	if err != nil {
		return fmt.Errorf("invalid upload request for %q: %w", key, err)
	}
	req.ContentLength = info.Size()

	req.Header.Set("authorization", fmt.Sprintf("LOW %s:%s", r.creds.AccessKey, r.creds.SecretKey))
	req.Header.Set("x-archive-auto-make-bucket", "1")
	derive := "0"
	if queueDerive {
		derive = "1"
	}
	req.Header.Set("x-archive-queue-derive", derive)
	for name, value := range metadata {
		req.Header.Set("x-archive-meta-"+name, encodeHeaderValue(value))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %q to %q: %w", key, identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("uploading %q to %q: status %d: %s", key, identifier, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// escapeKey percent-encodes the characters the S3 endpoint rejects in object
// keys while keeping path separators intact.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = strings.NewReplacer(
			"%", "%25",
			" ", "%20",
			"#", "%23",
			"?", "%3F",
			";", "%3B",
		).Replace(seg)
	}
	return strings.Join(segments, "/")
}

// encodeHeaderValue wraps values containing non-ASCII or newline characters
// in the uri(...) form the metadata API understands.
func encodeHeaderValue(value string) string {
	plain := true
	for _, r := range value {
		if r > 126 || r == '\n' || r == '\r' {
			plain = false
			break
		}
	}
	if plain {
		return value
	}

	var b strings.Builder
	b.WriteString("uri(")
	for _, byteVal := range []byte(value) {
		if byteVal > 32 && byteVal < 127 && byteVal != '%' {
			b.WriteByte(byteVal)
		} else {
			fmt.Fprintf(&b, "%%%02X", byteVal)
		}
	}
	b.WriteString(")")
	return b.String()
}
