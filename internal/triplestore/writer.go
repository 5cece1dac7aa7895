package triplestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"record-triplifier/internal/resolve"
	"record-triplifier/log"
)

const defaultBatchSize = 1000

// Client writes triples to a graph-store protocol endpoint.
type Client struct {
	endpoint  string
	batchSize int
	http      *http.Client
}

// NewClient creates a write client for the given endpoint URL.
// batchSize <= 0 selects the default of 1000 triples per request.
func NewClient(endpoint string, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Client{
		endpoint:  endpoint,
		batchSize: batchSize,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Write posts the triples to the endpoint in batches of the configured size.
// The first failing batch aborts the write.
func (c *Client) Write(ctx context.Context, triples []resolve.Triple) error {
	for start := 0; start < len(triples); start += c.batchSize {
		end := start + c.batchSize
		if end > len(triples) {
			end = len(triples)
		}

		if err := c.post(ctx, triples[start:end]); err != nil {
			return fmt.Errorf("writing triples %d..%d: %w", start, end, err)
		}

		log.Debugf("wrote %d triples to %s", end-start, c.endpoint)
	}

	return nil
}

func (c *Client) post(ctx context.Context, batch []resolve.Triple) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(Document(batch)))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/n-triples")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return nil
}
