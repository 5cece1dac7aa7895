// Package fetch pulls record pages from the upstream search index. The
// index speaks a simple cursor-paged JSON protocol: each page returns the
// matching documents plus the cursor for the next page, and an unchanged
// cursor marks the end of the result set.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"record-triplifier/log"
)

const defaultRows = 500

// Client fetches flat records from a search-index endpoint.
type Client struct {
	baseURL string
	rows    int
	http    *http.Client
}

// page mirrors one response of the paged record API.
type page struct {
	Docs       []map[string]any `json:"docs"`
	NextCursor string           `json:"nextCursor"`
}

// NewClient creates a fetch client. rows <= 0 selects the default page size.
func NewClient(baseURL string, rows int) *Client {
	if rows <= 0 {
		rows = defaultRows
	}

	return &Client{
		baseURL: baseURL,
		rows:    rows,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch streams every record matching the query to fn, page by page.
// fields, when non-empty, requests a projection limited to those field
// names. A non-nil error from fn stops the iteration and is returned.
func (c *Client) Fetch(ctx context.Context, query string, fields []string, fn func(map[string]any) error) error {
	cursor := "*"

	for {
		p, err := c.page(ctx, query, fields, cursor)
		if err != nil {
			return err
		}

		for _, doc := range p.Docs {
			if err := fn(doc); err != nil {
				return err
			}
		}

		log.Debugf("fetched page of %d records (cursor %q)", len(p.Docs), cursor)

		if p.NextCursor == "" || p.NextCursor == cursor || len(p.Docs) == 0 {
			return nil
		}

		cursor = p.NextCursor
	}
}

func (c *Client) page(ctx context.Context, query string, fields []string, cursor string) (*page, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("cursor", cursor)
	params.Set("rows", fmt.Sprint(c.rows))

	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index returned %s", resp.Status)
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding record page: %w", err)
	}

	return &p, nil
}
