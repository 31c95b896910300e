package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type FetchResult struct {
	Body        []byte
	ContentType string
	FinalURL    string
	StatusCode  int
}

// Fetcher performs GET requests for linked-data documents and feeds.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
}

func NewFetcher(client *http.Client, userAgent string, maxContentSize int64) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &Fetcher{
		client:         client,
		userAgent:      userAgent,
		maxContentSize: maxContentSize,
	}
}

// Fetch retrieves url, negotiating with the given Accept header. Deadlines
// come from ctx.
func (f *Fetcher) Fetch(ctx context.Context, url, accept string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var body io.Reader = resp.Body
	if f.maxContentSize > 0 {
		body = io.LimitReader(resp.Body, f.maxContentSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if f.maxContentSize > 0 && int64(len(data)) > f.maxContentSize {
		return nil, fmt.Errorf("content exceeds maximum size of %d bytes", f.maxContentSize)
	}

	return &FetchResult{
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
	}, nil
}
