package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-shiori/go-readability"
	"github.com/lysyi3m/foaf-comb/app/parser"
)

const AcceptHTML = "text/html, application/xhtml+xml;q=0.9, */*;q=0.5"

type ContentExtractor struct {
	fetcher *parser.Fetcher
}

func NewContentExtractor(fetcher *parser.Fetcher) *ContentExtractor {
	return &ContentExtractor{fetcher: fetcher}
}

// Extract fetches the page behind link and returns its readable content.
func (e *ContentExtractor) Extract(ctx context.Context, link string) (string, error) {
	if e.fetcher == nil {
		return "", fmt.Errorf("no fetcher configured")
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", link, err)
	}

	result, err := e.fetcher.Fetch(ctx, link, AcceptHTML)
	if err != nil {
		return "", err
	}

	return e.extract(result.Body, pageURL)
}

func (e *ContentExtractor) Run(data []byte) (string, error) {
	return e.extract(data, nil)
}

func (e *ContentExtractor) extract(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(article.Content))

	return article.Content, nil
}
