package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/foaf-comb/app/graph"
	"github.com/lysyi3m/foaf-comb/app/parser"
	"github.com/lysyi3m/foaf-comb/app/vocab"
	"github.com/mmcdole/gofeed"
)

const AcceptFeed = "application/rss+xml, application/rdf+xml;q=0.9, application/atom+xml;q=0.9, application/xml;q=0.8, text/xml;q=0.8, */*;q=0.5"

// Parser reads RSS 0.9x/1.0/2.0 and Atom feeds and describes them with the
// RSS 1.0 vocabulary so the activity aggregator sees one shape.
type Parser struct {
	fetcher      *parser.Fetcher
	gofeedParser *gofeed.Parser
}

func NewParser(fetcher *parser.Fetcher) *Parser {
	return &Parser{
		fetcher:      fetcher,
		gofeedParser: gofeed.NewParser(),
	}
}

// Parse fetches the feed at uri and returns it as a graph fragment.
func (p *Parser) Parse(ctx context.Context, uri string) (graph.Index, error) {
	if p.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}

	result, err := p.fetcher.Fetch(ctx, uri, AcceptFeed)
	if err != nil {
		return nil, err
	}

	metadata, items, err := p.Run(result.Body)
	if err != nil {
		return nil, err
	}

	return ToGraph(uri, metadata, items), nil
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	if feed.PublishedParsed != nil {
		metadata.FeedPublishedAt = feed.PublishedParsed
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}

	return metadata, items, nil
}

// ToGraph describes a parsed feed as an RSS 1.0 graph: the channel under
// feedURI and one rss:item subject per linked item. Items without a link, or
// repeating an earlier link, are left out.
func ToGraph(feedURI string, metadata *Metadata, items []Item) graph.Index {
	channel := graph.Predicates{
		vocab.RDFType: {graph.URI(vocab.RSSChannel)},
	}
	if metadata != nil {
		addLiteral(channel, vocab.RSSTitle, metadata.Title)
		addLiteral(channel, vocab.RSSDescription, metadata.Description)
		addLiteral(channel, vocab.DC+"language", metadata.Language)
		if metadata.Link != "" {
			channel[vocab.RSSLink] = []graph.Term{graph.Literal(metadata.Link)}
		}
	}

	idx := graph.Index{feedURI: channel}

	for _, item := range items {
		if item.Link == "" || item.Link == feedURI {
			continue
		}
		if _, exists := idx[item.Link]; exists {
			continue
		}

		predicates := graph.Predicates{
			vocab.RDFType: {graph.URI(vocab.RSSItem)},
			vocab.RSSLink: {graph.Literal(item.Link)},
		}
		addLiteral(predicates, vocab.RSSTitle, item.Title)
		addLiteral(predicates, vocab.RSSDescription, item.Description)
		addLiteral(predicates, vocab.ContentEncoded, item.Content)

		if date := itemDate(item); !date.IsZero() {
			predicates[vocab.DCDate] = []graph.Term{graph.Literal(date.UTC().Format(time.RFC3339))}
		}
		for _, author := range item.Authors {
			addLiteral(predicates, vocab.DC+"creator", author)
		}
		for _, category := range item.Categories {
			addLiteral(predicates, vocab.DC+"subject", category)
		}

		idx[item.Link] = predicates
		channel[vocab.RSS+"items"] = append(channel[vocab.RSS+"items"], graph.URI(item.Link))
	}

	return idx
}

func itemDate(item Item) time.Time {
	if !item.PublishedAt.IsZero() {
		return item.PublishedAt
	}
	if item.UpdatedAt != nil {
		return *item.UpdatedAt
	}
	return time.Time{}
}

func addLiteral(p graph.Predicates, predicate, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	p[predicate] = append(p[predicate], graph.Literal(value))
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		GUID:        cmp.Or(item.GUID, item.Link),
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		Content:     item.Content,
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = *item.PublishedParsed
	}

	if item.UpdatedParsed != nil {
		normalized.UpdatedAt = item.UpdatedParsed
	}

	normalized.Authors = p.extractAuthors(item)

	if item.Categories != nil {
		normalized.Categories = item.Categories
	}

	return normalized
}

func (p *Parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				authorStr := p.formatAuthor(author.Name, author.Email)
				if authorStr != "" {
					authors = append(authors, authorStr)
				}
			}
		}
	} else if item.Author != nil {
		authorStr := p.formatAuthor(item.Author.Name, item.Author.Email)
		if authorStr != "" {
			authors = append(authors, authorStr)
		}
	}

	return authors
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	} else if name != "" {
		return name
	} else if email != "" {
		return email
	}

	return ""
}
