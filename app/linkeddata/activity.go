package linkeddata

import (
	"context"
	"log/slog"
	"sort"

	"github.com/araddon/dateparse"
	"github.com/lysyi3m/foaf-comb/app/cache"
	"github.com/lysyi3m/foaf-comb/app/graph"
	"github.com/lysyi3m/foaf-comb/app/vocab"
	"golang.org/x/sync/errgroup"
)

// RelationKind names one way a profile can point at its feeds.
type RelationKind string

const (
	RelationSeeAlso RelationKind = "seeAlso" // rdfs:seeAlso
	RelationMade    RelationKind = "made"    // foaf:made
	RelationWeblog  RelationKind = "weblog"  // foaf:weblog -> rdfs:seeAlso
	RelationAccount RelationKind = "account" // foaf:holdsAccount -> rdfs:seeAlso
)

const DefaultMaxItems = 50

func DefaultRelationKinds() []RelationKind {
	return []RelationKind{RelationSeeAlso, RelationMade, RelationWeblog, RelationAccount}
}

type FeedItem struct {
	Source      string  `json:"source"`
	PublishedAt int64   `json:"published_at"`
	Link        string  `json:"link"`
	Title       string  `json:"title"`
	Body        *string `json:"body"`
}

// Activity is the merged item stream of every feed found for a resource.
// Feeds maps feed URI to title ("" when unknown); FeedOrder lists the feeds
// in discovery order.
type Activity struct {
	Feeds     map[string]string `json:"feeds"`
	FeedOrder []string          `json:"feed_order"`
	Stream    []FeedItem        `json:"stream"`
}

// ListActivity discovers feeds related to the resource through kinds,
// loads them (cache first) and returns their items newest first, without
// duplicate links and at most maxItems long. Empty kinds and non-positive
// maxItems select the defaults.
func (v *View) ListActivity(ctx context.Context, kinds []RelationKind, maxItems int) Activity {
	if len(kinds) == 0 {
		kinds = DefaultRelationKinds()
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	activity := Activity{Feeds: make(map[string]string)}

	// With DiscoverFeeds, candidates without local types are loaded as feeds
	// and kept when that document types them as a channel. Each such load
	// spends one request of the crawl budget.
	var uris []string
	untyped := make(map[string]bool)
	for _, candidate := range v.activityCandidates(ctx, kinds) {
		if candidate.View == nil || len(candidate.View.Types()) == 0 {
			if candidate.Kind == graph.KindBlank || !v.session.opts.DiscoverFeeds {
				continue
			}
			if !v.session.budget.acquire(v.level) {
				v.session.metrics.denied()
				continue
			}
			untyped[candidate.Value] = true
			uris = append(uris, candidate.Value)
			continue
		}
		if !hasType(candidate.View.Types(), vocab.RSSChannel) {
			continue
		}
		title, _ := candidate.View.Literal(ctx, []string{"rdfs_label", "dc_title"}, nil)
		activity.Feeds[candidate.Value] = title
		uris = append(uris, candidate.Value)
	}

	loaded := v.session.loadFeeds(ctx, uris)

	var documents []graph.Index
	for i, uri := range uris {
		if untyped[uri] {
			if loaded[i] == nil || !hasType(loaded[i].Types(uri), vocab.RSSChannel) {
				continue
			}
			activity.Feeds[uri] = ""
		}
		activity.FeedOrder = append(activity.FeedOrder, uri)
		documents = append(documents, loaded[i])
	}

	seen := make(map[string]bool)
	for i, feedURI := range activity.FeedOrder {
		idx := documents[i]
		if idx == nil {
			continue
		}

		if activity.Feeds[feedURI] == "" {
			activity.Feeds[feedURI] = channelTitle(idx)
		}

		// Subjects are sorted, so equal dates keep a stable order across runs.
		for _, subject := range idx.Subjects() {
			if !hasType(idx.Types(subject), vocab.RSSItem) {
				continue
			}
			link := firstValue(idx, subject, vocab.RSSLink)
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true

			item := FeedItem{
				Source:      feedURI,
				PublishedAt: parseDate(firstValue(idx, subject, vocab.DCDate)),
				Link:        link,
				Title:       firstValue(idx, subject, vocab.RSSTitle),
			}
			if body := firstValue(idx, subject, vocab.ContentEncoded); body != "" {
				item.Body = &body
			}
			activity.Stream = append(activity.Stream, item)
		}
	}

	sort.SliceStable(activity.Stream, func(i, j int) bool {
		return activity.Stream[i].PublishedAt > activity.Stream[j].PublishedAt
	})
	if len(activity.Stream) > maxItems {
		activity.Stream = activity.Stream[:maxItems]
	}

	v.session.extractBodies(ctx, activity.Stream)

	return activity
}

// activityCandidates returns the URI references reachable through kinds,
// deduplicated in order. Bare blank nodes are dropped.
func (v *View) activityCandidates(ctx context.Context, kinds []RelationKind) []Value {
	var candidates []Value
	seen := make(map[string]bool)

	add := func(result Result) {
		for _, value := range result.Values {
			if value.Kind == graph.KindLiteral || seen[value.Value] {
				continue
			}
			if value.View == nil && value.Kind == graph.KindBlank {
				continue
			}
			seen[value.Value] = true
			candidates = append(candidates, value)
		}
	}

	for _, kind := range kinds {
		switch kind {
		case RelationSeeAlso:
			add(v.Get(ctx, NoLinkedDataMarker+"rdfs_seeAlso"))
		case RelationMade:
			add(v.Get(ctx, NoLinkedDataMarker+"foaf_made"))
		case RelationWeblog:
			for _, weblog := range v.Get(ctx, NoLinkedDataMarker+"foaf_weblog").Views() {
				add(weblog.Get(ctx, NoLinkedDataMarker+"rdfs_seeAlso"))
			}
		case RelationAccount:
			for _, account := range v.Get(ctx, NoLinkedDataMarker+"foaf_holdsAccount").Views() {
				add(account.Get(ctx, NoLinkedDataMarker+"rdfs_seeAlso"))
			}
		default:
			slog.Debug("Unknown activity relation", "kind", string(kind))
		}
	}

	return candidates
}

// loadFeeds fetches feed documents concurrently. The result is aligned with
// uris; unavailable feeds are nil.
func (s *Session) loadFeeds(ctx context.Context, uris []string) []graph.Index {
	documents := make([]graph.Index, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FeedConcurrency)
	for i, uri := range uris {
		g.Go(func() error {
			documents[i] = s.loadFeed(gctx, uri)
			return nil
		})
	}
	_ = g.Wait()

	return documents
}

func (s *Session) loadFeed(ctx context.Context, uri string) graph.Index {
	if idx, ok := cache.GetIndex(ctx, s.cache, cache.NamespaceActivityFeed, uri, s.opts.ActivityMaxAge); ok {
		s.metrics.feedFetch("cache")
		return idx
	}

	if s.feeds != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
		idx, err := s.feeds.Parse(fetchCtx, uri)
		cancel()
		if err == nil {
			s.metrics.feedFetch("network")
			cache.PutIndex(ctx, s.cache, cache.NamespaceActivityFeed, uri, idx)
			return idx
		}
		slog.Warn("Activity feed fetch failed", "feed", uri, "error", err)
	}

	if idx, ok := cache.GetIndex(ctx, s.cache, cache.NamespaceActivityFeed, uri, cache.AnyAge); ok {
		s.metrics.feedFetch("stale")
		return idx
	}

	s.metrics.feedFetch("unavailable")
	return nil
}

// extractBodies fills in missing item bodies from the linked pages when a
// content extractor is configured.
func (s *Session) extractBodies(ctx context.Context, items []FeedItem) {
	if s.extractor == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FeedConcurrency)
	for i := range items {
		if items[i].Body != nil {
			continue
		}
		g.Go(func() error {
			extractCtx, cancel := context.WithTimeout(gctx, s.opts.RequestTimeout)
			defer cancel()

			content, err := s.extractor.Extract(extractCtx, items[i].Link)
			if err != nil {
				slog.Debug("Content extraction failed", "link", items[i].Link, "error", err)
				return nil
			}
			items[i].Body = &content
			return nil
		})
	}
	_ = g.Wait()
}

func channelTitle(idx graph.Index) string {
	for _, subject := range idx.Subjects() {
		if hasType(idx.Types(subject), vocab.RSSChannel) {
			if title := firstValue(idx, subject, vocab.RSSTitle); title != "" {
				return title
			}
		}
	}
	return ""
}

func firstValue(idx graph.Index, subject, predicate string) string {
	if values := idx.Lookup(subject, predicate); len(values) > 0 {
		return values[0].Value
	}
	return ""
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func parseDate(value string) int64 {
	if value == "" {
		return 0
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return 0
	}
	return t.Unix()
}
