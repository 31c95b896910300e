// Package linkeddata navigates RDF resources as if the whole web of linked
// data were already loaded. Missing fragments are fetched on demand, merged
// into one graph per session and bounded by a crawl budget.
package linkeddata

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/foaf-comb/app/cache"
	"github.com/lysyi3m/foaf-comb/app/graph"
)

const (
	DefaultLevelMax        = 1
	DefaultRequestsMax     = 50
	DefaultRequestTimeout  = 3 * time.Second
	DefaultResourceMaxAge  = 24 * time.Hour
	DefaultActivityMaxAge  = time.Hour
	DefaultFeedConcurrency = 4
)

type Options struct {
	LevelMax        int
	RequestsMax     int
	RequestTimeout  time.Duration
	ResourceMaxAge  time.Duration // freshness horizon for ResourceData and ResourceDataAbsolute
	ActivityMaxAge  time.Duration // freshness horizon for ActivityFeed
	FeedConcurrency int
	DiscoverFeeds   bool // load activity candidates without local types to confirm them
	Ignore          []string
}

func DefaultOptions() Options {
	return Options{
		LevelMax:        DefaultLevelMax,
		RequestsMax:     DefaultRequestsMax,
		RequestTimeout:  DefaultRequestTimeout,
		ResourceMaxAge:  DefaultResourceMaxAge,
		ActivityMaxAge:  DefaultActivityMaxAge,
		FeedConcurrency: DefaultFeedConcurrency,
	}
}

// Dependencies are the collaborators a session talks to. Parser is required
// for any network access; the rest are optional.
type Dependencies struct {
	Parser    Parser
	Feeds     Parser
	Cache     cache.Gateway
	Extractor ContentExtractor
	Metrics   *Metrics
}

// Session owns the resource graph and the crawl budget shared by every view
// created from it.
type Session struct {
	opts      Options
	store     *graph.Store
	budget    *Budget
	parser    Parser
	feeds     Parser
	cache     cache.Gateway
	extractor ContentExtractor
	metrics   *Metrics
}

type Stats struct {
	LevelMax       int `json:"level_max"`
	RequestsMax    int `json:"requests_max"`
	RequestsIssued int `json:"requests_issued"`
	Requested      int `json:"requested"`
	Resources      int `json:"resources"`
}

func NewSession(opts Options, deps Dependencies) *Session {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ResourceMaxAge <= 0 {
		opts.ResourceMaxAge = DefaultResourceMaxAge
	}
	if opts.ActivityMaxAge <= 0 {
		opts.ActivityMaxAge = DefaultActivityMaxAge
	}
	if opts.FeedConcurrency <= 0 {
		opts.FeedConcurrency = DefaultFeedConcurrency
	}

	gw := deps.Cache
	if gw == nil {
		gw = cache.Disabled{}
	}
	feeds := deps.Feeds
	if feeds == nil {
		feeds = deps.Parser
	}

	return &Session{
		opts:      opts,
		store:     graph.NewStore(),
		budget:    newBudget(opts.LevelMax, opts.RequestsMax, opts.Ignore),
		parser:    deps.Parser,
		feeds:     feeds,
		cache:     gw,
		extractor: deps.Extractor,
		metrics:   deps.Metrics,
	}
}

// Seed merges caller-supplied data into the graph without touching the
// budget.
func (s *Session) Seed(idx graph.Index) {
	s.merge(idx)
}

// Ignore excludes uris from resolution for the rest of the session.
func (s *Session) Ignore(uris ...string) {
	s.budget.ignore(uris...)
}

// Root binds a level-0 view to uri. When the graph holds no data for uri
// yet, it is loaded through the resolver. owl:sameAs aliases of the root are
// merged in once, here.
func (s *Session) Root(ctx context.Context, uri string) *View {
	if !s.store.HasSubject(uri) {
		s.resolve(ctx, uri, "", 0, "")
	}

	root := s.view(uri, 0, "")
	root.includeEquivalents(ctx, "")
	return root
}

// View binds a view to uri at level without any fetch.
func (s *Session) View(uri string, level int) *View {
	return s.view(uri, level, "")
}

func (s *Session) Stats() Stats {
	return Stats{
		LevelMax:       s.budget.levelMax,
		RequestsMax:    s.budget.requestsMax,
		RequestsIssued: s.budget.Issued(),
		Requested:      s.budget.Requested(),
		Resources:      s.store.Len(),
	}
}

// Graph returns a copy of the session graph.
func (s *Session) Graph() graph.Index {
	return s.store.Snapshot()
}

func (s *Session) merge(idx graph.Index) {
	for _, warning := range s.store.Merge(idx) {
		slog.Warn("Dropped malformed predicate", "error", warning)
	}
}
