package linkeddata

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lysyi3m/foaf-comb/app/cache"
	"github.com/lysyi3m/foaf-comb/app/graph"
)

var errEmptyDocument = errors.New("document holds no triples")

type fragmentSource int

const (
	fromExactCache fragmentSource = iota
	fromAbsoluteCache
	fromNetwork
	fromStaleCache
)

// resolve expands uri into a view by consulting, in order, the exact-URI
// cache, the document cache, the network (within budget) and finally stale
// document data. It reports false when uri must stay a bare reference.
//
// With an alias the fetched data is recorded under the alias and the
// returned view is bound to it at the caller's level; otherwise the view is
// bound to uri one level deeper. The view starts from the caller's prefix.
func (s *Session) resolve(ctx context.Context, uri, alias string, level int, prefix string) (*View, bool) {
	if graph.IsBlank(uri) || !s.budget.claim(uri) {
		return nil, false
	}

	fragment, source, ok := s.fragment(ctx, uri, level)
	if !ok || !fragment.HasSubject(uri) {
		slog.Debug("Linked data unavailable", "uri", uri, "level", level)
		return nil, false
	}

	slice := fragment
	if source != fromExactCache {
		slice = fragment.Slice(uri)
		cache.PutIndex(ctx, s.cache, cache.NamespaceResourceData, uri, slice)
	}

	if alias != "" {
		slice = slice.Clone()
		slice.Rekey(uri, alias)
	}
	s.merge(slice)

	if alias != "" {
		slog.Debug("Linked data merged as alias", "uri", uri, "alias", alias)
		return s.view(alias, level, prefix), true
	}
	return s.view(uri, level+1, prefix), true
}

func (s *Session) fragment(ctx context.Context, uri string, level int) (graph.Index, fragmentSource, bool) {
	if idx, ok := cache.GetIndex(ctx, s.cache, cache.NamespaceResourceData, uri, s.opts.ResourceMaxAge); ok {
		s.metrics.cacheLookup(cache.NamespaceResourceData, true)
		return idx, fromExactCache, true
	}
	s.metrics.cacheLookup(cache.NamespaceResourceData, false)

	document := stripFragment(uri)

	if idx, ok := cache.GetIndex(ctx, s.cache, cache.NamespaceResourceDataAbsolute, document, s.opts.ResourceMaxAge); ok {
		s.metrics.cacheLookup(cache.NamespaceResourceDataAbsolute, true)
		return idx, fromAbsoluteCache, true
	}
	s.metrics.cacheLookup(cache.NamespaceResourceDataAbsolute, false)

	if s.parser != nil {
		if s.budget.acquire(level) {
			idx, err := s.fetch(ctx, document)
			if err == nil && len(idx) == 0 {
				err = errEmptyDocument
			}
			if err == nil {
				s.metrics.fetch("success")
				cache.PutIndex(ctx, s.cache, cache.NamespaceResourceDataAbsolute, document, idx)
				return idx, fromNetwork, true
			}
			s.metrics.fetch("failure")
			slog.Warn("Linked data fetch failed", "uri", document, "level", level, "error", err)
		} else {
			s.metrics.denied()
			slog.Debug("Crawl budget exhausted", "uri", document, "level", level)
		}
	}

	if idx, ok := cache.GetIndex(ctx, s.cache, cache.NamespaceResourceDataAbsolute, document, cache.AnyAge); ok {
		s.metrics.staleFallback()
		slog.Debug("Serving stale linked data", "uri", document)
		return idx, fromStaleCache, true
	}

	return nil, 0, false
}

func (s *Session) fetch(ctx context.Context, uri string) (graph.Index, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	slog.Debug("Fetching linked data", "uri", uri)
	return s.parser.Parse(fetchCtx, uri)
}

func stripFragment(uri string) string {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i]
	}
	return uri
}
