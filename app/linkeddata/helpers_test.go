package linkeddata

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lysyi3m/foaf-comb/app/graph"
	"github.com/lysyi3m/foaf-comb/app/vocab"
)

var errNotFound = errors.New("document not found")

type fakeParser struct {
	mu    sync.Mutex
	docs  map[string]graph.Index
	calls []string
}

func newFakeParser(docs map[string]graph.Index) *fakeParser {
	if docs == nil {
		docs = make(map[string]graph.Index)
	}
	return &fakeParser{docs: docs}
}

func (p *fakeParser) Parse(_ context.Context, uri string) (graph.Index, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, uri)
	doc, ok := p.docs[uri]
	if !ok {
		return nil, errNotFound
	}
	return doc.Clone(), nil
}

func (p *fakeParser) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakeParser) CallCount(uri string) int {
	count := 0
	for _, c := range p.Calls() {
		if c == uri {
			count++
		}
	}
	return count
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func person(uri, name string, extra ...func(graph.Predicates)) graph.Index {
	predicates := graph.Predicates{
		vocab.RDFType:  {graph.URI(vocab.FOAFPerson)},
		vocab.FOAFName: {graph.Literal(name)},
	}
	for _, fn := range extra {
		fn(predicates)
	}
	return graph.Index{uri: predicates}
}

func knows(uris ...string) func(graph.Predicates) {
	return func(p graph.Predicates) {
		for _, uri := range uris {
			p[vocab.FOAFKnows] = append(p[vocab.FOAFKnows], graph.URI(uri))
		}
	}
}

func link(predicate string, uris ...string) func(graph.Predicates) {
	return func(p graph.Predicates) {
		for _, uri := range uris {
			p[predicate] = append(p[predicate], graph.URI(uri))
		}
	}
}
