package linkeddata

import "sync"

// Budget bounds the crawl of one session. Counters only grow.
type Budget struct {
	mu          sync.Mutex
	levelMax    int
	requestsMax int
	issued      int
	requested   map[string]struct{}
	ignored     map[string]struct{}
}

func newBudget(levelMax, requestsMax int, ignore []string) *Budget {
	b := &Budget{
		levelMax:    max(levelMax, 0),
		requestsMax: max(requestsMax, 0),
		requested:   make(map[string]struct{}),
		ignored:     make(map[string]struct{}),
	}
	for _, uri := range ignore {
		b.ignored[uri] = struct{}{}
	}
	return b
}

// claim records uri as requested. It reports false when uri is ignored or
// was already requested in this session.
func (b *Budget) claim(uri string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.ignored[uri]; ok {
		return false
	}
	if _, ok := b.requested[uri]; ok {
		return false
	}
	b.requested[uri] = struct{}{}
	return true
}

// acquire consumes one request if a view at level may still fetch.
func (b *Budget) acquire(level int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if level >= b.levelMax || b.issued >= b.requestsMax {
		return false
	}
	b.issued++
	return true
}

func (b *Budget) ignore(uris ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, uri := range uris {
		b.ignored[uri] = struct{}{}
	}
}

func (b *Budget) Issued() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issued
}

func (b *Budget) Requested() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requested)
}
