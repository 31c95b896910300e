package graph

import "sync"

// Store owns the resource graph of one session. Merges are serialized;
// readers get copies.
type Store struct {
	mu    sync.RWMutex
	index Index
}

func NewStore() *Store {
	return &Store{index: make(Index)}
}

func (s *Store) Merge(incoming Index) []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.MergeIn(incoming)
}

func (s *Store) Lookup(subject, predicate string) []Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Term(nil), s.index.Lookup(subject, predicate)...)
}

func (s *Store) HasSubject(uri string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.HasSubject(uri)
}

func (s *Store) Types(uri string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Types(uri)
}

// Subject returns a copy of the predicates recorded for uri.
func (s *Store) Subject(uri string) Predicates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if predicates, ok := s.index[uri]; ok {
		return predicates.Clone()
	}
	return nil
}

func (s *Store) Snapshot() Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Clone()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}
