package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lysyi3m/foaf-comb/app/vocab"
)

var ErrMalformedPredicate = errors.New("malformed predicate")

// Merge returns a new index holding existing followed by incoming. Values are
// appended per (subject, predicate) without deduplication. Predicates that
// are not absolute identifiers are dropped and reported.
func Merge(existing, incoming Index) (Index, []error) {
	out := existing.Clone()
	warnings := out.MergeIn(incoming)
	return out, warnings
}

// MergeIn merges incoming into idx in place.
func (idx Index) MergeIn(incoming Index) []error {
	var warnings []error

	for _, subject := range incoming.Subjects() {
		predicates := incoming[subject]

		keys := make([]string, 0, len(predicates))
		for p := range predicates {
			keys = append(keys, p)
		}
		sort.Strings(keys)

		for _, p := range keys {
			if !vocab.IsAbsolute(p) {
				warnings = append(warnings, fmt.Errorf("%w: subject %s predicate %q", ErrMalformedPredicate, subject, p))
				continue
			}
			values := predicates[p]
			if len(values) == 0 {
				continue
			}
			current, ok := idx[subject]
			if !ok {
				current = make(Predicates)
				idx[subject] = current
			}
			merged := make([]Term, 0, len(current[p])+len(values))
			merged = append(merged, current[p]...)
			merged = append(merged, values...)
			current[p] = merged
		}
	}

	return warnings
}

func (idx Index) Clone() Index {
	out := make(Index, len(idx))
	for subject, predicates := range idx {
		out[subject] = predicates.Clone()
	}
	return out
}

func (p Predicates) Clone() Predicates {
	out := make(Predicates, len(p))
	for k, v := range p {
		out[k] = append([]Term(nil), v...)
	}
	return out
}

// Lookup returns the values of (subject, predicate), or nil when absent.
func (idx Index) Lookup(subject, predicate string) []Term {
	if predicates, ok := idx[subject]; ok {
		return predicates[predicate]
	}
	return nil
}

func (idx Index) HasSubject(uri string) bool {
	return len(idx[uri]) > 0
}

// Subjects returns the subject keys in sorted order.
func (idx Index) Subjects() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Types returns the rdf:type IRIs recorded for uri, in insertion order.
func (idx Index) Types(uri string) []string {
	var types []string
	for _, t := range idx.Lookup(uri, vocab.RDFType) {
		if t.Kind == KindURI {
			types = append(types, t.Value)
		}
	}
	return types
}

// Slice returns the entry for uri together with every blank node reachable
// from it. The result shares no slices with idx.
func (idx Index) Slice(uri string) Index {
	out := make(Index)
	if !idx.HasSubject(uri) {
		return out
	}

	queue := []string{uri}
	for len(queue) > 0 {
		subject := queue[0]
		queue = queue[1:]
		if _, seen := out[subject]; seen {
			continue
		}
		predicates, ok := idx[subject]
		if !ok {
			continue
		}
		out[subject] = predicates.Clone()
		for _, values := range predicates {
			for _, v := range values {
				if v.Kind == KindBlank {
					queue = append(queue, v.Value)
				}
			}
		}
	}

	return out
}

// Rekey moves the entry stored under from to to, merging with any entry
// already present under to.
func (idx Index) Rekey(from, to string) {
	if from == to {
		return
	}
	predicates, ok := idx[from]
	if !ok {
		return
	}
	delete(idx, from)
	idx.MergeIn(Index{to: predicates})
}
