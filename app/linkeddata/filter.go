package linkeddata

import (
	"context"
	"strings"

	"github.com/lysyi3m/foaf-comb/app/vocab"
)

// FilterByType navigates name and keeps the typed resources selected by
// filters. Filters prefixed with "-" exclude and are applied first. A
// resource then survives when it matches at least one remaining filter, or
// all of them when intersect is set. Without inclusive filters nothing
// survives.
func (v *View) FilterByType(ctx context.Context, name string, filters []string, intersect bool) []*View {
	var include, exclude []string
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if strings.HasPrefix(f, "-") {
			exclude = append(exclude, expandType(f[1:]))
		} else {
			include = append(include, expandType(f))
		}
	}

	var kept []*View
	for _, candidate := range v.Get(ctx, name).Views() {
		types := candidate.Types()
		if len(types) == 0 {
			continue
		}

		typeSet := make(map[string]bool, len(types))
		for _, t := range types {
			typeSet[t] = true
		}

		if matchCount(typeSet, exclude) > 0 {
			continue
		}

		matched := matchCount(typeSet, include)
		if matched == 0 || (intersect && matched < len(include)) {
			continue
		}

		kept = append(kept, candidate)
	}

	return kept
}

func matchCount(types map[string]bool, filters []string) int {
	count := 0
	for _, f := range filters {
		if types[f] {
			count++
		}
	}
	return count
}

func expandType(filter string) string {
	if iri, ok := vocab.Expand(filter); ok {
		return iri
	}
	return filter
}
