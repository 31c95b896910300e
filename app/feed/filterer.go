package feed

import (
	"log/slog"
	"strings"

	"github.com/lysyi3m/foaf-comb/app/linkeddata"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the items that pass every filter, in their original order.
func (f *Filterer) Run(items []linkeddata.FeedItem, filters []Filter) []linkeddata.FeedItem {
	if len(filters) == 0 {
		return items
	}

	kept := make([]linkeddata.FeedItem, 0, len(items))
	for _, item := range items {
		if reason, dropped := f.applyFilters(item, filters); dropped {
			slog.Debug("Activity item filtered", "link", item.Link, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

func (f *Filterer) applyFilters(item linkeddata.FeedItem, filters []Filter) (string, bool) {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return "excluded by " + filter.Field + " filter: contains '" + exclude + "'", true
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return "excluded by " + filter.Field + " filter: no include matched", true
			}
		}
	}

	return "", false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item linkeddata.FeedItem, field string) string {
	switch field {
	case "title":
		return item.Title
	case "link":
		return item.Link
	case "body":
		if item.Body != nil {
			return *item.Body
		}
		return ""
	case "source":
		return item.Source
	default:
		return ""
	}
}
