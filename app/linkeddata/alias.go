package linkeddata

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/foaf-comb/app/vocab"
)

// includeEquivalents merges the data of every owl:sameAs reference into the
// subject (or into alias when given). Only references not yet in the graph
// are fetched.
func (v *View) includeEquivalents(ctx context.Context, alias string) {
	if alias == "" {
		alias = v.uri
	}

	sameAs := v.GetPredicate(ctx, NewPredicate(vocab.OWLSameAs).Offline())
	for _, value := range sameAs.Values {
		if value.IsView() {
			continue
		}
		if _, ok := v.session.resolve(ctx, value.Value, alias, v.level, v.prefix); ok {
			slog.Debug("Merged equivalent resource", "uri", value.Value, "alias", alias)
		}
	}

	v.updateNamespacePrefix()
}
