package linkeddata

import (
	"context"

	"github.com/lysyi3m/foaf-comb/app/graph"
	"github.com/lysyi3m/foaf-comb/app/vocab"
)

// View is a cursor onto one subject of the session graph. Views are cheap;
// all of them share the session's graph and budget.
type View struct {
	session *Session
	uri     string
	prefix  string
	level   int
}

// Value is one navigated object: a literal, a bare reference, or a
// reference backed by graph data (View set).
type Value struct {
	Kind  graph.Kind `json:"type"`
	Value string     `json:"value"`
	Lang  string     `json:"lang,omitempty"`
	View  *View      `json:"-"`
}

func (v Value) IsView() bool {
	return v.View != nil
}

// String returns the literal value, or the URI of a reference.
func (v Value) String() string {
	if v.View != nil {
		return v.View.uri
	}
	return v.Value
}

// Result keeps values in graph order. Language-tagged literals are also
// indexed under their tag.
type Result struct {
	Values []Value
	Lang   map[string][]Value
}

func (r Result) Len() int {
	return len(r.Values)
}

func (r Result) Empty() bool {
	return len(r.Values) == 0
}

func (r Result) First() (Value, bool) {
	if len(r.Values) == 0 {
		return Value{}, false
	}
	return r.Values[0], true
}

func (r Result) Views() []*View {
	var views []*View
	for _, v := range r.Values {
		if v.View != nil {
			views = append(views, v.View)
		}
	}
	return views
}

func (r Result) Strings() []string {
	out := make([]string, 0, len(r.Values))
	for _, v := range r.Values {
		out = append(out, v.String())
	}
	return out
}

func (r *Result) add(v Value) {
	r.Values = append(r.Values, v)
	if v.Kind == graph.KindLiteral && v.Lang != "" {
		if r.Lang == nil {
			r.Lang = make(map[string][]Value)
		}
		r.Lang[v.Lang] = append(r.Lang[v.Lang], v)
	}
}

// view binds uri at level. The prefix is inherited from the view that
// reached uri ("" for the default) until the subject's own type names one.
func (s *Session) view(uri string, level int, prefix string) *View {
	if prefix == "" {
		prefix = vocab.DefaultPrefix
	}
	v := &View{
		session: s,
		uri:     uri,
		prefix:  prefix,
		level:   level,
	}
	v.updateNamespacePrefix()
	return v
}

func (v *View) URI() string {
	return v.uri
}

func (v *View) Level() int {
	return v.level
}

// Prefix is the namespace prefix used for unqualified predicate names.
func (v *View) Prefix() string {
	return v.prefix
}

func (v *View) Session() *Session {
	return v.session
}

func (v *View) String() string {
	return v.uri
}

// Types returns the subject's rdf:type IRIs.
func (v *View) Types() []string {
	return v.session.store.Types(v.uri)
}

// Data returns a copy of every predicate recorded for the subject.
func (v *View) Data() graph.Predicates {
	return v.session.store.Subject(v.uri)
}

// Concept returns the local name of the subject's first rdf:type.
func (v *View) Concept() string {
	types := v.Types()
	if len(types) == 0 {
		return ""
	}
	_, local := vocab.SplitNamespace(types[0])
	return local
}

// updateNamespacePrefix adopts the prefix of the first rdf:type's namespace
// as the default for unqualified predicate names.
func (v *View) updateNamespacePrefix() {
	types := v.Types()
	if len(types) == 0 {
		return
	}
	ns, _ := vocab.SplitNamespace(types[0])
	if prefix, ok := vocab.PrefixFor(ns); ok {
		v.prefix = prefix
	}
}

// Get navigates the predicate named by name (see ParsePredicate).
func (v *View) Get(ctx context.Context, name string) Result {
	return v.GetPredicate(ctx, ParsePredicate(name))
}

// GetPredicate returns the objects of p for this subject. References with
// graph data become views at the current level; other references are
// resolved through linked data unless p is offline, and stay bare strings
// when they cannot be expanded.
func (v *View) GetPredicate(ctx context.Context, p Predicate) Result {
	var result Result

	iri, ok := p.Expand(v.prefix)
	if !ok {
		return result
	}

	for _, term := range v.session.store.Lookup(v.uri, iri) {
		value := Value{Kind: term.Kind, Value: term.Value, Lang: term.Lang}

		if term.IsResource() {
			if v.session.store.HasSubject(term.Value) {
				value.View = v.session.view(term.Value, v.level, v.prefix)
			} else if !p.NoLinkedData {
				if child, ok := v.session.resolve(ctx, term.Value, "", v.level, v.prefix); ok {
					value.View = child
				}
			}
		}

		result.add(value)
	}

	return result
}
