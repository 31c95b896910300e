package linkeddata

import (
	"strings"

	"github.com/lysyi3m/foaf-comb/app/vocab"
)

// NoLinkedDataMarker prefixed to a predicate name disables fetching of
// referenced resources that are not already in the graph.
const NoLinkedDataMarker = "_nld_"

// Predicate is a navigation request for one predicate.
type Predicate struct {
	Prefix       string
	Local        string
	IRI          string
	NoLinkedData bool
}

// NewPredicate requests the absolute predicate iri.
func NewPredicate(iri string) Predicate {
	return Predicate{IRI: iri}
}

// Offline returns a copy of p that never triggers linked-data resolution.
func (p Predicate) Offline() Predicate {
	p.NoLinkedData = true
	return p
}

// ParsePredicate reads the underscore naming convention: "name" uses the
// view's default prefix, "foaf_name" is foaf:name and "foaf_based_near"
// keeps everything after the first segment as the local name. "prefix:local"
// and absolute IRIs are accepted as well.
func ParsePredicate(name string) Predicate {
	var p Predicate

	if strings.HasPrefix(name, NoLinkedDataMarker) {
		p.NoLinkedData = true
		name = name[len(NoLinkedDataMarker):]
	}

	if vocab.IsAbsolute(name) {
		p.IRI = name
		return p
	}

	if prefix, local, found := strings.Cut(name, ":"); found {
		p.Prefix, p.Local = prefix, local
		return p
	}

	segments := strings.Split(name, "_")
	if len(segments) == 1 {
		p.Local = name
		return p
	}
	p.Prefix = segments[0]
	p.Local = strings.Join(segments[1:], "_")
	return p
}

// Expand resolves p to an absolute IRI using defaultPrefix when p names no
// prefix of its own.
func (p Predicate) Expand(defaultPrefix string) (string, bool) {
	if p.IRI != "" {
		return p.IRI, true
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	ns, ok := vocab.Namespace(prefix)
	if !ok || p.Local == "" {
		return "", false
	}
	return ns + p.Local, true
}

func (p Predicate) String() string {
	var name string
	switch {
	case p.IRI != "":
		name = p.IRI
	case p.Prefix != "":
		name = p.Prefix + ":" + p.Local
	default:
		name = p.Local
	}
	if p.NoLinkedData {
		return NoLinkedDataMarker + name
	}
	return name
}
