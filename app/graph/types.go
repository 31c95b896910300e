package graph

import "strings"

type Kind string

const (
	KindURI     Kind = "uri"
	KindBlank   Kind = "bnode"
	KindLiteral Kind = "literal"
)

// Term is a single object value of a triple.
type Term struct {
	Kind     Kind   `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

func URI(value string) Term {
	return Term{Kind: KindURI, Value: value}
}

func Blank(id string) Term {
	if !IsBlank(id) {
		id = "_:" + id
	}
	return Term{Kind: KindBlank, Value: id}
}

func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: lang}
}

// IsResource reports whether the term names a node (URI or blank node).
func (t Term) IsResource() bool {
	return t.Kind == KindURI || t.Kind == KindBlank
}

// IsBlank reports whether id is a blank node identifier.
func IsBlank(id string) bool {
	return strings.HasPrefix(id, "_:")
}

// Predicates maps a predicate IRI to its ordered values.
type Predicates map[string][]Term

// Index is a resource graph: subject -> predicate -> values.
type Index map[string]Predicates
