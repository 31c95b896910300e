package parser

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/knakk/rdf"
	"github.com/lysyi3m/foaf-comb/app/graph"
	"github.com/lysyi3m/foaf-comb/app/vocab"
)

// AcceptRDF is sent when dereferencing linked-data URIs.
const AcceptRDF = "application/rdf+xml, text/turtle;q=0.9, application/n-triples;q=0.8, application/xml;q=0.5, */*;q=0.1"

var ErrUnsupportedFormat = errors.New("unsupported RDF serialization")

// RDFParser dereferences a URI and decodes the RDF document behind it.
type RDFParser struct {
	fetcher *Fetcher
}

func NewRDFParser(fetcher *Fetcher) *RDFParser {
	return &RDFParser{fetcher: fetcher}
}

func (p *RDFParser) Parse(ctx context.Context, uri string) (graph.Index, error) {
	result, err := p.fetcher.Fetch(ctx, uri, AcceptRDF)
	if err != nil {
		return nil, err
	}

	format, err := DetectFormat(result.ContentType, uri)
	if err != nil {
		return nil, err
	}

	idx, err := Decode(bytes.NewReader(result.Body), format, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", uri, err)
	}

	return idx, nil
}

// DetectFormat picks a serialization from the response media type, falling
// back to the document extension.
func DetectFormat(contentType, uri string) (rdf.Format, error) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "application/rdf+xml", "application/xml", "text/xml":
			return rdf.RDFXML, nil
		case "text/turtle", "application/x-turtle", "text/n3", "text/rdf+n3":
			return rdf.Turtle, nil
		case "application/n-triples", "text/plain":
			return rdf.NTriples, nil
		}
	}

	documentPath := uri
	if i := strings.IndexAny(documentPath, "?#"); i >= 0 {
		documentPath = documentPath[:i]
	}
	switch strings.ToLower(path.Ext(documentPath)) {
	case ".rdf", ".owl", ".xml", ".foaf":
		return rdf.RDFXML, nil
	case ".ttl", ".n3":
		return rdf.Turtle, nil
	case ".nt":
		return rdf.NTriples, nil
	}

	var unknown rdf.Format
	return unknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, contentType)
}

// Decode reads every triple from r into an index, preserving document order
// per (subject, predicate). Blank node labels are scoped to documentURI so
// that fragments from different documents never collide on merge.
func Decode(r io.Reader, format rdf.Format, documentURI string) (graph.Index, error) {
	dec := rdf.NewTripleDecoder(r, format)
	scope := blankScope(documentURI)
	idx := make(graph.Index)

	for {
		triple, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		subject, ok := subjectKey(triple.Subj, scope)
		if !ok {
			continue
		}
		object, ok := objectTerm(triple.Obj, scope)
		if !ok {
			continue
		}

		predicates, exists := idx[subject]
		if !exists {
			predicates = make(graph.Predicates)
			idx[subject] = predicates
		}
		predicate := triple.Pred.String()
		predicates[predicate] = append(predicates[predicate], object)
	}

	return idx, nil
}

func subjectKey(term rdf.Subject, scope string) (string, bool) {
	switch s := term.(type) {
	case rdf.IRI:
		return s.String(), true
	case rdf.Blank:
		return scopedBlank(s, scope), true
	}
	return "", false
}

func objectTerm(term rdf.Object, scope string) (graph.Term, bool) {
	switch o := term.(type) {
	case rdf.IRI:
		return graph.URI(o.String()), true
	case rdf.Blank:
		return graph.Term{Kind: graph.KindBlank, Value: scopedBlank(o, scope)}, true
	case rdf.Literal:
		t := graph.Term{Kind: graph.KindLiteral, Value: o.String(), Lang: o.Lang()}
		if datatype := o.DataType.String(); datatype != "" && o.Lang() == "" && datatype != vocab.XSD+"string" {
			t.Datatype = datatype
		}
		return t, true
	}
	return graph.Term{}, false
}

func scopedBlank(b rdf.Blank, scope string) string {
	return "_:" + scope + "_" + strings.TrimPrefix(b.String(), "_:")
}

func blankScope(documentURI string) string {
	sum := sha256.Sum256([]byte(documentURI))
	return "b" + hex.EncodeToString(sum[:4])
}
