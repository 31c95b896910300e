// Package vocab holds the namespace prefixes and IRIs the resolver and the
// activity aggregator understand. Every vocabulary literal used elsewhere in
// the module is declared here.
package vocab

import (
	"sort"
	"strings"
)

// Namespaces.
const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	OWL     = "http://www.w3.org/2002/07/owl#"
	XSD     = "http://www.w3.org/2001/XMLSchema#"
	FOAF    = "http://xmlns.com/foaf/0.1/"
	DC      = "http://purl.org/dc/elements/1.1/"
	DCTerms = "http://purl.org/dc/terms/"
	RSS     = "http://purl.org/rss/1.0/"
	Content = "http://purl.org/rss/1.0/modules/content/"
	SIOC    = "http://rdfs.org/sioc/ns#"
	SKOS    = "http://www.w3.org/2004/02/skos/core#"
	Geo     = "http://www.w3.org/2003/01/geo/wgs84_pos#"
	Bio     = "http://purl.org/vocab/bio/0.1/"
	Rel     = "http://purl.org/vocab/relationship/"
	DOAP    = "http://usefulinc.com/ns/doap#"
	VCard   = "http://www.w3.org/2006/vcard/ns#"
	Admin   = "http://webns.net/mvcb/"
)

// Core RDF, RDFS and OWL terms.
const (
	RDFType     = RDF + "type"
	RDFSLabel   = RDFS + "label"
	RDFSSeeAlso = RDFS + "seeAlso"
	OWLSameAs   = OWL + "sameAs"
)

// FOAF terms used by navigation and activity discovery.
const (
	FOAFName         = FOAF + "name"
	FOAFNick         = FOAF + "nick"
	FOAFKnows        = FOAF + "knows"
	FOAFPerson       = FOAF + "Person"
	FOAFOrganization = FOAF + "Organization"
	FOAFDocument     = FOAF + "Document"
	FOAFMade         = FOAF + "made"
	FOAFWeblog       = FOAF + "weblog"
	FOAFHoldsAccount = FOAF + "holdsAccount"
	FOAFDepiction    = FOAF + "depiction"
	FOAFImg          = FOAF + "img"
	FOAFThumbnail    = FOAF + "thumbnail"
)

// Dublin Core and RSS 1.0 terms used when reading feeds.
const (
	DCTitle        = DC + "title"
	DCDate         = DC + "date"
	DCDescription  = DC + "description"
	RSSChannel     = RSS + "channel"
	RSSItem        = RSS + "item"
	RSSTitle       = RSS + "title"
	RSSLink        = RSS + "link"
	RSSDescription = RSS + "description"
	ContentEncoded = Content + "encoded"
)

// DefaultPrefix is used for single-segment predicate names when a resource
// carries no typed namespace.
const DefaultPrefix = "foaf"

var prefixes = map[string]string{
	"rdf":     RDF,
	"rdfs":    RDFS,
	"owl":     OWL,
	"xsd":     XSD,
	"foaf":    FOAF,
	"dc":      DC,
	"dcterms": DCTerms,
	"rss":     RSS,
	"content": Content,
	"sioc":    SIOC,
	"skos":    SKOS,
	"geo":     Geo,
	"bio":     Bio,
	"rel":     Rel,
	"doap":    DOAP,
	"vcard":   VCard,
	"admin":   Admin,
}

// Namespace returns the namespace IRI bound to prefix.
func Namespace(prefix string) (string, bool) {
	ns, ok := prefixes[prefix]
	return ns, ok
}

// Prefixes returns a copy of the prefix table.
func Prefixes() map[string]string {
	out := make(map[string]string, len(prefixes))
	for k, v := range prefixes {
		out[k] = v
	}
	return out
}

// PrefixFor returns the prefix bound to the namespace IRI ns.
func PrefixFor(ns string) (string, bool) {
	for prefix, iri := range prefixes {
		if iri == ns {
			return prefix, true
		}
	}
	return "", false
}

// Expand turns "prefix:local" into a full IRI. Absolute IRIs are returned
// unchanged. ok is false when the prefix is unknown.
func Expand(qname string) (string, bool) {
	if IsAbsolute(qname) {
		return qname, true
	}
	prefix, local, found := strings.Cut(qname, ":")
	if !found {
		return "", false
	}
	ns, ok := prefixes[prefix]
	if !ok {
		return "", false
	}
	return ns + local, true
}

// Compact splits iri into a known prefix and its local name. The longest
// matching namespace wins.
func Compact(iri string) (prefix, local string, ok bool) {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return len(prefixes[keys[i]]) > len(prefixes[keys[j]])
	})
	for _, k := range keys {
		if ns := prefixes[k]; strings.HasPrefix(iri, ns) {
			return k, iri[len(ns):], true
		}
	}
	return "", "", false
}

// SplitNamespace separates iri at its last '#' or '/', returning the
// namespace part including the delimiter.
func SplitNamespace(iri string) (ns, local string) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 || i == len(iri)-1 {
		return iri, ""
	}
	return iri[:i+1], iri[i+1:]
}

// IsAbsolute reports whether s carries a URI scheme.
func IsAbsolute(s string) bool {
	i := strings.Index(s, ":")
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	if _, known := prefixes[s[:i]]; known {
		return false
	}
	return s[:i] != "_"
}
