package ottr

import (
	"sort"
	"strings"
)

// Prefixes maps prefix names to namespace IRIs.
type Prefixes map[string]string

// DefaultPrefixes returns the prefixes every rendering starts from.
func DefaultPrefixes() Prefixes {
	return Prefixes{
		"ottr": Namespace,
		"rdf":  RDF,
		"rdfs": RDFS,
		"owl":  OWL,
		"xsd":  XSD,
	}
}

// With returns a copy of p extended with extra. Entries in extra win.
func (p Prefixes) With(extra map[string]string) Prefixes {
	merged := make(Prefixes, len(p)+len(extra))
	for prefix, ns := range p {
		merged[prefix] = ns
	}
	for prefix, ns := range extra {
		merged[prefix] = ns
	}
	return merged
}

// Shorten renders iri as a qname when a namespace matches, else as <iri>.
// The longest matching namespace wins so results are deterministic.
func (p Prefixes) Shorten(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range p {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < best) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return "<" + iri + ">"
	}
	return best + ":" + iri[len(bestNS):]
}

// Expand resolves a qname against p. Unknown prefixes return ok=false.
func (p Prefixes) Expand(qname string) (string, bool) {
	prefix, local, found := strings.Cut(qname, ":")
	if !found {
		return "", false
	}
	ns, ok := p[prefix]
	if !ok {
		return "", false
	}
	return ns + local, true
}

// Names returns the prefix names in sorted order.
func (p Prefixes) Names() []string {
	names := make([]string, 0, len(p))
	for prefix := range p {
		names = append(names, prefix)
	}
	sort.Strings(names)
	return names
}
