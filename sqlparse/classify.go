package sqlparse

import (
	"sort"
	"strings"
)

// AttributeKind is the four-way classification of an extracted projection item.
type AttributeKind string

const (
	// KindClean is a bare column name or AS alias with no SQL residue.
	KindClean AttributeKind = "clean"

	// KindPolluted is a usable attribute name recovered from an item that
	// carried SQL residue (function wrappers, qualified paths, operators).
	KindPolluted AttributeKind = "polluted"

	// KindInvalid is a projection item from which no attribute name could be
	// recovered (string literals, bare expressions, function remnants).
	KindInvalid AttributeKind = "invalid"

	// KindWildcard is a '*' projection.
	KindWildcard AttributeKind = "wildcard"
)

// Attribute is one classified projection item.
type Attribute struct {
	Name string        `json:"name"` // recovered attribute name, or the raw item for invalid results
	Raw  string        `json:"raw"`  // original projection item text
	Kind AttributeKind `json:"kind"`
}

// classifyItem recovers an attribute name from a single projection item and
// classifies the result. Mirrors the legacy extraction order: wildcard, AS
// alias, qualified name, bare identifier.
func classifyItem(item string) Attribute {
	if strings.Contains(item, "*") {
		return Attribute{Name: WildcardMarker, Raw: item, Kind: KindWildcard}
	}

	if m := aliasRe.FindStringSubmatch(item); m != nil {
		// An alias is authoritative. The item is clean when the alias IS the
		// item's expression, polluted when the alias labels an expression.
		kind := KindClean
		if !identRe.MatchString(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(item), m[0]))) {
			kind = KindPolluted
		}
		return Attribute{Name: m[1], Raw: item, Kind: kind}
	}

	if strings.Contains(item, ".") && !functionRemnantRe.MatchString(item) {
		parts := strings.SplitN(item, ".", 2)
		name := strings.TrimSpace(parts[1])
		if identRe.MatchString(name) {
			return Attribute{Name: name, Raw: item, Kind: KindClean}
		}
		// Qualified path with residue: salvage the leading identifier if any
		if salvaged := leadingIdent(name); salvaged != "" {
			return Attribute{Name: salvaged, Raw: item, Kind: KindPolluted}
		}
		return Attribute{Name: item, Raw: item, Kind: KindInvalid}
	}

	if functionRemnantRe.MatchString(item) {
		return Attribute{Name: item, Raw: item, Kind: KindInvalid}
	}

	if identRe.MatchString(item) {
		return Attribute{Name: item, Raw: item, Kind: KindClean}
	}

	// Not an identifier: literals ('-'), expressions (1=0), leftover fragments
	if salvaged := leadingIdent(item); salvaged != "" {
		return Attribute{Name: salvaged, Raw: item, Kind: KindPolluted}
	}
	return Attribute{Name: item, Raw: item, Kind: KindInvalid}
}

// leadingIdent returns the identifier prefix of s, or "".
func leadingIdent(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return ""
	}
	// A bare number is not an attribute name
	ident := s[:end]
	if strings.IndexFunc(ident, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		return ""
	}
	return ident
}

// Classification groups attribute names by kind across one or more extractions.
type Classification struct {
	Clean    []string `json:"valid_attributes"`
	Polluted []string `json:"valid_attributes_with_sql_pollution"`
	Invalid  []string `json:"invalid_parse_results"`
	Wildcard []string `json:"wildcard_selections"`
	Unique   []string `json:"unique_attribute_list"`
}

// kindRank orders kinds so that a name extracted cleanly anywhere outranks a
// polluted or invalid extraction of the same name elsewhere.
var kindRank = map[AttributeKind]int{
	KindClean:    3,
	KindPolluted: 2,
	KindInvalid:  1,
	KindWildcard: 0,
}

// Classify buckets attributes into the four-way classification plus the full
// unique name list. Buckets are disjoint: a name seen with several kinds
// lands in its best-ranked bucket. Sorted sets throughout.
func Classify(attrs []Attribute) Classification {
	best := map[string]AttributeKind{}
	var all []string
	for _, a := range attrs {
		all = append(all, a.Name)
		if prev, ok := best[a.Name]; !ok || kindRank[a.Kind] > kindRank[prev] {
			best[a.Name] = a.Kind
		}
	}

	byKind := map[AttributeKind][]string{}
	for name, kind := range best {
		byKind[kind] = append(byKind[kind], name)
	}

	var c Classification
	c.Clean = sortedSet(byKind[KindClean])
	c.Polluted = sortedSet(byKind[KindPolluted])
	c.Invalid = sortedSet(byKind[KindInvalid])
	c.Wildcard = sortedSet(byKind[KindWildcard])
	c.Unique = sortedSet(all)
	return c
}

// sortedSet returns the sorted unique values of in. Empty input yields an
// empty (non-nil) slice so JSON output stays [] rather than null.
func sortedSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
