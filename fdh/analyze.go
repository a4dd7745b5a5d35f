package fdh

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/queryscope/logger"
)

// AttributeRecord describes one (name, type) attribute across the schema.
type AttributeRecord struct {
	Name              string
	Type              string
	Unique            bool     // declared by exactly one event type
	FoundInEventTypes []string // sorted owning event types
}

// Instances is the number of event types declaring this attribute.
func (r AttributeRecord) Instances() int {
	return len(r.FoundInEventTypes)
}

// Analysis is the result of scanning a schema.
type Analysis struct {
	EventTypes      []string                     // declaration order
	AttributeCounts map[string]int               // event type -> attribute count
	Attributes      []AttributeRecord            // sorted by name, then type
	Raw             map[string]map[string]string // event type -> attribute name -> type
}

// Analyze classifies every attribute in the schema as unique or shared.
func Analyze(schema *Schema) *Analysis {
	a := &Analysis{
		AttributeCounts: make(map[string]int),
		Raw:             make(map[string]map[string]string),
	}

	// attribute key -> set of owning event types
	owners := make(map[string]map[string]struct{})

	for _, view := range schema.Views {
		a.EventTypes = append(a.EventTypes, view.ViewName)
		raw := make(map[string]string, len(view.Columns))

		seen := make(map[string]struct{}, len(view.Columns))
		for _, col := range view.Columns {
			raw[col.Name] = col.Type

			key := attrKey(col.Name, col.Type)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if owners[key] == nil {
				owners[key] = make(map[string]struct{})
			}
			owners[key][view.ViewName] = struct{}{}
		}

		a.AttributeCounts[view.ViewName] = len(seen)
		a.Raw[view.ViewName] = raw
	}

	for key, views := range owners {
		name, typ := splitAttrKey(key)
		record := AttributeRecord{
			Name:              name,
			Type:              typ,
			Unique:            len(views) == 1,
			FoundInEventTypes: sortedKeys(views),
		}
		a.Attributes = append(a.Attributes, record)
	}

	sort.Slice(a.Attributes, func(i, j int) bool {
		if a.Attributes[i].Name != a.Attributes[j].Name {
			return a.Attributes[i].Name < a.Attributes[j].Name
		}
		return a.Attributes[i].Type < a.Attributes[j].Type
	})

	logger.FDHDebugw("Schema analyzed",
		logger.FieldEventTypes, len(a.EventTypes),
		logger.FieldAttributes, len(a.Attributes),
	)

	return a
}

// UniqueCount returns how many attributes are unique to one event type.
func (a *Analysis) UniqueCount() int {
	n := 0
	for _, r := range a.Attributes {
		if r.Unique {
			n++
		}
	}
	return n
}

// DuplicateCount returns how many attributes are shared across event types.
func (a *Analysis) DuplicateCount() int {
	return len(a.Attributes) - a.UniqueCount()
}

// uniqueLegacyRows renders unique attributes in the legacy aggregate form
// "eventType:name:type", ordered by event type then attribute.
func (a *Analysis) uniqueLegacyRows() []string {
	var rows []string
	for _, r := range a.Attributes {
		if r.Unique {
			rows = append(rows, fmt.Sprintf("%s:%s:%s", r.FoundInEventTypes[0], r.Name, r.Type))
		}
	}
	sort.Strings(rows)
	return rows
}

// duplicateLegacyRows renders shared attributes in the legacy aggregate form
// "name:type:[a, b]", sorted.
func (a *Analysis) duplicateLegacyRows() []string {
	var rows []string
	for _, r := range a.Attributes {
		if !r.Unique {
			rows = append(rows, fmt.Sprintf("%s:%s:[%s]", r.Name, r.Type, strings.Join(r.FoundInEventTypes, ", ")))
		}
	}
	sort.Strings(rows)
	return rows
}

func attrKey(name, typ string) string {
	return name + ":" + typ
}

func splitAttrKey(key string) (name, typ string) {
	idx := strings.LastIndex(key, ":")
	return key[:idx], key[idx+1:]
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
