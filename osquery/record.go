// Package osquery ingests case-management CSV exports whose Query column
// embeds an osquery execution payload as JSON, and summarizes query, table,
// case, and customer activity across the dataset.
package osquery

import (
	"encoding/json"
	"strings"

	"github.com/teranos/queryscope/errors"
)

// Legacy placeholder values emitted when a payload field is missing or the
// payload itself cannot be decoded. Downstream consumers match on these.
const (
	UnnamedQuery    = "Unnamed"
	NoCommand       = "SQL statement not available"
	NoPrincipalType = "Type not available"
	NoQueryID       = "ID not available"
	NoQueryType     = "Type not available"
	NoCategories    = "Categories not available"
)

// Category is one entry of the payload's categories list.
type Category struct {
	Name string `json:"name"`
}

// QueryPayload is the JSON document embedded in the Query CSV column.
type QueryPayload struct {
	Name          string     `json:"name"`
	Command       string     `json:"command"`
	PrincipalType string     `json:"principalType"`
	QueryID       string     `json:"queryId"`
	QueryType     string     `json:"queryType"`
	Categories    []Category `json:"categories"`
}

// Record is one row of the combined case/query export. Payload is nil when
// the Query cell was empty or carried invalid JSON; such records still count
// toward dataset statistics but are excluded from query summaries.
type Record struct {
	Query         string // raw Query cell text
	PossibleCases string
	CustomerID    string
	Region        string

	Payload *QueryPayload
}

// decodePayload parses the Query cell. Empty cells and invalid JSON are
// malformed-query errors so callers can count and continue.
func decodePayload(raw string) (*QueryPayload, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrap(errors.ErrMalformedQuery, "empty Query cell")
	}
	var p QueryPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, errors.WrapMalformedQuery(err, "decode Query cell")
	}
	return &p, nil
}

// Name returns the payload query name, or the legacy placeholder.
func (r *Record) Name() string {
	if r.Payload == nil || r.Payload.Name == "" {
		return UnnamedQuery
	}
	return r.Payload.Name
}

// Command returns the payload SQL text with escaped newlines restored, or
// the legacy placeholder.
func (r *Record) Command() string {
	if r.Payload == nil || r.Payload.Command == "" {
		return NoCommand
	}
	return strings.ReplaceAll(r.Payload.Command, `\n`, "\n")
}

// PrincipalType returns the payload principal type, or the legacy placeholder.
func (r *Record) PrincipalType() string {
	if r.Payload == nil || r.Payload.PrincipalType == "" {
		return NoPrincipalType
	}
	return r.Payload.PrincipalType
}

// QueryID returns the payload query id, or the legacy placeholder.
func (r *Record) QueryID() string {
	if r.Payload == nil || r.Payload.QueryID == "" {
		return NoQueryID
	}
	return r.Payload.QueryID
}

// QueryType returns the payload query type, or the legacy placeholder.
func (r *Record) QueryType() string {
	if r.Payload == nil || r.Payload.QueryType == "" {
		return NoQueryType
	}
	return r.Payload.QueryType
}

// CategoryNames returns the payload category names joined with ", ", or the
// legacy placeholder when the payload is missing.
func (r *Record) CategoryNames() string {
	if r.Payload == nil {
		return NoCategories
	}
	names := make([]string, 0, len(r.Payload.Categories))
	for _, c := range r.Payload.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// Cases parses the Possible Cases cell, a bracketed list literal like
// ['CASE-1', 'CASE-2']. Cells that are not list literals yield no cases.
func (r *Record) Cases() []string {
	cases, err := parseListLiteral(r.PossibleCases)
	if err != nil {
		return nil
	}
	return cases
}

// parseListLiteral decodes a Python-style list literal of quoted strings.
func parseListLiteral(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, errors.Newf("not a list literal: %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []string{}, nil
	}

	var out []string
	for _, item := range strings.Split(inner, ",") {
		item = strings.TrimSpace(item)
		if len(item) >= 2 && (item[0] == '\'' || item[0] == '"') && item[len(item)-1] == item[0] {
			item = item[1 : len(item)-1]
		} else if strings.ContainsAny(item, `'"`) {
			return nil, errors.Newf("unterminated quote in list literal item: %q", item)
		}
		out = append(out, item)
	}
	return out, nil
}

// renderListLiteral is the inverse of parseListLiteral, matching the list
// rendering of the legacy CSV output.
func renderListLiteral(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
