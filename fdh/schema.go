// Package fdh analyzes FDH schema exports.
//
// An FDH schema declares event types ("views") and their typed attributes.
// The analysis classifies every attribute as unique to one event type or
// shared across several, and summarizes attribute counts per event type.
// Attribute identity is the (name, type) pair: the same name declared with
// two types counts as two attributes.
package fdh

import (
	"encoding/json"
	"os"

	"github.com/teranos/queryscope/errors"
)

// Column is one typed attribute declaration inside a view.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// View is one event type and its attribute declarations.
type View struct {
	ViewName string   `json:"viewName"`
	Columns  []Column `json:"columns"`
}

// Schema is the FDH schema document root.
type Schema struct {
	Views []View `json:"views"`
}

// LoadSchema reads and decodes an FDH schema JSON file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("schema file %s", path)
		}
		return nil, errors.Wrapf(err, "read schema %s", path)
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, errors.NewInvalidSchemaError("decode %s: %v", path, err)
	}

	if len(schema.Views) == 0 {
		return nil, errors.NewInvalidSchemaError("no views in %s", path)
	}

	return &schema, nil
}
