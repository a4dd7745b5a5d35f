package fdh

import (
	"encoding/csv"
	"encoding/json"
	"os"

	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/logger"
)

// AttributeDetail is the per-attribute payload in the summary JSON.
type AttributeDetail struct {
	Unique            bool     `json:"unique"`
	FoundInEventTypes []string `json:"found_in_event_types"`
	Instances         int      `json:"no_of_instances"`
	Type              string   `json:"type"`
}

// EventTypeSummary lists event types and their attribute counts.
type EventTypeSummary struct {
	EventTypes         []string       `json:"fdh_event_types"`
	NumberOfAttributes map[string]int `json:"number_of_attributes"`
}

// Summary is the exported FDH analysis document.
//
// fdh_attributes is a list of single-key objects and fdh_raw_attributes a
// one-element list; both shapes are preserved from the legacy report format
// that downstream consumers already parse.
type Summary struct {
	FDHSummary    EventTypeSummary               `json:"fdh_summary"`
	Attributes    []map[string]AttributeDetail   `json:"fdh_attributes"`
	RawAttributes []map[string]map[string]string `json:"fdh_raw_attributes"`
}

// BuildSummary assembles the exported document from an analysis.
// includeRaw controls whether per-event-type raw attribute maps are attached.
func BuildSummary(a *Analysis, includeRaw bool) *Summary {
	s := &Summary{
		FDHSummary: EventTypeSummary{
			EventTypes:         a.EventTypes,
			NumberOfAttributes: a.AttributeCounts,
		},
		Attributes: make([]map[string]AttributeDetail, 0, len(a.Attributes)),
	}

	for _, r := range a.Attributes {
		s.Attributes = append(s.Attributes, map[string]AttributeDetail{
			r.Name: {
				Unique:            r.Unique,
				FoundInEventTypes: r.FoundInEventTypes,
				Instances:         r.Instances(),
				Type:              r.Type,
			},
		})
	}

	if includeRaw {
		s.RawAttributes = []map[string]map[string]string{a.Raw}
	} else {
		s.RawAttributes = []map[string]map[string]string{}
	}

	return s
}

// WriteJSON writes the summary document to path.
func (s *Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode fdh summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write fdh summary to %s", path)
	}

	logger.FDHInfow("Wrote summary",
		logger.FieldOutput, path,
		logger.FieldAttributes, len(s.Attributes),
	)
	return nil
}

// WriteAggregateCSV writes the legacy aggregate table: one column per event
// type holding its "name:type" attributes, plus views_list, unique, and
// duplicate columns. Short columns are padded with empty cells.
func (a *Analysis) WriteAggregateCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create aggregate csv %s", path)
	}
	defer f.Close()

	header := append([]string{"views_list"}, a.EventTypes...)
	header = append(header, "unique", "duplicate")

	columns := make([][]string, 0, len(header))
	columns = append(columns, a.EventTypes)
	for _, eventType := range a.EventTypes {
		var attrs []string
		for _, r := range a.Attributes {
			for _, owner := range r.FoundInEventTypes {
				if owner == eventType {
					attrs = append(attrs, attrKey(r.Name, r.Type))
				}
			}
		}
		columns = append(columns, attrs)
	}
	columns = append(columns, a.uniqueLegacyRows(), a.duplicateLegacyRows())

	rows := 0
	for _, col := range columns {
		if len(col) > rows {
			rows = len(col)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "write aggregate header")
	}
	for i := 0; i < rows; i++ {
		record := make([]string, len(columns))
		for j, col := range columns {
			if i < len(col) {
				record[j] = col[i]
			}
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "write aggregate row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush aggregate csv")
	}

	logger.FDHInfow("Wrote aggregate table", logger.FieldOutput, path, logger.FieldRecords, rows)
	return nil
}
