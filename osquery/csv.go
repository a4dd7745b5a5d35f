package osquery

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/logger"
)

// Column headers of the combined case/query export.
const (
	colQuery         = "Query"
	colPossibleCases = "Possible Cases"
	colCustomerID    = "Customer ID"
	colRegion        = "Region"
)

// LoadRecords reads the combined case/query CSV at path. nrows limits how
// many data rows are loaded; zero or negative loads everything.
//
// The Query column is required. Case, customer, and region columns are
// optional so partial exports still analyze. Records whose Query cell does
// not decode keep a nil Payload rather than failing the load.
func LoadRecords(path string, nrows int) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("input csv %s", path)
		}
		return nil, errors.Wrapf(err, "open input csv %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read csv header from %s", path)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	queryIdx, ok := cols[colQuery]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMalformedRecord, "%s has no %q column", path, colQuery)
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []Record
	malformed := 0
	for {
		if nrows > 0 && len(records) >= nrows {
			break
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv row from %s", path)
		}
		if queryIdx >= len(row) {
			malformed++
			continue
		}

		rec := Record{
			Query:         row[queryIdx],
			PossibleCases: cell(row, colPossibleCases),
			CustomerID:    cell(row, colCustomerID),
			Region:        cell(row, colRegion),
		}
		payload, err := decodePayload(rec.Query)
		if err != nil {
			logger.OSQWarnw("Skipping query payload", logger.FieldError, err)
		} else {
			rec.Payload = payload
		}
		records = append(records, rec)
	}

	logger.OSQInfow("Loaded records",
		logger.FieldInput, path,
		logger.FieldRecords, len(records),
	)
	if malformed > 0 {
		logger.OSQWarnw("Dropped short rows", logger.FieldRecords, malformed)
	}
	return records, nil
}
