package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
)

var ErrInvalidCSV = errors.New("invalid inventory csv")

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, rec := range records {
		if err := cw.Write(rec.Values()); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads records back, matching columns by header name. Unknown
// columns are ignored and missing ones stay empty.
func ReadCSV(r io.Reader) ([]models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %s", ErrInvalidCSV, err)
	}

	index := make(map[int]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		var probe models.Record
		if probe.SetField(name, "") {
			index[i] = name
		}
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: none of the inventory columns in header", ErrInvalidCSV)
	}

	var records []models.Record
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrInvalidCSV, line, err)
		}

		var rec models.Record
		for i, value := range row {
			if col, ok := index[i]; ok {
				rec.SetField(col, value)
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
