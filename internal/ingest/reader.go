package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is one CSV row keyed by its (lower-cased, trimmed) header.
type Record map[string]string

type RecordResult struct {
	Line   int
	Record Record
	Err    error
}

type Source interface {
	Stream(ctx context.Context) (<-chan RecordResult, error)
}

type CSVReader struct {
	reader io.Reader
}

var _ Source = (*CSVReader)(nil)

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{
		reader: reader,
	}
}

// Stream emits rows in file order. A malformed row is reported as an error
// result and reading continues with the next one.
func (cr *CSVReader) Stream(ctx context.Context) (<-chan RecordResult, error) {
	csvReader := csv.NewReader(cr.reader)
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make(chan RecordResult)
	go func() {
		defer close(out)

		for {
			row, err := csvReader.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			var res RecordResult
			switch {
			case err != nil:
				var perr *csv.ParseError
				if errors.As(err, &perr) {
					res.Line = perr.StartLine
				}
				res.Err = err
			case len(row) != len(headers):
				res.Line, _ = csvReader.FieldPos(0)
				res.Err = fmt.Errorf("expected %d fields, got %d", len(headers), len(row))
			default:
				res.Line, _ = csvReader.FieldPos(0)
				record := make(Record, len(headers))
				for i, h := range headers {
					record[h] = row[i]
				}
				res.Record = record
			}

			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
