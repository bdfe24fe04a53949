package jsonl

import (
	"fmt"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/tidwall/gjson"
)

// recordScanner parses JSON lines into Rows
type recordScanner struct {
	formats  parser.Formats
	names    []string
	colTypes []sifread.ColumnType
}

// ScanRecord parses a JSON object into a Row, according to a schema. Values which
// cannot be converted are left nil, and the first such failure is returned.
func (s *recordScanner) ScanRecord(line string, row sifread.Row) error {
	if !gjson.Valid(line) {
		return fmt.Errorf("record is not valid JSON")
	}
	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		return fmt.Errorf("record is not a JSON object")
	}
	var firstErr error
	for i, name := range s.names {
		val, err := parser.ParseJSON(name, s.colTypes[i], parsed.Get(name), s.formats)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		} else if val == nil {
			continue
		}
		if err := row.Set(name, val); err != nil {
			return err
		}
	}
	return firstErr
}
