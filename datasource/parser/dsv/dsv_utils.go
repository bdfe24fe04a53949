package dsv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/parser"
)

// tokenize splits a single line into fields, honouring quotes
func tokenize(line string, delimiter rune) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	return reader.Read()
}

// recordScanner parses DSV lines into Rows
type recordScanner struct {
	conf     *ParserConf
	names    []string
	colTypes []sifread.ColumnType
}

// ScanRecord parses a line into a Row, according to a schema. Values which cannot be
// parsed are left nil, and the first such failure is returned.
func (s *recordScanner) ScanRecord(line string, row sifread.Row) error {
	tokens, err := tokenize(line, s.conf.Delimiter)
	if err != nil {
		return err
	}
	var firstErr error
	for i := 0; i < len(tokens) && i < len(s.names); i++ {
		colVal := tokens[i]
		// check for a nil value
		if len(colVal) == 0 || colVal == s.conf.NilValue {
			continue
		}
		// otherwise, parse type
		val, err := parser.ParseString(s.names[i], s.colTypes[i], colVal, s.conf.Formats)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := row.Set(s.names[i], val); err != nil {
			return err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	if len(tokens) != len(s.names) {
		return fmt.Errorf("expected %d fields, found %d", len(s.names), len(tokens))
	}
	return nil
}
