package infer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/schema"
)

// CSVInferrer accumulates observations of delimited records, and produces a Schema from them
type CSVInferrer struct {
	nullValue       string
	timestampFormat string
	width           int
	kinds           []kind
}

// NewCSVInferrer creates a CSVInferrer. Tokens equal to nullValue, or empty, are nulls.
// Timestamps are recognized with timestampFormat, which defaults to time.RFC3339.
func NewCSVInferrer(nullValue string, timestampFormat string) *CSVInferrer {
	if len(timestampFormat) == 0 {
		timestampFormat = time.RFC3339
	}
	return &CSVInferrer{
		nullValue:       nullValue,
		timestampFormat: timestampFormat,
		width:           -1,
	}
}

// FixWidth sets the number of columns to infer. Unless it is called before the first
// Observe, the width is that of the first observed record.
func (ci *CSVInferrer) FixWidth(width int) {
	if ci.width >= 0 {
		return
	}
	ci.width = width
	ci.kinds = make([]kind, width)
}

// Observe widens the inferred type of each column to accommodate a record's tokens.
// Tokens beyond the inferred width are ignored.
func (ci *CSVInferrer) Observe(tokens []string) {
	ci.FixWidth(len(tokens))
	for i, token := range tokens {
		if i >= ci.width {
			break
		}
		ci.kinds[i] = merge(ci.kinds[i], ci.kindOf(token))
	}
}

// NumColumns returns the inferred width, or 0 if nothing has been observed
func (ci *CSVInferrer) NumColumns() int {
	return len(ci.kinds)
}

func (ci *CSVInferrer) kindOf(token string) kind {
	if len(token) == 0 || token == ci.nullValue {
		return nullKind
	}
	trimmed := strings.TrimSpace(token)
	if _, err := strconv.ParseInt(trimmed, 10, 32); err == nil {
		return intKind
	}
	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return longKind
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return doubleKind
	}
	if _, err := time.Parse(ci.timestampFormat, trimmed); err == nil {
		return timestampKind
	}
	if strings.EqualFold(trimmed, "true") || strings.EqualFold(trimmed, "false") {
		return booleanKind
	}
	return stringKind
}

// Schema produces a Schema from the observed records, with the given column names.
// Columns beyond len(names) are named _c<index>.
func (ci *CSVInferrer) Schema(names []string) (sifread.Schema, error) {
	width := len(ci.kinds)
	if len(names) > width {
		width = len(names)
	}
	names = ColumnNames(names, width)
	s := schema.CreateSchema()
	for i, name := range names {
		k := nullKind
		if i < len(ci.kinds) {
			k = ci.kinds[i]
		}
		if _, err := s.CreateColumn(name, k.columnType(ci.timestampFormat)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ColumnNames produces width column names from a header. Missing or blank names become
// _c<index>, and names which repeat another name have their index appended, as many
// times as needed to be unique.
func ColumnNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if len(name) == 0 {
			name = fmt.Sprintf("_c%d", i)
		}
		seen[name]++
		names[i] = name
	}
	taken := make(map[string]bool, width)
	for _, name := range names {
		if seen[name] == 1 {
			taken[name] = true
		}
	}
	for i, name := range names {
		if seen[name] == 1 {
			continue
		}
		unique := fmt.Sprintf("%s%d", name, i)
		for taken[unique] {
			unique = fmt.Sprintf("%s_%d", unique, i)
		}
		taken[unique] = true
		names[i] = unique
	}
	return names
}

// StringSchema produces a Schema in which every column is a string, with the given names
func StringSchema(names []string) (sifread.Schema, error) {
	s := schema.CreateSchema()
	for _, name := range names {
		if _, err := s.CreateColumn(name, &sifread.VarStringColumnType{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}
