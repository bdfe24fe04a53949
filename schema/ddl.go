package schema

import (
	"fmt"
	"strings"

	"github.com/go-sif/sifread"
)

// ParseDDL builds a Schema from a comma-separated list of column definitions,
// e.g. "id INT, name STRING NOT NULL, hired TIMESTAMP". Column names may be
// quoted with backticks.
func ParseDDL(ddl string) (sifread.Schema, error) {
	s := CreateSchema()
	if len(strings.TrimSpace(ddl)) == 0 {
		return nil, fmt.Errorf("DDL schema string is empty")
	}
	for _, def := range splitDefinitions(ddl) {
		name, rest, err := splitName(strings.TrimSpace(def))
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(strings.ToLower(rest))
		if len(fields) == 0 {
			return nil, fmt.Errorf("column %s has no type", name)
		}
		colType, err := sifread.ColumnTypeFromName(fields[0])
		if err != nil {
			return nil, err
		}
		switch {
		case len(fields) == 1:
			_, err = s.CreateColumn(name, colType)
		case len(fields) == 3 && fields[1] == "not" && fields[2] == "null":
			_, err = s.CreateNonNullableColumn(name, colType)
		default:
			return nil, fmt.Errorf("unexpected tokens in definition of column %s: %q", name, rest)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// splitDefinitions splits on commas which are not within backticks
func splitDefinitions(ddl string) []string {
	var defs []string
	inQuote := false
	start := 0
	for i, r := range ddl {
		switch {
		case r == '`':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			defs = append(defs, ddl[start:i])
			start = i + 1
		}
	}
	return append(defs, ddl[start:])
}

func splitName(def string) (name string, rest string, err error) {
	if strings.HasPrefix(def, "`") {
		end := strings.Index(def[1:], "`")
		if end < 0 {
			return "", "", fmt.Errorf("unterminated column name in %q", def)
		}
		return def[1 : end+1], def[end+2:], nil
	}
	fields := strings.Fields(def)
	if len(fields) == 0 {
		return "", "", fmt.Errorf("empty column definition")
	}
	return fields[0], strings.TrimSpace(strings.TrimPrefix(def, fields[0])), nil
}
