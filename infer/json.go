package infer

import (
	"sort"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/schema"
	"github.com/tidwall/gjson"
)

// JSONInferrer accumulates observations of JSON lines, and produces a Schema from them.
// Nested objects are flattened into gjson paths, such as "meta.index".
// A path seen both as an object and as a scalar becomes a single string column.
type JSONInferrer struct {
	kinds      map[string]kind
	objects    map[string]bool
	numCorrupt int
}

// NewJSONInferrer creates a JSONInferrer
func NewJSONInferrer() *JSONInferrer {
	return &JSONInferrer{
		kinds:   make(map[string]kind),
		objects: make(map[string]bool),
	}
}

// Observe widens the inferred types of the columns in a JSON line. It returns
// false, recording nothing, if the line is not a JSON object.
func (ji *JSONInferrer) Observe(line string) bool {
	if !gjson.Valid(line) {
		ji.numCorrupt++
		return false
	}
	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		ji.numCorrupt++
		return false
	}
	ji.observeObject("", parsed)
	return true
}

// NumCorrupt returns the number of observed lines which were not JSON objects
func (ji *JSONInferrer) NumCorrupt() int {
	return ji.numCorrupt
}

func (ji *JSONInferrer) observeObject(prefix string, obj gjson.Result) {
	obj.ForEach(func(key, value gjson.Result) bool {
		path := prefix + escapePathComponent(key.String())
		if value.IsObject() && len(value.Map()) > 0 {
			ji.objects[path] = true
			ji.observeObject(path+".", value)
			return true
		}
		ji.kinds[path] = merge(ji.kinds[path], jsonKind(value))
		return true
	})
}

func jsonKind(value gjson.Result) kind {
	switch value.Type {
	case gjson.Null:
		return nullKind
	case gjson.True, gjson.False:
		return booleanKind
	case gjson.Number:
		if strings.ContainsAny(value.Raw, ".eE") {
			return doubleKind
		}
		return longKind
	default:
		return stringKind
	}
}

// escapePathComponent escapes gjson path metacharacters in an object key
func escapePathComponent(key string) string {
	var res strings.Builder
	for _, r := range key {
		if r == '.' || r == '*' || r == '?' || r == '|' || r == '#' || r == '@' || r == '\\' {
			res.WriteRune('\\')
		}
		res.WriteRune(r)
	}
	return res.String()
}

// Schema produces a Schema from the observed lines, with columns sorted by name.
// If corruptColumn is non-empty and any observed line was not a JSON object, it is
// appended as a string column.
func (ji *JSONInferrer) Schema(corruptColumn string) (sifread.Schema, error) {
	// paths which are objects in some lines and scalars in others
	var conflicts []string
	for path := range ji.objects {
		if _, ok := ji.kinds[path]; ok {
			conflicts = append(conflicts, path)
		}
	}
	names := make([]string, 0, len(ji.kinds))
	for name := range ji.kinds {
		if name != corruptColumn && !withinAny(name, conflicts) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	s := schema.CreateSchema()
	for _, name := range names {
		k := ji.kinds[name]
		if ji.objects[name] {
			k = stringKind
		}
		if _, err := s.CreateColumn(name, k.columnType("")); err != nil {
			return nil, err
		}
	}
	if len(corruptColumn) > 0 && ji.numCorrupt > 0 {
		if _, err := s.CreateColumn(corruptColumn, &sifread.VarStringColumnType{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// withinAny returns true iff path is nested beneath one of prefixes
func withinAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix+".") {
			return true
		}
	}
	return false
}
