package avro

import (
	"fmt"
	"regexp"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/schema"
	json "github.com/goccy/go-json"
)

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type recordSchema struct {
	Type   string        `json:"type"`
	Name   string        `json:"name"`
	Fields []fieldSchema `json:"fields"`
}

type fieldSchema struct {
	Name    string          `json:"name"`
	Type    json.RawMessage `json:"type"`
	Default interface{}     `json:"default"`
}

type logicalSchema struct {
	Type        string `json:"type"`
	LogicalType string `json:"logicalType,omitempty"`
}

// FromAvroSchema converts the JSON text of an avro record schema into a Schema
func FromAvroSchema(avroSchema string) (sifread.Schema, error) {
	var rs recordSchema
	if err := json.Unmarshal([]byte(avroSchema), &rs); err != nil {
		return nil, fmt.Errorf("unable to parse avro schema: %w", err)
	}
	if rs.Type != "record" {
		return nil, fmt.Errorf("avro schema must be a record, was %q", rs.Type)
	}
	s := schema.CreateSchema()
	for _, field := range rs.Fields {
		colType, nullable, err := columnTypeOf(field.Name, field.Type)
		if err != nil {
			return nil, err
		}
		if nullable {
			_, err = s.CreateColumn(field.Name, colType)
		} else {
			_, err = s.CreateNonNullableColumn(field.Name, colType)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func columnTypeOf(name string, raw json.RawMessage) (sifread.ColumnType, bool, error) {
	var branches []json.RawMessage
	if err := json.Unmarshal(raw, &branches); err == nil {
		// unions are supported only as ["null", T]
		var nonNull []json.RawMessage
		for _, b := range branches {
			var prim string
			if json.Unmarshal(b, &prim) == nil && prim == "null" {
				continue
			}
			nonNull = append(nonNull, b)
		}
		if len(nonNull) != 1 {
			return nil, false, fmt.Errorf("avro field %s has an unsupported union type", name)
		}
		colType, _, err := columnTypeOf(name, nonNull[0])
		return colType, len(branches) > 1, err
	}
	var ls logicalSchema
	var prim string
	if err := json.Unmarshal(raw, &prim); err == nil {
		ls.Type = prim
	} else if err := json.Unmarshal(raw, &ls); err != nil {
		return nil, false, fmt.Errorf("avro field %s has an unparseable type: %w", name, err)
	}
	switch ls.Type {
	case "boolean":
		return &sifread.BoolColumnType{}, false, nil
	case "int":
		if ls.LogicalType == "date" {
			return &sifread.DateColumnType{}, false, nil
		}
		return &sifread.Int32ColumnType{}, false, nil
	case "long":
		if ls.LogicalType == "timestamp-millis" || ls.LogicalType == "timestamp-micros" {
			return &sifread.TimeColumnType{}, false, nil
		}
		return &sifread.Int64ColumnType{}, false, nil
	case "float", "double":
		return &sifread.Float64ColumnType{}, false, nil
	case "string", "bytes":
		return &sifread.VarStringColumnType{}, false, nil
	default:
		return nil, false, fmt.Errorf("avro field %s has unsupported type %s", name, ls.Type)
	}
}

// branch describes how a column's values are written within an avro union
type branch struct {
	name string      // the union branch name, as used by goavro.Union
	typ  interface{} // the avro type of the branch
}

func branchOf(colName string, colType sifread.ColumnType) (branch, error) {
	switch colType.(type) {
	case *sifread.BoolColumnType:
		return branch{"boolean", "boolean"}, nil
	case *sifread.Int32ColumnType:
		return branch{"int", "int"}, nil
	case *sifread.Int64ColumnType:
		return branch{"long", "long"}, nil
	case *sifread.Float64ColumnType:
		return branch{"double", "double"}, nil
	case *sifread.VarStringColumnType:
		return branch{"string", "string"}, nil
	case *sifread.TimeColumnType:
		return branch{"long.timestamp-micros", logicalSchema{Type: "long", LogicalType: "timestamp-micros"}}, nil
	case *sifread.DateColumnType:
		return branch{"int.date", logicalSchema{Type: "int", LogicalType: "date"}}, nil
	default:
		return branch{}, fmt.Errorf("column %s has type %s, which cannot be stored in avro", colName, colType.TypeName())
	}
}

// avroSchemaFor produces the JSON text of an avro record schema for a Schema. Every field
// is a union with null, and column names must be valid avro names.
func avroSchemaFor(s sifread.Schema) (string, []branch, error) {
	rs := recordSchema{Type: "record", Name: "topLevelRecord", Fields: []fieldSchema{}}
	branches := make([]branch, 0, s.NumColumns())
	err := s.ForEachColumn(func(name string, col sifread.Column) error {
		if !validName.MatchString(name) {
			return fmt.Errorf("column name %q is not a valid avro field name", name)
		}
		b, err := branchOf(name, col.Type())
		if err != nil {
			return err
		}
		typ, err := json.Marshal([]interface{}{"null", b.typ})
		if err != nil {
			return err
		}
		rs.Fields = append(rs.Fields, fieldSchema{Name: name, Type: typ})
		branches = append(branches, b)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	out, err := json.Marshal(rs)
	if err != nil {
		return "", nil, err
	}
	return string(out), branches, nil
}
