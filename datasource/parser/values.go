package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-sif/sifread"
	"github.com/tidwall/gjson"
)

// Formats holds the layouts used to parse temporal values
type Formats struct {
	TimestampFormat string // layout for timestamp columns without their own Format. Defaults to time.RFC3339.
	DateFormat      string // layout for date columns without their own Format. Defaults to sifread.DefaultDateFormat.
}

func (f Formats) timestampFormat(colType *sifread.TimeColumnType) string {
	if len(colType.Format) > 0 {
		return colType.Format
	} else if len(f.TimestampFormat) > 0 {
		return f.TimestampFormat
	}
	return time.RFC3339
}

func (f Formats) dateFormat(colType *sifread.DateColumnType) string {
	if len(colType.Format) > 0 {
		return colType.Format
	} else if len(f.DateFormat) > 0 {
		return f.DateFormat
	}
	return sifread.DefaultDateFormat
}

// ParseString converts a textual value into a value for a column of the given type
func ParseString(colName string, colType sifread.ColumnType, value string, formats Formats) (interface{}, error) {
	switch ct := colType.(type) {
	case *sifread.BoolColumnType:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("Column %s could not be parsed as boolean. Was: %q", colName, value)
	case *sifread.Int32ColumnType:
		ival, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as integer. Was: %q", colName, value)
		}
		return int32(ival), nil
	case *sifread.Int64ColumnType:
		ival, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as long. Was: %q", colName, value)
		}
		return ival, nil
	case *sifread.Float64ColumnType:
		fval, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as double. Was: %q", colName, value)
		}
		return fval, nil
	case *sifread.VarStringColumnType:
		return value, nil
	case *sifread.TimeColumnType:
		format := formats.timestampFormat(ct)
		tval, err := time.Parse(format, strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as timestamp with format %s. Was: %q", colName, format, value)
		}
		return tval, nil
	case *sifread.DateColumnType:
		format := formats.dateFormat(ct)
		tval, err := time.Parse(format, strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as date with format %s. Was: %q", colName, format, value)
		}
		return tval, nil
	default:
		return nil, fmt.Errorf("parsing does not support column type %T", colType)
	}
}

// ParseJSON converts a JSON value into a value for a column of the given type. Missing and null values produce nil.
func ParseJSON(colName string, colType sifread.ColumnType, value gjson.Result, formats Formats) (interface{}, error) {
	if !value.Exists() || value.Type == gjson.Null {
		return nil, nil
	}
	switch colType.(type) {
	case *sifread.BoolColumnType:
		if value.Type != gjson.True && value.Type != gjson.False {
			return nil, fmt.Errorf("Column %s was not a boolean. Was: %s", colName, value.Raw)
		}
		return value.Bool(), nil
	case *sifread.Int32ColumnType:
		ival, err := jsonInteger(colName, value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return int32(ival), nil
	case *sifread.Int64ColumnType:
		return jsonInteger(colName, value, math.MinInt64, math.MaxInt64)
	case *sifread.Float64ColumnType:
		if value.Type != gjson.Number {
			return nil, fmt.Errorf("Column %s was not a number. Was: %s", colName, value.Raw)
		}
		return value.Float(), nil
	case *sifread.VarStringColumnType:
		if value.Type == gjson.String {
			return value.Str, nil
		}
		return value.Raw, nil
	case *sifread.TimeColumnType, *sifread.DateColumnType:
		if value.Type != gjson.String {
			return nil, fmt.Errorf("Column %s was not a string. Was: %s", colName, value.Raw)
		}
		return ParseString(colName, colType, value.Str, formats)
	default:
		return nil, fmt.Errorf("JSONL parsing does not support column type %T", colType)
	}
}

func jsonInteger(colName string, value gjson.Result, min int64, max int64) (int64, error) {
	if value.Type != gjson.Number || strings.ContainsAny(value.Raw, ".eE") {
		return 0, fmt.Errorf("Column %s was not an integer. Was: %s", colName, value.Raw)
	}
	ival, err := strconv.ParseInt(value.Raw, 10, 64)
	if err != nil || ival < min || ival > max {
		return 0, fmt.Errorf("Column %s is out of range. Was: %s", colName, value.Raw)
	}
	return ival, nil
}

// Coerce converts a native Go value, as decoded from a typed format such as parquet or avro,
// into a value for a column of the given type. Integers widen, and any value may be stored
// in a string column.
func Coerce(colName string, colType sifread.ColumnType, value interface{}) (interface{}, error) {
	if value == nil || colType.IsValid(value) {
		return value, nil
	}
	switch colType.(type) {
	case *sifread.Int64ColumnType:
		switch v := value.(type) {
		case int32:
			return int64(v), nil
		case int:
			return int64(v), nil
		}
	case *sifread.Float64ColumnType:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case *sifread.Int32ColumnType:
		if v, ok := value.(int64); ok && v >= math.MinInt32 && v <= math.MaxInt32 {
			return int32(v), nil
		}
	case *sifread.VarStringColumnType:
		switch v := value.(type) {
		case []byte:
			return string(v), nil
		case time.Time:
			return v.Format(time.RFC3339Nano), nil
		default:
			return fmt.Sprint(v), nil
		}
	}
	return nil, fmt.Errorf("Column %s cannot hold a value of type %T", colName, value)
}
