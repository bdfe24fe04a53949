package sifread

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnType is an interface which is implemented to define supported column types.
// sifread provides a variety of built-in types, which map onto the type names used
// in DDL strings and schema trees.
type ColumnType interface {
	TypeName() string              // returns the canonical name of this type, as used in DDL and TreeString
	ToString(v interface{}) string // produces a string representation of a value of this type
	IsValid(v interface{}) bool    // returns true iff v is a Go value which can be stored in a column of this type
}

// BoolColumnType is a column type which stores a boolean value
type BoolColumnType struct{}

// TypeName returns "boolean"
func (b *BoolColumnType) TypeName() string {
	return "boolean"
}

// ToString produces a string representation of a value of a BoolColumnType value
func (b *BoolColumnType) ToString(v interface{}) string {
	return strconv.FormatBool(v.(bool))
}

// IsValid returns true iff v is a bool
func (b *BoolColumnType) IsValid(v interface{}) bool {
	_, ok := v.(bool)
	return ok
}

// Int32ColumnType is a column type which stores an int32 value
type Int32ColumnType struct{}

// TypeName returns "integer"
func (b *Int32ColumnType) TypeName() string {
	return "integer"
}

// ToString produces a string representation of a value of a Int32ColumnType value
func (b *Int32ColumnType) ToString(v interface{}) string {
	return strconv.FormatInt(int64(v.(int32)), 10)
}

// IsValid returns true iff v is an int32
func (b *Int32ColumnType) IsValid(v interface{}) bool {
	_, ok := v.(int32)
	return ok
}

// Int64ColumnType is a column type which stores an int64 value
type Int64ColumnType struct{}

// TypeName returns "long"
func (b *Int64ColumnType) TypeName() string {
	return "long"
}

// ToString produces a string representation of a value of a Int64ColumnType value
func (b *Int64ColumnType) ToString(v interface{}) string {
	return strconv.FormatInt(v.(int64), 10)
}

// IsValid returns true iff v is an int64
func (b *Int64ColumnType) IsValid(v interface{}) bool {
	_, ok := v.(int64)
	return ok
}

// Float64ColumnType is a column type which stores a float64 value
type Float64ColumnType struct{}

// TypeName returns "double"
func (b *Float64ColumnType) TypeName() string {
	return "double"
}

// ToString produces a string representation of a value of a Float64ColumnType value
func (b *Float64ColumnType) ToString(v interface{}) string {
	return strconv.FormatFloat(v.(float64), 'f', -1, 64)
}

// IsValid returns true iff v is a float64
func (b *Float64ColumnType) IsValid(v interface{}) bool {
	_, ok := v.(float64)
	return ok
}

// VarStringColumnType is a column type which stores a variable-length string value
type VarStringColumnType struct{}

// TypeName returns "string"
func (b *VarStringColumnType) TypeName() string {
	return "string"
}

// ToString produces a string representation of a value of a VarStringColumnType value
func (b *VarStringColumnType) ToString(v interface{}) string {
	return v.(string)
}

// IsValid returns true iff v is a string
func (b *VarStringColumnType) IsValid(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// TimeColumnType is a column type which stores a time.Time value. Format is the layout
// used to parse and print values. If empty, the reader's timestampFormat option applies.
type TimeColumnType struct {
	Format string
}

// TypeName returns "timestamp"
func (b *TimeColumnType) TypeName() string {
	return "timestamp"
}

// ToString produces a string representation of a value of a TimeColumnType value
func (b *TimeColumnType) ToString(v interface{}) string {
	format := b.Format
	if len(format) == 0 {
		format = time.RFC3339
	}
	return v.(time.Time).Format(format)
}

// IsValid returns true iff v is a time.Time
func (b *TimeColumnType) IsValid(v interface{}) bool {
	_, ok := v.(time.Time)
	return ok
}

// DateColumnType is a column type which stores a calendar date as a time.Time value (at midnight UTC).
// Format is the layout used to parse and print values. If empty, the reader's dateFormat option applies.
type DateColumnType struct {
	Format string
}

// TypeName returns "date"
func (b *DateColumnType) TypeName() string {
	return "date"
}

// ToString produces a string representation of a value of a DateColumnType value
func (b *DateColumnType) ToString(v interface{}) string {
	format := b.Format
	if len(format) == 0 {
		format = DefaultDateFormat
	}
	return v.(time.Time).Format(format)
}

// IsValid returns true iff v is a time.Time
func (b *DateColumnType) IsValid(v interface{}) bool {
	_, ok := v.(time.Time)
	return ok
}

// DefaultDateFormat is the layout used for DateColumnTypes without a Format
const DefaultDateFormat = "2006-01-02"

// ColumnTypeFromName returns the built-in ColumnType for a DDL type name
func ColumnTypeFromName(name string) (ColumnType, error) {
	switch name {
	case "boolean", "bool":
		return &BoolColumnType{}, nil
	case "int", "integer":
		return &Int32ColumnType{}, nil
	case "bigint", "long":
		return &Int64ColumnType{}, nil
	case "double", "float":
		return &Float64ColumnType{}, nil
	case "string", "varchar":
		return &VarStringColumnType{}, nil
	case "timestamp":
		return &TimeColumnType{}, nil
	case "date":
		return &DateColumnType{}, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", name)
	}
}
