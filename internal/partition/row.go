package partition

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/errors"
)

// rowImpl is a representation of a single row of tabular data,
// (a slice of a Partition), along with a reference to the
// Schema for that row.
type rowImpl struct {
	partID string
	values []interface{} // likely a slice of a partition's rows
	schema sifread.Schema
}

// CreateRow builds a new row from individual internal components
func CreateRow(partID string, values []interface{}, schema sifread.Schema) sifread.Row {
	return &rowImpl{partID: partID, values: values, schema: schema}
}

// CreateTempRow builds a standalone, all-nil row which can be populated and then appended to a Partition
func CreateTempRow(schema sifread.Schema) sifread.Row {
	return &rowImpl{values: make([]interface{}, schema.NumColumns()), schema: schema}
}

// ResetTempRow sets every value of a row created by CreateTempRow to nil, so it can be reused
func ResetTempRow(row sifread.Row) {
	r := row.(*rowImpl)
	for i := range r.values {
		r.values[i] = nil
	}
}

// Schema returns the schema for a row
func (r *rowImpl) Schema() sifread.Schema {
	return r.schema
}

// ToString returns a string representation of this row
func (r *rowImpl) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	r.schema.ForEachColumn(func(name string, col sifread.Column) error {
		val := "nil"
		if v := r.values[col.Index()]; v != nil {
			val = col.Type().ToString(v)
		}
		if col.Index() > 0 {
			fmt.Fprint(&res, ", ")
		}
		fmt.Fprintf(&res, "\"%s\": %s", name, val)
		return nil
	})
	fmt.Fprint(&res, "}")
	return res.String()
}

// IsNil returns true iff the given column value is nil in this row. If an error occurs, this function will return false.
func (r *rowImpl) IsNil(colName string) bool {
	col, err := r.schema.GetColumn(colName)
	if err != nil {
		return false
	}
	return r.values[col.Index()] == nil
}

// SetNil sets the given column value to nil within this row
func (r *rowImpl) SetNil(colName string) error {
	col, err := r.schema.GetColumn(colName)
	if err != nil {
		return err
	}
	r.values[col.Index()] = nil
	return nil
}

// Get returns the value of any column as an interface{}, if it exists
func (r *rowImpl) Get(colName string) (interface{}, error) {
	col, err := r.schema.GetColumn(colName)
	if err != nil {
		return nil, err
	}
	v := r.values[col.Index()]
	if v == nil {
		return nil, errors.NilValueError{Name: colName}
	}
	return v, nil
}

func (r *rowImpl) getTyped(colName string, expected sifread.ColumnType) (interface{}, error) {
	col, err := r.schema.GetColumn(colName)
	if err != nil {
		return nil, err
	}
	if col.Type().TypeName() != expected.TypeName() {
		return nil, fmt.Errorf("Column %s is of type %s, not %s", colName, col.Type().TypeName(), expected.TypeName())
	}
	v := r.values[col.Index()]
	if v == nil {
		return nil, errors.NilValueError{Name: colName}
	}
	return v, nil
}

// GetBool retrieves a single bool from the column with the given name.
func (r *rowImpl) GetBool(colName string) (bool, error) {
	v, err := r.getTyped(colName, &sifread.BoolColumnType{})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetInt32 retrieves a single int32 from the column with the given name
func (r *rowImpl) GetInt32(colName string) (int32, error) {
	v, err := r.getTyped(colName, &sifread.Int32ColumnType{})
	if err != nil {
		return 0, err
	}
	return v.(int32), nil
}

// GetInt64 retrieves a single int64 from the column with the given name
func (r *rowImpl) GetInt64(colName string) (int64, error) {
	v, err := r.getTyped(colName, &sifread.Int64ColumnType{})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// GetFloat64 retrieves a single float64 from the column with the given name
func (r *rowImpl) GetFloat64(colName string) (float64, error) {
	v, err := r.getTyped(colName, &sifread.Float64ColumnType{})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// GetTime retrieves a single Time from the column with the given name. Works for timestamp and date columns.
func (r *rowImpl) GetTime(colName string) (time.Time, error) {
	col, err := r.schema.GetColumn(colName)
	if err != nil {
		return time.Time{}, err
	}
	v := r.values[col.Index()]
	if v == nil {
		return time.Time{}, errors.NilValueError{Name: colName}
	}
	tval, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("Column %s is of type %s, not timestamp", colName, col.Type().TypeName())
	}
	return tval, nil
}

// GetVarString retrieves a single string from the column with the given name
func (r *rowImpl) GetVarString(colName string) (string, error) {
	v, err := r.getTyped(colName, &sifread.VarStringColumnType{})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Set stores any value in the column with the given name, if it is compatible with the column's type
func (r *rowImpl) Set(colName string, value interface{}) error {
	col, err := r.schema.GetColumn(colName)
	if err != nil {
		return err
	}
	if value == nil {
		r.values[col.Index()] = nil
		return nil
	}
	if !col.Type().IsValid(value) {
		return fmt.Errorf("Value %#v cannot be stored in column %s of type %s", value, colName, col.Type().TypeName())
	}
	r.values[col.Index()] = value
	return nil
}

// SetBool modifies a single bool from the column with the given name.
func (r *rowImpl) SetBool(colName string, value bool) error {
	return r.Set(colName, value)
}

// SetInt32 modifies a single int32 from the column with the given name.
func (r *rowImpl) SetInt32(colName string, value int32) error {
	return r.Set(colName, value)
}

// SetInt64 modifies a single int64 from the column with the given name.
func (r *rowImpl) SetInt64(colName string, value int64) error {
	return r.Set(colName, value)
}

// SetFloat64 modifies a single float64 from the column with the given name.
func (r *rowImpl) SetFloat64(colName string, value float64) error {
	return r.Set(colName, value)
}

// SetTime modifies a single Time from the column with the given name.
func (r *rowImpl) SetTime(colName string, value time.Time) error {
	return r.Set(colName, value)
}

// SetVarString modifies a single string from the column with the given name.
func (r *rowImpl) SetVarString(colName string, value string) error {
	return r.Set(colName, value)
}

// Values returns a copy of the values of this row in column index order
func (r *rowImpl) Values() []interface{} {
	values := make([]interface{}, len(r.values))
	copy(values, r.values)
	return values
}
