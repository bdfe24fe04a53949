package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-sif/sifread"
)

// column describes the position, type and nullability
// of a field in a Row.
type column struct {
	idx      int
	colType  sifread.ColumnType
	nullable bool
}

// Clone returns a copy of this Column
func (c *column) Clone() sifread.Column {
	return &column{c.idx, c.colType, c.nullable}
}

// Index returns the index of this Column within a Schema
func (c *column) Index() int {
	return c.idx
}

// SetIndex modifies the index of this Column within a Schema
func (c *column) SetIndex(newIndex int) {
	c.idx = newIndex
}

// Type returns the ColumnType of this Column
func (c *column) Type() sifread.ColumnType {
	return c.colType
}

// Nullable returns true iff this Column may contain nil values
func (c *column) Nullable() bool {
	return c.nullable
}

// schema is an ordered mapping from column names to Columns.
type schema struct {
	schema map[string]sifread.Column
	names  []string // column names in index order
}

// CreateSchema is a factory for Schemas
func CreateSchema() sifread.Schema {
	return &schema{
		schema: make(map[string]sifread.Column),
		names:  make([]string, 0),
	}
}

// Equals returns nil iff this and another Schema have the same columns, in the same order, with the same types and nullability
func (s *schema) Equals(otherSchema sifread.Schema) error {
	if s.NumColumns() != otherSchema.NumColumns() {
		return fmt.Errorf("Schemas have unequal numbers of columns")
	}
	return s.ForEachColumn(func(name string, col sifread.Column) error {
		otherCol, err := otherSchema.GetColumn(name)
		if err != nil {
			return err
		}
		if col.Index() != otherCol.Index() {
			return fmt.Errorf("Column %s indices do not match", name)
		}
		if reflect.TypeOf(col.Type()) != reflect.TypeOf(otherCol.Type()) {
			return fmt.Errorf("Column %s types do not match", name)
		}
		if col.Nullable() != otherCol.Nullable() {
			return fmt.Errorf("Column %s nullability does not match", name)
		}
		return nil
	})
}

// Clone returns a copy of this Schema
func (s *schema) Clone() sifread.Schema {
	newSchema := make(map[string]sifread.Column, len(s.schema))
	for k, v := range s.schema {
		newSchema[k] = v.Clone()
	}
	newNames := make([]string, len(s.names))
	copy(newNames, s.names)
	return &schema{schema: newSchema, names: newNames}
}

// NumColumns returns the number of columns in this Schema
func (s *schema) NumColumns() int {
	return len(s.names)
}

// GetColumn returns the Column with the given name
func (s *schema) GetColumn(colName string) (col sifread.Column, err error) {
	col, ok := s.schema[colName]
	if !ok {
		err = fmt.Errorf("Schema does not contain column with name %s", colName)
	}
	return
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, ok := s.schema[colName]
	return ok
}

func (s *schema) createColumn(colName string, columnType sifread.ColumnType, nullable bool) (sifread.Schema, error) {
	if len(colName) == 0 {
		return nil, fmt.Errorf("Column names cannot be empty")
	}
	if columnType == nil {
		return nil, fmt.Errorf("Column %s must have a type", colName)
	}
	if _, exists := s.schema[colName]; exists {
		return nil, fmt.Errorf("Schema already contains column with name %s", colName)
	}
	s.schema[colName] = &column{len(s.names), columnType, nullable}
	s.names = append(s.names, colName)
	return s, nil
}

// CreateColumn defines a new nullable column at the end of the Schema
func (s *schema) CreateColumn(colName string, columnType sifread.ColumnType) (newSchema sifread.Schema, err error) {
	return s.createColumn(colName, columnType, true)
}

// CreateNonNullableColumn defines a new column at the end of the Schema, which may not contain nil values
func (s *schema) CreateNonNullableColumn(colName string, columnType sifread.ColumnType) (newSchema sifread.Schema, err error) {
	return s.createColumn(colName, columnType, false)
}

// RenameColumn renames a column within the Schema, preserving its position
func (s *schema) RenameColumn(oldName string, newName string) (newSchema sifread.Schema, err error) {
	col, err := s.GetColumn(oldName)
	if err != nil {
		return nil, err
	}
	if oldName == newName {
		return s, nil
	}
	if s.HasColumn(newName) {
		return nil, fmt.Errorf("Schema already contains column with name %s", newName)
	}
	s.schema[newName] = col
	delete(s.schema, oldName)
	s.names[col.Index()] = newName
	return s, nil
}

// RemoveColumn removes a column from the Schema, shifting later columns down
func (s *schema) RemoveColumn(colName string) (sifread.Schema, bool) {
	col, ok := s.schema[colName]
	if !ok {
		return s, false
	}
	idx := col.Index()
	delete(s.schema, colName)
	s.names = append(s.names[:idx], s.names[idx+1:]...)
	for i := idx; i < len(s.names); i++ {
		s.schema[s.names[i]].SetIndex(i)
	}
	return s, true
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// ColumnTypes returns the types in the schema, in index order
func (s *schema) ColumnTypes() []sifread.ColumnType {
	types := make([]sifread.ColumnType, len(s.names))
	for i, name := range s.names {
		types[i] = s.schema[name].Type()
	}
	return types
}

// ForEachColumn iterates over the columns in this Schema, in index order
func (s *schema) ForEachColumn(fn func(name string, col sifread.Column) error) error {
	for _, name := range s.names {
		err := fn(name, s.schema[name])
		if err != nil {
			return err
		}
	}
	return nil
}

// TreeString renders this Schema as an indented tree
func (s *schema) TreeString() string {
	var res strings.Builder
	res.WriteString("root\n")
	s.ForEachColumn(func(name string, col sifread.Column) error {
		fmt.Fprintf(&res, " |-- %s: %s (nullable = %t)\n", name, col.Type().TypeName(), col.Nullable())
		return nil
	})
	return res.String()
}
