package schema

import (
	"testing"

	"github.com/go-sif/sifread"
	"github.com/stretchr/testify/require"
)

func TestSchemaEqualityBasic(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &sifread.VarStringColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateNonNullableColumn("col3", &sifread.Int32ColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col2", &sifread.VarStringColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateNonNullableColumn("col3", &sifread.Int32ColumnType{})
	require.Nil(t, err)

	require.Nil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityDifferentType(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col1", &sifread.Int32ColumnType{})
	require.Nil(t, err)

	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityNullability(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateNonNullableColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)

	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityOrder(t *testing.T) {
	schema1 := CreateSchema()
	_, err := schema1.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)
	_, err = schema1.CreateColumn("col2", &sifread.Int32ColumnType{})
	require.Nil(t, err)

	schema2 := CreateSchema()
	_, err = schema2.CreateColumn("col2", &sifread.Int32ColumnType{})
	require.Nil(t, err)
	_, err = schema2.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)

	require.NotNil(t, schema1.Equals(schema2))
}

func TestDuplicateColumn(t *testing.T) {
	s := CreateSchema()
	_, err := s.CreateColumn("col1", &sifread.Int64ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("col1", &sifread.VarStringColumnType{})
	require.NotNil(t, err)
}

func TestRemoveAndRenameColumn(t *testing.T) {
	s := CreateSchema()
	s.CreateColumn("id", &sifread.Int32ColumnType{})
	s.CreateColumn("name", &sifread.VarStringColumnType{})
	s.CreateColumn("age", &sifread.Int32ColumnType{})

	_, removed := s.RemoveColumn("name")
	require.True(t, removed)
	_, removed = s.RemoveColumn("name")
	require.False(t, removed)
	require.Equal(t, []string{"id", "age"}, s.ColumnNames())
	col, err := s.GetColumn("age")
	require.Nil(t, err)
	require.Equal(t, 1, col.Index())

	_, err = s.RenameColumn("age", "years")
	require.Nil(t, err)
	require.Equal(t, []string{"id", "years"}, s.ColumnNames())
	_, err = s.RenameColumn("id", "years")
	require.NotNil(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	s := CreateSchema()
	s.CreateColumn("id", &sifread.Int32ColumnType{})
	clone := s.Clone()
	clone.CreateColumn("extra", &sifread.VarStringColumnType{})
	require.Equal(t, 1, s.NumColumns())
	require.Equal(t, 2, clone.NumColumns())
}

func TestTreeString(t *testing.T) {
	s := CreateSchema()
	s.CreateColumn("DEST_COUNTRY_NAME", &sifread.VarStringColumnType{})
	s.CreateColumn("ORIGIN_COUNTRY_NAME", &sifread.VarStringColumnType{})
	s.CreateNonNullableColumn("count", &sifread.Int32ColumnType{})
	expected := "root\n" +
		" |-- DEST_COUNTRY_NAME: string (nullable = true)\n" +
		" |-- ORIGIN_COUNTRY_NAME: string (nullable = true)\n" +
		" |-- count: integer (nullable = false)\n"
	require.Equal(t, expected, s.TreeString())
}

func TestParseDDL(t *testing.T) {
	s, err := ParseDDL("id INT, `full name` STRING NOT NULL, salary bigint, hired TIMESTAMP, score double, active boolean")
	require.Nil(t, err)
	require.Equal(t, []string{"id", "full name", "salary", "hired", "score", "active"}, s.ColumnNames())
	require.IsType(t, &sifread.Int32ColumnType{}, s.ColumnTypes()[0])
	require.IsType(t, &sifread.Int64ColumnType{}, s.ColumnTypes()[2])
	require.IsType(t, &sifread.TimeColumnType{}, s.ColumnTypes()[3])
	col, err := s.GetColumn("full name")
	require.Nil(t, err)
	require.False(t, col.Nullable())

	_, err = ParseDDL("id INTEGRAL")
	require.NotNil(t, err)
	_, err = ParseDDL("id INT NULLABLE")
	require.NotNil(t, err)
	_, err = ParseDDL("")
	require.NotNil(t, err)
}
