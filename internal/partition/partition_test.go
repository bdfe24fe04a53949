package partition

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
)

func createPartitionTestSchema() sifread.Schema {
	schema := schema.CreateSchema()
	schema.CreateColumn("id", &sifread.Int32ColumnType{})
	schema.CreateColumn("name", &sifread.VarStringColumnType{})
	schema.CreateColumn("ts", &sifread.TimeColumnType{})
	return schema
}

func appendTestRow(t *testing.T, part sifread.BuildablePartition, id int32, name string) {
	row, err := part.AppendEmptyRow()
	require.Nil(t, err)
	require.Nil(t, row.SetInt32("id", id))
	require.Nil(t, row.SetVarString("name", name))
}

func TestCreatePartitionImpl(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(4, schema)
	require.Equal(t, 4, part.GetMaxRows())
	require.Equal(t, 0, part.GetNumRows())
	require.NotEmpty(t, part.ID())
	require.Nil(t, part.CanInsertRow())
}

func TestAppendRow(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(4, schema)
	temp := CreateTempRow(schema)
	require.Nil(t, temp.SetInt32("id", 1))
	require.Nil(t, temp.SetVarString("name", "one"))
	require.Nil(t, part.AppendRow(temp))
	// the temp row is copied, so it may be reused
	ResetTempRow(temp)
	require.Nil(t, temp.SetInt32("id", 2))
	require.Nil(t, part.AppendRow(temp))
	require.Equal(t, 2, part.GetNumRows())

	id, err := part.GetRow(0).GetInt32("id")
	require.Nil(t, err)
	require.Equal(t, int32(1), id)
	name, err := part.GetRow(0).GetVarString("name")
	require.Nil(t, err)
	require.Equal(t, "one", name)
	id, err = part.GetRow(1).GetInt32("id")
	require.Nil(t, err)
	require.Equal(t, int32(2), id)
	require.True(t, part.GetRow(1).IsNil("name"))
}

func TestAppendIncompatibleRow(t *testing.T) {
	part := createPartitionImpl(4, createPartitionTestSchema())
	other := schema.CreateSchema()
	other.CreateColumn("id", &sifread.Int32ColumnType{})
	err := part.AppendRow(CreateTempRow(other))
	require.NotNil(t, err)
	_, ok := err.(errors.IncompatibleRowError)
	require.True(t, ok)
}

func TestPartitionFullError(t *testing.T) {
	part := createPartitionImpl(1, createPartitionTestSchema())
	appendTestRow(t, part, 1, "one")
	require.NotNil(t, part.CanInsertRow())
	_, err := part.AppendEmptyRow()
	require.NotNil(t, err)
	_, ok := err.(errors.PartitionFullError)
	require.True(t, ok)
}

func TestMapAndFilterRows(t *testing.T) {
	part := createPartitionImpl(8, createPartitionTestSchema())
	for i := int32(0); i < 6; i++ {
		appendTestRow(t, part, i, "row")
	}
	mapped, err := part.MapRows(func(row sifread.Row) error {
		id, err := row.GetInt32("id")
		if err != nil {
			return err
		}
		return row.SetInt32("id", id*10)
	})
	require.Nil(t, err)
	filtered, err := mapped.FilterRows(func(row sifread.Row) (bool, error) {
		id, err := row.GetInt32("id")
		return id >= 30, err
	})
	require.Nil(t, err)
	require.Equal(t, 3, filtered.GetNumRows())
	var ids []int32
	require.Nil(t, filtered.ForEachRow(func(row sifread.Row) error {
		id, err := row.GetInt32("id")
		ids = append(ids, id)
		return err
	}))
	require.Equal(t, []int32{30, 40, 50}, ids)
}

func TestProjectAndTruncate(t *testing.T) {
	part := createPartitionImpl(8, createPartitionTestSchema())
	appendTestRow(t, part, 1, "one")
	appendTestRow(t, part, 2, "two")
	appendTestRow(t, part, 3, "three")

	projectedSchema := schema.CreateSchema()
	projectedSchema.CreateColumn("label", &sifread.VarStringColumnType{})
	projectedSchema.CreateColumn("id", &sifread.Int32ColumnType{})
	projected, err := part.Project(projectedSchema, []string{"name", "id"})
	require.Nil(t, err)
	require.Equal(t, 3, projected.GetNumRows())
	require.Equal(t, []interface{}{"two", int32(2)}, projected.GetRow(1).Values())

	_, err = part.Project(projectedSchema, []string{"missing", "id"})
	require.NotNil(t, err)

	truncated := projected.Truncate(2)
	require.Equal(t, 2, truncated.GetNumRows())
	require.Equal(t, 3, projected.Truncate(10).GetNumRows())
	require.Equal(t, 0, projected.Truncate(0).GetNumRows())
}

func TestSerializers(t *testing.T) {
	schema := createPartitionTestSchema()
	part := createPartitionImpl(8, schema)
	appendTestRow(t, part, 1, "one")
	row, err := part.AppendEmptyRow()
	require.Nil(t, err)
	ts := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	require.Nil(t, row.SetTime("ts", ts))

	zstdSerializer, err := NewZstdPartitionSerializer()
	require.Nil(t, err)
	for _, serializer := range []sifread.PartitionSerializer{NewLZ4PartitionSerializer(), zstdSerializer} {
		buf := new(bytes.Buffer)
		require.Nil(t, serializer.Compress(buf, part))
		result, err := serializer.Decompress(buf, schema)
		require.Nil(t, err)
		require.Equal(t, part.ID(), result.ID())
		require.Equal(t, 2, result.GetNumRows())
		require.Equal(t, []interface{}{int32(1), "one", nil}, result.GetRow(0).Values())
		decoded, err := result.GetRow(1).GetTime("ts")
		require.Nil(t, err)
		require.True(t, ts.Equal(decoded))
		require.True(t, result.GetRow(1).IsNil("id"))
	}
}
