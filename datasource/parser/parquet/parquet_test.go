package parquet

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
	"github.com/go-sif/sifread/datasource/memory"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
)

func testSchema() sifread.Schema {
	s := schema.CreateSchema()
	s.CreateNonNullableColumn("id", &sifread.Int32ColumnType{})
	s.CreateColumn("count", &sifread.Int64ColumnType{})
	s.CreateColumn("score", &sifread.Float64ColumnType{})
	s.CreateColumn("name", &sifread.VarStringColumnType{})
	s.CreateColumn("active", &sifread.BoolColumnType{})
	s.CreateColumn("seen", &sifread.TimeColumnType{})
	s.CreateColumn("day", &sifread.DateColumnType{})
	return s
}

func writeRows(t *testing.T, s sifread.Schema, rows [][]interface{}) []byte {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, s)
	require.Nil(t, err)
	row := datasource.CreateTempRow(s)
	names := s.ColumnNames()
	for _, values := range rows {
		datasource.ResetTempRow(row)
		for i, v := range values {
			if v != nil {
				require.Nil(t, row.Set(names[i], v))
			}
		}
		require.Nil(t, w.WriteRow(row))
	}
	require.Nil(t, w.Close())
	return buf.Bytes()
}

func loadAll(source sifread.DataSource, p sifread.DataSourceParser, s sifread.Schema) ([][]interface{}, error) {
	ctx := context.Background()
	pm, err := source.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	var rows [][]interface{}
	for pm.HasNext() {
		ps, err := pm.Next().Load(ctx, p, s)
		if err != nil {
			return nil, err
		}
		for ps.HasNextPartition() {
			part, err := ps.NextPartition()
			if err != nil {
				return nil, err
			}
			for i := 0; i < part.GetNumRows(); i++ {
				rows = append(rows, part.GetRow(i).Values())
			}
		}
	}
	return rows, nil
}

func TestRoundTrip(t *testing.T) {
	s := testSchema()
	seen := time.Date(2021, 1, 2, 3, 4, 5, 6000, time.UTC)
	day := time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := [][]interface{}{
		{int32(1), int64(10), 1.5, "a", true, seen, day},
		{int32(2), nil, nil, nil, nil, nil, nil},
		{int32(3), int64(30), 3.5, "c", false, seen, day},
	}
	data := writeRows(t, s, rows)
	source := memory.CreateDataSource([][]byte{data})

	p := CreateParser(&ParserConf{PartitionSize: 2})
	inferred, err := p.InferSchema(context.Background(), source)
	require.Nil(t, err)
	require.Nil(t, inferred.Equals(s))

	read, err := loadAll(source, p, s)
	require.Nil(t, err)
	require.Equal(t, rows, read)
}

func TestColumnsByName(t *testing.T) {
	data := writeRows(t, testSchema(), [][]interface{}{
		{int32(1), int64(10), 1.5, "a", true, nil, nil},
	})
	s := schema.CreateSchema()
	s.CreateColumn("name", &sifread.VarStringColumnType{})
	s.CreateColumn("id", &sifread.Int64ColumnType{})
	s.CreateColumn("missing", &sifread.BoolColumnType{})
	s.CreateColumn("score", &sifread.VarStringColumnType{})
	rows, err := loadAll(memory.CreateDataSource([][]byte{data}), CreateParser(&ParserConf{}), s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{"a", int64(1), nil, "1.5"}}, rows)
}

func TestIncompatibleColumn(t *testing.T) {
	data := writeRows(t, testSchema(), [][]interface{}{
		{int32(1), int64(10), 1.5, "a", true, nil, nil},
	})
	s := schema.CreateSchema()
	s.CreateColumn("name", &sifread.Int32ColumnType{})
	p := CreateParser(&ParserConf{Policy: &parser.RecordPolicy{Mode: sifread.DropMalformedMode}})
	rows, err := loadAll(memory.CreateDataSource([][]byte{data}), p, s)
	require.Nil(t, err)
	require.Empty(t, rows)

	p = CreateParser(&ParserConf{Policy: &parser.RecordPolicy{Mode: sifread.FailFastMode}})
	_, err = loadAll(memory.CreateDataSource([][]byte{data}), p, s)
	require.NotNil(t, err)
}
