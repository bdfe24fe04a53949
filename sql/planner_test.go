package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/catalog"
	"github.com/go-sif/sifread/datasource/memory"
	"github.com/go-sif/sifread/datasource/parser/dsv"
	siferrors "github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/execution"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/logging"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
)

const flightData = `United States,Romania,15
United States,Croatia,1
Egypt,United States,
Costa Rica,United States,588
`

func flightsCatalog(t *testing.T) (*catalog.Catalog, sifread.DataFrame) {
	s := schema.CreateSchema()
	s.CreateColumn("DEST_COUNTRY_NAME", &sifread.VarStringColumnType{})
	s.CreateColumn("ORIGIN_COUNTRY_NAME", &sifread.VarStringColumnType{})
	s.CreateColumn("count", &sifread.Int32ColumnType{})
	df := memory.CreateDataFrame([][]byte{[]byte(flightData)}, dsv.CreateParser(&dsv.ParserConf{PartitionSize: 2}), s)
	c := catalog.New(fileio.NewLocalFileIO(), "", logging.Discard())
	require.Nil(t, c.CreateOrReplaceTempView("flights", df))
	return c, df
}

func run(t *testing.T, c *catalog.Catalog, query string) (sifread.Schema, [][]interface{}) {
	df, err := Execute(context.Background(), query, c)
	require.Nil(t, err)
	rows, err := execution.Collect(context.Background(), df, &execution.Options{
		TempDir: t.TempDir(),
		Logger:  logging.Discard(),
	})
	require.Nil(t, err)
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row.Values()
	}
	return df.GetSchema(), values
}

func TestSelectStarReturnsView(t *testing.T) {
	c, df := flightsCatalog(t)
	s, rows := run(t, c, "select * from flights")
	require.Nil(t, s.Equals(df.GetSchema()))
	require.Equal(t, [][]interface{}{
		{"United States", "Romania", int32(15)},
		{"United States", "Croatia", int32(1)},
		{"Egypt", "United States", nil},
		{"Costa Rica", "United States", int32(588)},
	}, rows)
}

func TestSelectWhere(t *testing.T) {
	c, _ := flightsCatalog(t)
	s, rows := run(t, c, "SELECT dest_country_name AS dest, count FROM FLIGHTS WHERE count > 10")
	require.Equal(t, []string{"dest", "count"}, s.ColumnNames())
	require.Equal(t, [][]interface{}{
		{"United States", int32(15)},
		{"Costa Rica", int32(588)},
	}, rows)

	// comparisons with null are neither true nor false
	_, rows = run(t, c, "select DEST_COUNTRY_NAME from flights where not count > 10")
	require.Equal(t, [][]interface{}{{"United States"}}, rows)

	_, rows = run(t, c, "select DEST_COUNTRY_NAME from flights where count is null or count = '1'")
	require.Equal(t, [][]interface{}{{"United States"}, {"Egypt"}}, rows)

	_, rows = run(t, c, "select count from flights where ORIGIN_COUNTRY_NAME = 'United States' and count is not null")
	require.Equal(t, [][]interface{}{{int32(588)}}, rows)

	_, rows = run(t, c, "select count from flights where count >= 1.5 limit 1")
	require.Equal(t, [][]interface{}{{int32(15)}}, rows)

	_, rows = run(t, c, "select ORIGIN_COUNTRY_NAME from flights where 'Egypt' < DEST_COUNTRY_NAME")
	require.Equal(t, [][]interface{}{{"Romania"}, {"Croatia"}}, rows)
}

func TestShowTablesAndDescribe(t *testing.T) {
	c, _ := flightsCatalog(t)
	s, rows := run(t, c, "show tables")
	require.Equal(t, []string{"namespace", "tableName", "isTemporary"}, s.ColumnNames())
	require.Equal(t, [][]interface{}{{"", "flights", true}}, rows)

	_, rows = run(t, c, "describe flights")
	require.Equal(t, [][]interface{}{
		{"DEST_COUNTRY_NAME", "string", nil},
		{"ORIGIN_COUNTRY_NAME", "string", nil},
		{"count", "integer", nil},
	}, rows)
}

func TestPlanErrors(t *testing.T) {
	c, _ := flightsCatalog(t)
	ctx := context.Background()
	_, err := Execute(ctx, "select * from missing", c)
	require.True(t, errors.Is(err, siferrors.ErrTableNotFound))
	_, err = Execute(ctx, "describe missing", c)
	require.True(t, errors.Is(err, siferrors.ErrTableNotFound))
	_, err = Execute(ctx, "select nope from flights", c)
	require.NotNil(t, err)
	_, err = Execute(ctx, "select count from flights where nope = 1", c)
	require.NotNil(t, err)
	_, err = Execute(ctx, "select from flights", c)
	require.True(t, errors.Is(err, siferrors.ErrSQLSyntax))
}

func TestCompareValues(t *testing.T) {
	cmp, ok := compareValues(int32(3), int64(3))
	require.True(t, ok)
	require.Equal(t, 0, cmp)
	cmp, ok = compareValues(2.5, int64(3))
	require.True(t, ok)
	require.Equal(t, -1, cmp)
	cmp, ok = compareValues(true, "false")
	require.True(t, ok)
	require.Equal(t, 1, cmp)
	_, ok = compareValues(int32(3), "three")
	require.False(t, ok)
	_, ok = compareValues(nil, int64(3))
	require.False(t, ok)
	_, ok = compareValues(true, int64(1))
	require.False(t, ok)
}
