package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	siferrors "github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/execution"
	"github.com/stretchr/testify/require"
)

const flightsCSV = `DEST_COUNTRY_NAME,ORIGIN_COUNTRY_NAME,count
United States,Romania,15
United States,Croatia,1
Egypt,United States,15
Costa Rica,United States,588
`

func writeFlights(t *testing.T, dir string) string {
	path := filepath.Join(dir, "flights.csv")
	require.Nil(t, os.WriteFile(path, []byte(flightsCSV), 0644))
	return path
}

func testSession(t *testing.T) (*Session, string) {
	dir := t.TempDir()
	path := writeFlights(t, dir)
	s := Create(&Options{
		LogLevel:     "error",
		WarehouseDir: filepath.Join(dir, "warehouse"),
		ReadOptions:  map[string]string{"header": "true"},
		Execution:    execution.Options{TempDir: t.TempDir()},
		LogOutput:    &bytes.Buffer{},
	})
	return s, path
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(`
appName:      flights
logLevel:     debug
warehouseDir: /data/warehouse
readOptions:
header: "true"
mode:   DROPMALFORMED
execution:
numWorkers: 3
spillCodec: zstd
s3:
region:         us-east-1
forcePathStyle: true
`))
	require.Nil(t, err)
	require.Equal(t, "flights", opts.AppName)
	require.Equal(t, "/data/warehouse", opts.WarehouseDir)
	require.Equal(t, "DROPMALFORMED", opts.ReadOptions["mode"])
	require.Equal(t, 3, opts.Execution.NumWorkers)
	require.Equal(t, "zstd", opts.Execution.SpillCodec)
	require.Equal(t, "us-east-1", opts.S3.Region)
	require.True(t, opts.S3.ForcePathStyle)

	_, err = ParseOptions([]byte("execution: [1, 2"))
	require.NotNil(t, err)

	defaults := ensureDefaultOptionsValues(nil)
	require.Equal(t, "sifread", defaults.AppName)
	require.Equal(t, DefaultWarehouseDir, defaults.WarehouseDir)
	require.NotNil(t, defaults.ReadOptions)
}

func TestReadQueryWrite(t *testing.T) {
	ctx := context.Background()
	s, path := testSession(t)
	defer s.Stop()

	df, err := s.Read().Option("inferSchema", "true").Load(ctx, path)
	require.Nil(t, err)
	n, err := s.Count(ctx, df)
	require.Nil(t, err)
	require.Equal(t, 4, n)

	var schemaBuf bytes.Buffer
	require.Nil(t, s.PrintSchema(&schemaBuf, df))
	require.Contains(t, schemaBuf.String(), " |-- count: integer (nullable = true)")

	require.Nil(t, s.CreateTempView("flights", df))
	require.True(t, errors.Is(s.CreateTempView("FLIGHTS", df), siferrors.ErrTableAlreadyExists))

	result, err := s.SQL(ctx, "SELECT DEST_COUNTRY_NAME AS dest, count FROM flights WHERE count > 10 LIMIT 2")
	require.Nil(t, err)
	rows, err := s.Collect(ctx, result)
	require.Nil(t, err)
	require.Len(t, rows, 2)
	dest, err := rows[0].GetVarString("dest")
	require.Nil(t, err)
	require.Equal(t, "United States", dest)

	taken, err := s.Take(ctx, df, 1)
	require.Nil(t, err)
	require.Len(t, taken, 1)

	require.Nil(t, s.Write(result).SaveAsTable(ctx, "big_flights"))
	saved, err := s.Table(ctx, "big_flights")
	require.Nil(t, err)
	n, err = s.Count(ctx, saved)
	require.Nil(t, err)
	require.Equal(t, 2, n)

	tables, err := s.ListTables(ctx)
	require.Nil(t, err)
	require.Len(t, tables, 2)
	require.Equal(t, "big_flights", tables[0].Name)
	require.False(t, tables[0].IsTemporary)
	require.Equal(t, "flights", tables[1].Name)
	require.True(t, tables[1].IsTemporary)

	var out bytes.Buffer
	require.Nil(t, s.Show(ctx, &out, saved, -1, true))
	require.Contains(t, out.String(), "|         dest|count|")

	require.True(t, s.DropTempView("flights"))
	_, err = s.Table(ctx, "flights")
	require.True(t, errors.Is(err, siferrors.ErrTableNotFound))
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	s, path := testSession(t)
	df, err := s.Read().Load(ctx, path)
	require.Nil(t, err)
	require.Nil(t, s.CreateOrReplaceTempView("flights", df))

	s.Stop()
	s.Stop()
	_, err = s.Count(ctx, df)
	require.True(t, errors.Is(err, ErrStopped))
	_, err = s.SQL(ctx, "SELECT * FROM flights")
	require.True(t, errors.Is(err, ErrStopped))
	require.False(t, s.DropTempView("flights"))
}

func TestStopWithUnreadableWarehouse(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.Nil(t, os.WriteFile(blocker, []byte("x"), 0644))
	s := Create(&Options{
		WarehouseDir: filepath.Join(blocker, "warehouse"),
		Execution:    execution.Options{TempDir: t.TempDir()},
		LogOutput:    &bytes.Buffer{},
	})
	df, err := s.Read().Load(ctx, writeFlights(t, dir))
	require.Nil(t, err)
	require.Nil(t, s.CreateTempView("flights", df))
	_, err = s.ListTables(ctx)
	require.NotNil(t, err)

	s.Stop()
	require.False(t, s.Catalog().DropTempView("flights"))
}
