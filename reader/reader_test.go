package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sif/sifread"
	siferrors "github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/execution"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/logging"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
)

const flightsCSV = `DEST_COUNTRY_NAME,ORIGIN_COUNTRY_NAME,count
United States,Romania,15
United States,Croatia,1
United States,Sweden,abc
Moldova,United States
Egypt,United States,15.5
`

const flightsJSON = `{"DEST_COUNTRY_NAME":"United States","ORIGIN_COUNTRY_NAME":"Romania","count":15}
{"DEST_COUNTRY_NAME":"United States","ORIGIN_COUNTRY_NAME":"Croatia","count":1,"extra":{"flag":true}}
not json
`

func writeFile(t *testing.T, dir string, name string, contents string) string {
	path := filepath.Join(dir, name)
	require.Nil(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.Nil(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func newReader() *DataFrameReader {
	return New(fileio.NewLocalFileIO(), logging.Discard())
}

func collect(t *testing.T, df sifread.DataFrame) ([]sifread.Row, error) {
	return execution.Collect(context.Background(), df, &execution.Options{
		TempDir: t.TempDir(),
		Logger:  logging.Discard(),
	})
}

func TestExplicitSchemaWins(t *testing.T) {
	path := writeFile(t, t.TempDir(), "flights.csv", flightsCSV)
	df, err := newReader().
		Option("header", true).
		Option("inferSchema", "true").
		SchemaDDL("dest STRING, origin STRING, count INT").
		Load(context.Background(), path)
	require.Nil(t, err)
	require.Equal(t, []string{"dest", "origin", "count"}, df.GetSchema().ColumnNames())

	rows, err := collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 5)
	require.True(t, rows[2].IsNil("count"))
	require.True(t, rows[3].IsNil("count"))
	require.True(t, rows[4].IsNil("count"))
}

func TestHeaderSchemaAndDefaultNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "flights.csv", flightsCSV)
	df, err := newReader().Option("header", "true").Load(context.Background(), path)
	require.Nil(t, err)
	require.Equal(t, "root\n"+
		" |-- DEST_COUNTRY_NAME: string (nullable = true)\n"+
		" |-- ORIGIN_COUNTRY_NAME: string (nullable = true)\n"+
		" |-- count: string (nullable = true)\n", df.GetSchema().TreeString())

	df, err = newReader().Format("CSV").Load(context.Background(), path)
	require.Nil(t, err)
	require.Equal(t, []string{"_c0", "_c1", "_c2"}, df.GetSchema().ColumnNames())
	rows, err := collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 6)
}

func TestInferSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "numbers.tsv", "id\tscore\tname\tbig\n1\t1.5\ta\t5000000000\n2\t2\tb\t1\n")
	df, err := newReader().
		Options(map[string]string{"header": "true", "inferSchema": "true", "SEP": `\t`}).
		Load(context.Background(), path)
	require.Nil(t, err)
	types := make([]string, 0)
	for _, ct := range df.GetSchema().ColumnTypes() {
		types = append(types, ct.TypeName())
	}
	require.Equal(t, []string{"id", "score", "name", "big"}, df.GetSchema().ColumnNames())
	require.Equal(t, []string{"integer", "double", "string", "long"}, types)
}

func TestModes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "flights.csv", flightsCSV)
	ddl := "DEST_COUNTRY_NAME STRING, ORIGIN_COUNTRY_NAME STRING, count INT"

	// PERMISSIVE keeps every row, and fills the corrupt record column if declared
	df, err := newReader().Option("header", true).SchemaDDL(ddl+", _corrupt_record STRING").Load(context.Background(), path)
	require.Nil(t, err)
	rows, err := collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 5)
	require.True(t, rows[0].IsNil("_corrupt_record"))
	corrupt, err := rows[3].GetVarString("_corrupt_record")
	require.Nil(t, err)
	require.Equal(t, "Moldova,United States", corrupt)

	df, err = newReader().Option("header", true).Option("mode", "dropMalformed").SchemaDDL(ddl).Load(context.Background(), path)
	require.Nil(t, err)
	rows, err = collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 2)

	df, err = newReader().Option("header", true).Option("mode", "FAILFAST").SchemaDDL(ddl).Load(context.Background(), path)
	require.Nil(t, err)
	_, err = collect(t, df)
	var malformed *siferrors.MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, 4, malformed.Line)
	require.Equal(t, "United States,Sweden,abc", malformed.Record)

	// unknown modes are permissive
	df, err = newReader().Option("header", true).Option("mode", "lenient").SchemaDDL(ddl).Load(context.Background(), path)
	require.Nil(t, err)
	rows, err = collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 5)
}

const employeeCSV = `id,name,age,salary,address,nominee
1,Sean,28,1000.5,Dublin,Chris
2,Ana,35,2000,Lisbon,Rui
3,Li,40,3000,Beijing,Wei,extra
4,Omar,22,1500,Cairo,Hana,extra
5,Eva,31,2500,Oslo,Ola
`

func TestInferSchemaWithRaggedRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "employee.csv", employeeCSV)
	cases := []struct {
		mode string
		ids  []int32
		line int
	}{
		{mode: "PERMISSIVE", ids: []int32{1, 2, 3, 4, 5}},
		{mode: "DROPMALFORMED", ids: []int32{1, 2, 5}},
		{mode: "FAILFAST", line: 4},
	}
	for _, c := range cases {
		t.Run(c.mode, func(t *testing.T) {
			df, err := newReader().
				Option("header", true).
				Option("inferSchema", true).
				Option("mode", c.mode).
				Load(context.Background(), path)
			require.Nil(t, err)
			require.Equal(t, []string{"id", "name", "age", "salary", "address", "nominee"}, df.GetSchema().ColumnNames())
			id, err := df.GetSchema().GetColumn("id")
			require.Nil(t, err)
			require.Equal(t, "integer", id.Type().TypeName())

			rows, err := collect(t, df)
			if c.line > 0 {
				var malformed *siferrors.MalformedRecordError
				require.True(t, errors.As(err, &malformed))
				require.Equal(t, c.line, malformed.Line)
				return
			}
			require.Nil(t, err)
			ids := make([]int32, 0, len(rows))
			for _, row := range rows {
				n, err := row.GetInt32("id")
				require.Nil(t, err)
				ids = append(ids, n)
			}
			require.Equal(t, c.ids, ids)
		})
	}
}

func TestBadRecordsPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "input/flights.csv", flightsCSV)
	badPath := filepath.Join(dir, "bad")
	r := newReader()
	r.now = func() time.Time { return time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC) }
	df, err := r.Option("header", true).
		Option("mode", "FAILFAST").
		Option("badRecordsPath", badPath).
		SchemaDDL("DEST_COUNTRY_NAME STRING, ORIGIN_COUNTRY_NAME STRING, count INT").
		Load(context.Background(), path)
	require.Nil(t, err)
	rows, err := collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 2)

	badDir := filepath.Join(badPath, "20210304T050607", "bad_records")
	bad, err := newReader().Format("json").Load(context.Background(), badDir)
	require.Nil(t, err)
	require.Equal(t, []string{"path", "reason", "record"}, bad.GetSchema().ColumnNames())
	rows, err = collect(t, bad)
	require.Nil(t, err)
	require.Len(t, rows, 3)
	records := make([]string, len(rows))
	for i, row := range rows {
		records[i], err = row.GetVarString("record")
		require.Nil(t, err)
		source, err := row.GetVarString("path")
		require.Nil(t, err)
		require.Equal(t, path, source)
	}
	require.Equal(t, []string{"United States,Sweden,abc", "Moldova,United States", "Egypt,United States,15.5"}, records)
}

func TestJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "flights.json", flightsJSON)
	df, err := newReader().Format("json").Load(context.Background(), path)
	require.Nil(t, err)
	require.Equal(t, []string{"DEST_COUNTRY_NAME", "ORIGIN_COUNTRY_NAME", "count", "extra.flag", "_corrupt_record"}, df.GetSchema().ColumnNames())
	rows, err := collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 3)
	flag, err := rows[1].GetBool("extra.flag")
	require.Nil(t, err)
	require.True(t, flag)
	corrupt, err := rows[2].GetVarString("_corrupt_record")
	require.Nil(t, err)
	require.Equal(t, "not json", corrupt)

	df, err = newReader().Format("json").Option("mode", "DROPMALFORMED").Load(context.Background(), path)
	require.Nil(t, err)
	require.False(t, df.GetSchema().HasColumn("_corrupt_record"))
	rows, err = collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 2)
}

func TestDirectoriesAndGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/part-0.csv", "a,1\n")
	writeFile(t, dir, "data/part-1.csv", "b,2\nc,3\n")
	writeFile(t, dir, "data/_SUCCESS", "")
	writeFile(t, dir, "data/.part-1.csv.crc", "garbage")
	s := schema.CreateSchema()
	s.CreateColumn("letter", &sifread.VarStringColumnType{})
	s.CreateColumn("n", &sifread.Int32ColumnType{})

	df, err := newReader().Schema(s).Load(context.Background(), filepath.Join(dir, "data"))
	require.Nil(t, err)
	rows, err := collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 3)

	df, err = newReader().Schema(s).Load(context.Background(), filepath.Join(dir, "data", "part-*.csv"))
	require.Nil(t, err)
	rows, err = collect(t, df)
	require.Nil(t, err)
	require.Len(t, rows, 3)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flights.csv", flightsCSV)
	ctx := context.Background()

	_, err := newReader().Format("xml").Load(ctx, path)
	require.True(t, errors.Is(err, siferrors.ErrUnsupportedFormat))

	_, err = newReader().Load(ctx, filepath.Join(dir, "missing.csv"))
	require.True(t, errors.Is(err, siferrors.ErrNoInputFiles))
	_, err = newReader().Load(ctx, filepath.Join(dir, "*.json"))
	require.True(t, errors.Is(err, siferrors.ErrNoInputFiles))
	_, err = newReader().Load(ctx)
	require.True(t, errors.Is(err, siferrors.ErrNoInputFiles))

	_, err = newReader().SchemaDDL("id WHATEVER").Load(ctx, path)
	require.NotNil(t, err)

	for option, value := range map[string]string{
		"header":        "maybe",
		"sep":           ";;",
		"samplingRatio": "0",
		"skipRows":      "-1",
		"partitionSize": "none",
		"comment":       ",",
	} {
		_, err = newReader().Option(option, value).Load(ctx, path)
		var invalid *siferrors.InvalidOptionError
		require.True(t, errors.As(err, &invalid), option)
		require.Equal(t, normalizeKey(option), invalid.Option)
	}
}
