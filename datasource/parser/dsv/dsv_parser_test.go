package dsv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/memory"
	"github.com/go-sif/sifread/datasource/parser"
	siferrors "github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const flights = `this line is skipped
DEST_COUNTRY_NAME,ORIGIN_COUNTRY_NAME,count
United States,Romania,15
# a comment
United States,Croatia,1
Egypt,United States,fifteen
"Costa Rica, Republic of",United States,588

Ireland,United States
`

func flightSchema(withCorrupt bool) sifread.Schema {
	s := schema.CreateSchema()
	s.CreateColumn("DEST_COUNTRY_NAME", &sifread.VarStringColumnType{})
	s.CreateColumn("ORIGIN_COUNTRY_NAME", &sifread.VarStringColumnType{})
	s.CreateColumn("count", &sifread.Int32ColumnType{})
	if withCorrupt {
		s.CreateColumn(sifread.DefaultCorruptRecordColumn, &sifread.VarStringColumnType{})
	}
	return s
}

func flightParser(policy *parser.RecordPolicy) *Parser {
	return CreateParser(&ParserConf{
		PartitionSize: 2,
		SkipRows:      1,
		Header:        true,
		Comment:       '#',
		Policy:        policy,
	})
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

func TestPermissive(t *testing.T) {
	source := memory.CreateDataSource([][]byte{[]byte(flights)})
	rows, err := loadAll(source, flightParser(nil), flightSchema(true))
	require.Nil(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, []interface{}{"United States", "Romania", int32(15), nil}, rows[0])
	require.Equal(t, []interface{}{"Egypt", "United States", nil, "Egypt,United States,fifteen"}, rows[2])
	require.Equal(t, []interface{}{"Costa Rica, Republic of", "United States", int32(588), nil}, rows[3])
	require.Equal(t, []interface{}{"Ireland", "United States", nil, "Ireland,United States"}, rows[4])
}

func TestPermissiveWithoutCorruptColumn(t *testing.T) {
	source := memory.CreateDataSource([][]byte{[]byte(flights)})
	rows, err := loadAll(source, flightParser(nil), flightSchema(false))
	require.Nil(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, []interface{}{"Egypt", "United States", nil}, rows[2])
}

func TestDropMalformed(t *testing.T) {
	source := memory.CreateDataSource([][]byte{[]byte(flights)})
	rows, err := loadAll(source, flightParser(&parser.RecordPolicy{Mode: sifread.DropMalformedMode}), flightSchema(true))
	require.Nil(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		require.NotNil(t, row[2])
		require.Nil(t, row[3])
	}
}

func TestFailFast(t *testing.T) {
	source := memory.CreateDataSource([][]byte{[]byte(flights)})
	_, err := loadAll(source, flightParser(&parser.RecordPolicy{Mode: sifread.FailFastMode}), flightSchema(false))
	require.NotNil(t, err)
	require.True(t, errors.Is(err, siferrors.ErrMalformedRecord))
	var malformed *siferrors.MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, 6, malformed.Line)
	require.Equal(t, "memory[0]", malformed.Path)
	require.Equal(t, "Egypt,United States,fifteen", malformed.Record)
}

func TestBadRecordsPath(t *testing.T) {
	dir := t.TempDir()
	fio := fileio.NewLocalFileIO()
	writer := parser.NewBadRecordsWriter(fio, dir, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))
	require.Equal(t, filepath.Join(dir, "20200102T030405", "bad_records"), writer.Dir())
	// the mode is ignored when bad records are diverted
	policy := &parser.RecordPolicy{Mode: sifread.FailFastMode, BadRecords: writer}
	source := memory.CreateDataSource([][]byte{[]byte(flights)})
	rows, err := loadAll(source, flightParser(policy), flightSchema(true))
	require.Nil(t, err)
	require.Len(t, rows, 3)

	files, err := fio.ListFiles(context.Background(), writer.Dir())
	require.Nil(t, err)
	require.NotEmpty(t, files)
	var records []gjson.Result
	for _, f := range files {
		require.True(t, strings.HasPrefix(filepath.Base(f), "part-"))
		contents, err := os.ReadFile(f)
		require.Nil(t, err)
		for _, line := range strings.Split(strings.TrimSpace(string(contents)), "\n") {
			records = append(records, gjson.Parse(line))
		}
	}
	require.Len(t, records, 2)
	recordText := []string{records[0].Get("record").String(), records[1].Get("record").String()}
	require.ElementsMatch(t, []string{"Egypt,United States,fifteen", "Ireland,United States"}, recordText)
	for _, r := range records {
		require.Equal(t, "memory[0]", r.Get("path").String())
		require.NotEmpty(t, r.Get("reason").String())
	}
}

func TestNilValueAndDelimiter(t *testing.T) {
	s := schema.CreateSchema()
	s.CreateColumn("name", &sifread.VarStringColumnType{})
	s.CreateNonNullableColumn("score", &sifread.Float64ColumnType{})
	s.CreateColumn("seen", &sifread.TimeColumnType{Format: "2006-01-02 15:04"})
	p := CreateParser(&ParserConf{
		Delimiter: '|',
		NilValue:  "NA",
		Policy:    &parser.RecordPolicy{Mode: sifread.DropMalformedMode},
	})
	data := "a|1.5|2020-03-04 05:06\nb|NA|NA\nc|2|NA\n"
	rows, err := loadAll(memory.CreateDataSource([][]byte{[]byte(data)}), p, s)
	require.Nil(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, time.Date(2020, 3, 4, 5, 6, 0, 0, time.UTC), rows[0][2])
	require.Equal(t, []interface{}{"c", float64(2), nil}, rows[1])
}

func TestHeaderPerFile(t *testing.T) {
	p := CreateParser(&ParserConf{Header: true})
	s := schema.CreateSchema()
	s.CreateColumn("a", &sifread.Int64ColumnType{})
	source := memory.CreateDataSource([][]byte{[]byte("a\n1\n2\n"), []byte("a\n3\n")})
	rows, err := loadAll(source, p, s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(1)}, {int64(2)}, {int64(3)}}, rows)
}

func TestInferSchema(t *testing.T) {
	p := CreateParser(&ParserConf{Header: true, SamplingRatio: 1})
	source := memory.CreateDataSource([][]byte{
		[]byte("id,score,name,id\n1,2.5,x,4\n2,3,y,5\n"),
		[]byte("id,score,name,id\n3,4,z,6\n"),
	})
	s, err := p.InferSchema(context.Background(), source)
	require.Nil(t, err)
	require.Equal(t, []string{"id0", "score", "name", "id3"}, s.ColumnNames())
	var types []string
	for _, ct := range s.ColumnTypes() {
		types = append(types, ct.TypeName())
	}
	require.Equal(t, []string{"integer", "double", "string", "integer"}, types)

	rows, err := loadAll(source, p, s)
	require.Nil(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []interface{}{int32(3), float64(4), "z", int32(6)}, rows[2])
}

func TestHeaderSchema(t *testing.T) {
	source := memory.CreateDataSource([][]byte{[]byte("\n1,2,3\n")})
	p := CreateParser(&ParserConf{})
	s, err := p.HeaderSchema(context.Background(), source)
	require.Nil(t, err)
	require.Equal(t, []string{"_c0", "_c1", "_c2"}, s.ColumnNames())
	require.Equal(t, "string", s.ColumnTypes()[0].TypeName())

	source = memory.CreateDataSource([][]byte{[]byte("x,y\n1,2\n")})
	p = CreateParser(&ParserConf{Header: true})
	s, err = p.HeaderSchema(context.Background(), source)
	require.Nil(t, err)
	require.Equal(t, []string{"x", "y"}, s.ColumnNames())
	rows, err := loadAll(source, p, s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{"1", "2"}}, rows)
}
