package dsv

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
	"github.com/go-sif/sifread/datasource/memory"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
)

func TestWriterRoundTrip(t *testing.T) {
	s := schema.CreateSchema()
	s.CreateColumn("name", &sifread.VarStringColumnType{})
	s.CreateColumn("count", &sifread.Int64ColumnType{})
	s.CreateColumn("day", &sifread.DateColumnType{})

	var buf bytes.Buffer
	w, err := NewWriter(&buf, s, &WriterConf{Header: true, Delimiter: '|', NilValue: "NA"})
	require.Nil(t, err)
	row := datasource.CreateTempRow(s)
	require.Nil(t, row.SetVarString("name", "Costa Rica|Republic of"))
	require.Nil(t, row.SetInt64("count", 588))
	require.Nil(t, row.SetTime("day", time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.Nil(t, w.WriteRow(row))
	datasource.ResetTempRow(row)
	require.Nil(t, row.SetVarString("name", "Egypt"))
	require.Nil(t, w.WriteRow(row))
	require.Nil(t, w.Close())
	require.Equal(t, "name|count|day\n\"Costa Rica|Republic of\"|588|2015-06-01\nEgypt|NA|NA\n", buf.String())

	p := CreateParser(&ParserConf{Header: true, Delimiter: '|', NilValue: "NA"})
	rows, err := loadAll(memory.CreateDataSource([][]byte{buf.Bytes()}), p, s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{
		{"Costa Rica|Republic of", int64(588), time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"Egypt", nil, nil},
	}, rows)
}
