package jsonl

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
	s.CreateColumn("zeta", &sifread.VarStringColumnType{})
	s.CreateColumn("alpha", &sifread.Float64ColumnType{})
	s.CreateColumn("seen", &sifread.TimeColumnType{})
	s.CreateColumn("ok", &sifread.BoolColumnType{})
	seen := time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, s)
	require.Nil(t, err)
	row := datasource.CreateTempRow(s)
	require.Nil(t, row.SetVarString("zeta", "<a \"quoted\" value>"))
	require.Nil(t, row.SetFloat64("alpha", 1.5))
	require.Nil(t, row.SetTime("seen", seen))
	require.Nil(t, row.SetBool("ok", true))
	require.Nil(t, w.WriteRow(row))
	datasource.ResetTempRow(row)
	require.Nil(t, w.WriteRow(row))
	require.Nil(t, w.Close())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	require.Equal(t, "{}", string(lines[1]))

	rows, err := loadAll(memory.CreateDataSource([][]byte{buf.Bytes()}), CreateParser(&ParserConf{}), s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{
		{"<a \"quoted\" value>", 1.5, seen, true},
		{nil, nil, nil, nil},
	}, rows)
}
