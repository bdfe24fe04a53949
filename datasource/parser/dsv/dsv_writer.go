package dsv

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/go-sif/sifread"
)

// WriterConf configures a DSV Writer
type WriterConf struct {
	Header    bool   // If true, a line of column names precedes the data
	Delimiter rune   // The delimiter separating columns. Defaults to ,
	NilValue  string // The string written for nil values. Defaults to "" (the empty string).
}

// Writer writes Rows as delimiter-separated lines
type Writer struct {
	buffered *bufio.Writer
	csv      *csv.Writer
	names    []string
	colTypes []sifread.ColumnType
	nilValue string
	record   []string
}

// NewWriter creates a Writer for Rows of the given Schema. The header, if any, is written immediately.
func NewWriter(w io.Writer, schema sifread.Schema, conf *WriterConf) (*Writer, error) {
	if conf == nil {
		conf = &WriterConf{}
	}
	buffered := bufio.NewWriter(w)
	cw := csv.NewWriter(buffered)
	if conf.Delimiter != 0 {
		cw.Comma = conf.Delimiter
	}
	res := &Writer{
		buffered: buffered,
		csv:      cw,
		names:    schema.ColumnNames(),
		colTypes: schema.ColumnTypes(),
		nilValue: conf.NilValue,
		record:   make([]string, schema.NumColumns()),
	}
	if conf.Header {
		if err := cw.Write(res.names); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// WriteRow writes a single Row
func (w *Writer) WriteRow(row sifread.Row) error {
	values := row.Values()
	for i := range w.record {
		if i >= len(values) || values[i] == nil {
			w.record[i] = w.nilValue
		} else {
			w.record[i] = w.colTypes[i].ToString(values[i])
		}
	}
	return w.csv.Write(w.record)
}

// Close flushes buffered lines. It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	return w.buffered.Flush()
}
