package jsonl

import (
	"bufio"
	"io"
	"time"

	"github.com/go-sif/sifread"
	json "github.com/goccy/go-json"
)

// Writer writes Rows as JSON objects, one per line, with keys in column order.
// Nil values are omitted. Temporal values are written as strings.
type Writer struct {
	buffered *bufio.Writer
	names    [][]byte
	colTypes []sifread.ColumnType
	line     []byte
}

// NewWriter creates a Writer for Rows of the given Schema
func NewWriter(w io.Writer, schema sifread.Schema) (*Writer, error) {
	names := make([][]byte, 0, schema.NumColumns())
	for _, name := range schema.ColumnNames() {
		encoded, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		names = append(names, encoded)
	}
	return &Writer{
		buffered: bufio.NewWriter(w),
		names:    names,
		colTypes: schema.ColumnTypes(),
	}, nil
}

// WriteRow writes a single Row
func (w *Writer) WriteRow(row sifread.Row) error {
	line := append(w.line[:0], '{')
	first := true
	for i, v := range row.Values() {
		if v == nil || i >= len(w.names) {
			continue
		}
		if _, ok := v.(time.Time); ok {
			v = w.colTypes[i].ToString(v)
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if !first {
			line = append(line, ',')
		}
		first = false
		line = append(line, w.names[i]...)
		line = append(line, ':')
		line = append(line, encoded...)
	}
	line = append(line, '}', '\n')
	w.line = line
	_, err := w.buffered.Write(line)
	return err
}

// Close flushes buffered lines. It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	return w.buffered.Flush()
}
