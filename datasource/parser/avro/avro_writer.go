package avro

import (
	"fmt"
	"io"

	"github.com/go-sif/sifread"
	"github.com/linkedin/goavro/v2"
)

const writeBatchSize = 1024

// Writer writes Rows to an avro object container file, with deflate compression
type Writer struct {
	names    []string
	branches []branch
	ocf      *goavro.OCFWriter
	pending  []interface{}
}

// NewWriter creates a Writer for Rows of the given Schema
func NewWriter(w io.Writer, schema sifread.Schema) (*Writer, error) {
	avroSchema, branches, err := avroSchemaFor(schema)
	if err != nil {
		return nil, err
	}
	codec, err := goavro.NewCodec(avroSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: goavro.CompressionDeflateLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF writer: %w", err)
	}
	return &Writer{
		names:    schema.ColumnNames(),
		branches: branches,
		ocf:      ocf,
	}, nil
}

// WriteRow appends a Row, which must share this Writer's Schema
func (w *Writer) WriteRow(row sifread.Row) error {
	record := make(map[string]interface{}, len(w.names))
	for i, v := range row.Values() {
		if v == nil {
			record[w.names[i]] = nil
		} else {
			record[w.names[i]] = goavro.Union(w.branches[i].name, v)
		}
	}
	w.pending = append(w.pending, record)
	if len(w.pending) >= writeBatchSize {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.ocf.Append(w.pending); err != nil {
		return fmt.Errorf("failed to append avro records: %w", err)
	}
	w.pending = w.pending[:0]
	return nil
}

// Close writes any buffered Rows. The destination is not closed.
func (w *Writer) Close() error {
	return w.flush()
}
