package parquet

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	pq "github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/go-sif/sifread"
)

const writeBatchSize = 1024

// Writer writes Rows to a parquet file, with snappy compression
type Writer struct {
	schema  sifread.Schema
	writer  *pqarrow.FileWriter
	builder *array.RecordBuilder
}

// hides Close, so that the caller retains ownership of the destination
type nopCloser struct {
	io.Writer
}

// NewWriter creates a Writer for Rows of the given Schema. The destination w is not
// closed by Writer.Close.
func NewWriter(w io.Writer, schema sifread.Schema) (*Writer, error) {
	as, err := ToArrowSchema(schema)
	if err != nil {
		return nil, err
	}
	writerProps := pq.NewWriterProperties(
		pq.WithCompression(compress.Codecs.Snappy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
	)
	pqWriter, err := pqarrow.NewFileWriter(as, nopCloser{w}, writerProps, arrowProps)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	return &Writer{
		schema:  schema,
		writer:  pqWriter,
		builder: array.NewRecordBuilder(memory.NewGoAllocator(), as),
	}, nil
}

// WriteRow appends a Row, which must share this Writer's Schema
func (w *Writer) WriteRow(row sifread.Row) error {
	for i, v := range row.Values() {
		if err := appendValue(w.builder.Field(i), v); err != nil {
			return err
		}
	}
	if w.schema.NumColumns() > 0 && w.builder.Field(0).Len() >= writeBatchSize {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	rec := w.builder.NewRecord()
	defer rec.Release()
	if rec.NumRows() == 0 {
		return nil
	}
	if err := w.writer.WriteBuffered(rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close writes any buffered Rows and the parquet footer
func (w *Writer) Close() error {
	defer w.builder.Release()
	if w.schema.NumColumns() > 0 {
		if err := w.flush(); err != nil {
			w.writer.Close()
			return err
		}
	}
	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func appendValue(b array.Builder, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch fb := b.(type) {
	case *array.BooleanBuilder:
		fb.Append(v.(bool))
	case *array.Int32Builder:
		fb.Append(v.(int32))
	case *array.Int64Builder:
		fb.Append(v.(int64))
	case *array.Float64Builder:
		fb.Append(v.(float64))
	case *array.StringBuilder:
		fb.Append(v.(string))
	case *array.TimestampBuilder:
		fb.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
	case *array.Date32Builder:
		fb.Append(arrow.Date32FromTime(v.(time.Time)))
	default:
		return fmt.Errorf("unsupported arrow builder %T", b)
	}
	return nil
}
