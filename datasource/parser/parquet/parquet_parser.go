package parquet

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
	"github.com/go-sif/sifread/datasource/parser"
)

// ParserConf configures a parquet Parser
type ParserConf struct {
	PartitionSize int                  // The maximum number of rows per Partition. Defaults to 128.
	Policy        *parser.RecordPolicy // Disposition of rows whose values do not suit the Schema. Defaults to PERMISSIVE.
}

// Parser produces partitions from parquet files
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new parquet Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.PartitionSize == 0 {
		conf.PartitionSize = parser.DefaultPartitionSize
	}
	if conf.Policy == nil {
		conf.Policy = parser.DefaultRecordPolicy()
	}
	return &Parser{conf: conf}
}

// PartitionSize returns the maximum size in rows of Partitions produced by this Parser
func (p *Parser) PartitionSize() int {
	return p.conf.PartitionSize
}

func openFile(ctx context.Context, r io.Reader) (*file.Reader, *pqarrow.FileReader, error) {
	// parquet needs a ReaderAt
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet content: %w", err)
	}
	pqReader, err := file.NewParquetReader(bytes.NewReader(buf))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		pqReader.Close()
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	return pqReader, arrowReader, nil
}

// Parse reads an entire parquet file, producing Partitions. Columns are matched by name,
// and Schema columns missing from the file are nil.
func (p *Parser) Parse(r io.Reader, loader sifread.PartitionLoader, schema sifread.Schema, onIteratorEnd func()) (sifread.PartitionIterator, error) {
	parts, err := p.readPartitions(r, loader, schema)
	// the input has been consumed in full
	if onIteratorEnd != nil {
		onIteratorEnd()
	}
	if err != nil {
		return nil, err
	}
	return datasource.CreatePartitionIterator(parts), nil
}

func (p *Parser) readPartitions(r io.Reader, loader sifread.PartitionLoader, schema sifread.Schema) ([]sifread.Partition, error) {
	ctx := context.Background()
	pqReader, arrowReader, err := openFile(ctx, r)
	if err != nil {
		return nil, err
	}
	defer pqReader.Close()
	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table from %s: %w", loader.Location(), err)
	}
	defer tbl.Release()

	names := p.conf.Policy.DataColumns(schema)
	colTypes := make([]sifread.ColumnType, len(names))
	fieldIdx := make([]int, len(names))
	for i, name := range names {
		col, err := schema.GetColumn(name)
		if err != nil {
			return nil, err
		}
		colTypes[i] = col.Type()
		fieldIdx[i] = -1
		if indices := tbl.Schema().FieldIndices(name); len(indices) > 0 {
			fieldIdx[i] = indices[0]
		}
	}

	tracker := p.conf.Policy.Track(loader.Location(), schema)
	reader := array.NewTableReader(tbl, int64(p.conf.PartitionSize))
	defer reader.Release()
	var parts []sifread.Partition
	rowNum := 0
	tempRow := datasource.CreateTempRow(schema)
	for reader.Next() {
		rec := reader.Record()
		part := datasource.CreateBuildablePartition(p.conf.PartitionSize, schema)
		for i := 0; i < int(rec.NumRows()); i++ {
			rowNum++
			datasource.ResetTempRow(tempRow)
			cause := scanRecord(rec, i, names, colTypes, fieldIdx, tempRow)
			if cause == nil {
				cause = parser.CheckNullability(tempRow)
			}
			if cause != nil {
				keep, err := tracker.Malformed(rowNum, tempRow.ToString(), cause, tempRow)
				if err != nil {
					return nil, err
				} else if !keep {
					continue
				}
			}
			if err := part.AppendRow(tempRow); err != nil {
				return nil, err
			}
		}
		if err := tracker.Flush(ctx); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func scanRecord(rec arrow.Record, i int, names []string, colTypes []sifread.ColumnType, fieldIdx []int, row sifread.Row) error {
	var firstErr error
	for j, name := range names {
		if fieldIdx[j] < 0 {
			continue
		}
		val, err := valueAt(rec.Column(fieldIdx[j]), i)
		if err == nil {
			val, err = parser.Coerce(name, colTypes[j], val)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		} else if val == nil {
			continue
		}
		if err := row.Set(name, val); err != nil {
			return err
		}
	}
	return firstErr
}

// InferSchema reads the Schema stored in the footer of the first file of a DataSource
func (p *Parser) InferSchema(ctx context.Context, source sifread.DataSource) (sifread.Schema, error) {
	pm, err := source.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	if !pm.HasNext() {
		return nil, fmt.Errorf("unable to infer schema for parquet: no input files")
	}
	loader := pm.Next()
	r, err := loader.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	pqReader, arrowReader, err := openFile(ctx, r)
	if err != nil {
		return nil, err
	}
	defer pqReader.Close()
	as, err := arrowReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet schema from %s: %w", loader.Location(), err)
	}
	return FromArrowSchema(as)
}
