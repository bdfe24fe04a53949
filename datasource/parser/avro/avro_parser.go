package avro

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/linkedin/goavro/v2"
)

// ParserConf configures an avro Parser
type ParserConf struct {
	PartitionSize int                  // The maximum number of rows per Partition. Defaults to 128.
	Policy        *parser.RecordPolicy // Disposition of records whose values do not suit the Schema. Defaults to PERMISSIVE.
}

// Parser produces partitions from avro object container files
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new avro Parser
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

// Parse reads avro records to produce Partitions. Fields are matched to columns by name.
func (p *Parser) Parse(r io.Reader, loader sifread.PartitionLoader, schema sifread.Schema, onIteratorEnd func()) (sifread.PartitionIterator, error) {
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF reader for %s: %w", loader.Location(), err)
	}
	names := p.conf.Policy.DataColumns(schema)
	colTypes := make([]sifread.ColumnType, len(names))
	for i, name := range names {
		col, err := schema.GetColumn(name)
		if err != nil {
			return nil, err
		}
		colTypes[i] = col.Type()
	}
	iterator := &ocfPartitionIterator{
		conf:         p.conf,
		ocf:          ocf,
		schema:       schema,
		names:        names,
		colTypes:     colTypes,
		tracker:      p.conf.Policy.Track(loader.Location(), schema),
		hasNext:      true,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}

// InferSchema reads the writer schema of the first file of a DataSource
func (p *Parser) InferSchema(ctx context.Context, source sifread.DataSource) (sifread.Schema, error) {
	pm, err := source.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	if !pm.HasNext() {
		return nil, fmt.Errorf("unable to infer schema for avro: no input files")
	}
	loader := pm.Next()
	r, err := loader.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	ocf, err := goavro.NewOCFReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF reader for %s: %w", loader.Location(), err)
	}
	return FromAvroSchema(ocf.Codec().Schema())
}

type ocfPartitionIterator struct {
	conf         *ParserConf
	ocf          *goavro.OCFReader
	schema       sifread.Schema
	names        []string
	colTypes     []sifread.ColumnType
	tracker      *parser.RecordTracker
	recordNum    int
	hasNext      bool
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (oi *ocfPartitionIterator) OnEnd(onEnd func()) {
	oi.lock.Lock()
	defer oi.lock.Unlock()
	oi.endListeners = append(oi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (oi *ocfPartitionIterator) HasNextPartition() bool {
	oi.lock.Lock()
	defer oi.lock.Unlock()
	return oi.hasNext
}

func (oi *ocfPartitionIterator) end() {
	oi.hasNext = false
	for _, l := range oi.endListeners {
		l()
	}
	oi.endListeners = []func(){}
}

// NextPartition returns the next Partition if one is available, or an error
func (oi *ocfPartitionIterator) NextPartition() (sifread.Partition, error) {
	oi.lock.Lock()
	defer oi.lock.Unlock()
	part := datasource.CreateBuildablePartition(oi.conf.PartitionSize, oi.schema)
	tempRow := datasource.CreateTempRow(oi.schema)
	for part.GetNumRows() < part.GetMaxRows() {
		if !oi.ocf.Scan() {
			err := oi.ocf.Err()
			if err == nil {
				err = oi.tracker.Flush(context.Background())
			}
			oi.end()
			if err != nil {
				return nil, err
			}
			return part, nil
		}
		datum, err := oi.ocf.Read()
		if err != nil {
			oi.end()
			return nil, err
		}
		oi.recordNum++
		datasource.ResetTempRow(tempRow)
		cause := oi.scanRecord(datum, tempRow)
		if cause == nil {
			cause = parser.CheckNullability(tempRow)
		}
		if cause != nil {
			keep, err := oi.tracker.Malformed(oi.recordNum, fmt.Sprintf("%v", datum), cause, tempRow)
			if err != nil {
				oi.end()
				return nil, err
			} else if !keep {
				continue
			}
		}
		if err := part.AppendRow(tempRow); err != nil {
			oi.end()
			return nil, err
		}
	}
	if err := oi.tracker.Flush(context.Background()); err != nil {
		oi.end()
		return nil, err
	}
	return part, nil
}

func (oi *ocfPartitionIterator) scanRecord(datum interface{}, row sifread.Row) error {
	record, ok := datum.(map[string]interface{})
	if !ok {
		return fmt.Errorf("avro datum is not a record")
	}
	var firstErr error
	for i, name := range oi.names {
		val, err := parser.Coerce(name, oi.colTypes[i], unwrapUnion(record[name]))
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

// unwrapUnion extracts the value of a non-null union branch, which goavro decodes as a single-entry map
func unwrapUnion(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok && len(m) == 1 {
		for _, inner := range m {
			return inner
		}
	}
	return v
}

// Stop abandons this iterator, firing its end listeners
func (oi *ocfPartitionIterator) Stop() {
	oi.lock.Lock()
	defer oi.lock.Unlock()
	if oi.hasNext {
		oi.end()
	}
}
