package jsonl

import (
	"context"
	"io"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/go-sif/sifread/infer"
)

// ParserConf configures a JSONL Parser
type ParserConf struct {
	PartitionSize int                  // The maximum number of rows per Partition. Defaults to 128.
	SamplingRatio float64              // The fraction of lines used for schema inference. Defaults to 1.
	Formats       parser.Formats       // Layouts for timestamp and date columns, which are read from JSON strings
	Policy        *parser.RecordPolicy // Disposition of malformed records. Defaults to PERMISSIVE.
}

// Parser produces partitions from JSONL data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new JSONL Parser
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

// Parse parses JSONL data to produce Partitions
func (p *Parser) Parse(r io.Reader, loader sifread.PartitionLoader, schema sifread.Schema, onIteratorEnd func()) (sifread.PartitionIterator, error) {
	names := p.conf.Policy.DataColumns(schema)
	colTypes := make([]sifread.ColumnType, len(names))
	for i, name := range names {
		col, err := schema.GetColumn(name)
		if err != nil {
			return nil, err
		}
		colTypes[i] = col.Type()
	}
	return parser.CreateLinePartitionIterator(parser.NewLineReader(r), parser.LineIteratorConf{
		PartitionSize: p.conf.PartitionSize,
		Schema:        schema,
		Scanner: &recordScanner{
			formats:  p.conf.Formats,
			names:    names,
			colTypes: colTypes,
		},
		Tracker: p.conf.Policy.Track(loader.Location(), schema),
		Ignore:  isBlank,
	}, onIteratorEnd), nil
}

func isBlank(line string) bool {
	return len(strings.TrimSpace(line)) == 0
}

// InferSchema samples the lines of a DataSource to deduce the columns present and their types.
// The corrupt record column is appended if a sampled line is not a JSON object, and the
// policy keeps malformed records.
func (p *Parser) InferSchema(ctx context.Context, source sifread.DataSource) (sifread.Schema, error) {
	inferrer := infer.NewJSONInferrer()
	sampler := infer.NewSampler(p.conf.SamplingRatio)
	err := parser.ScanSource(ctx, source, func(location string, lines *parser.LineReader) (bool, error) {
		for {
			line, _, err := lines.Next()
			if err == io.EOF {
				return true, nil
			} else if err != nil {
				return false, err
			}
			if isBlank(line) || !sampler.Sample(line) {
				continue
			}
			inferrer.Observe(line)
		}
	})
	if err != nil {
		return nil, err
	}
	corruptColumn := ""
	if policy := p.conf.Policy; policy.BadRecords == nil && policy.Mode == sifread.PermissiveMode {
		corruptColumn = policy.CorruptRecordColumn
		if len(corruptColumn) == 0 {
			corruptColumn = sifread.DefaultCorruptRecordColumn
		}
	}
	return inferrer.Schema(corruptColumn)
}
