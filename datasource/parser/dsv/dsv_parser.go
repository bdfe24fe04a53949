package dsv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/go-sif/sifread/infer"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	PartitionSize int                  // The maximum number of rows per Partition. Defaults to 128.
	SkipRows      int                  // The number of lines to ignore from the beginning of each file. Defaults to 0.
	Header        bool                 // If true, the first line after SkipRows holds column names, and is not data
	Delimiter     rune                 // The delimiter separating columns in the file. Defaults to ,
	Comment       rune                 // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue      string               // A special string which represents nil values in the dataset. Defaults to "" (the empty string).
	SamplingRatio float64              // The fraction of lines used for schema inference. Defaults to 1.
	Formats       parser.Formats       // Layouts for timestamp and date columns
	Policy        *parser.RecordPolicy // Disposition of malformed records. Defaults to PERMISSIVE.
}

// Parser produces partitions from DSV data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new DSV Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.PartitionSize == 0 {
		conf.PartitionSize = parser.DefaultPartitionSize
	}
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
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

// Parse parses DSV data to produce Partitions
func (p *Parser) Parse(r io.Reader, loader sifread.PartitionLoader, schema sifread.Schema, onIteratorEnd func()) (sifread.PartitionIterator, error) {
	lines := parser.NewLineReader(r)
	// ignore leading lines, and the header, if configured to do so
	skip := p.conf.SkipRows
	if p.conf.Header {
		skip++
	}
	if err := lines.Skip(skip); err != nil {
		return nil, err
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
	return parser.CreateLinePartitionIterator(lines, parser.LineIteratorConf{
		PartitionSize: p.conf.PartitionSize,
		Schema:        schema,
		Scanner: &recordScanner{
			conf:     p.conf,
			names:    names,
			colTypes: colTypes,
		},
		Tracker: p.conf.Policy.Track(loader.Location(), schema),
		Ignore:  p.ignore,
	}, onIteratorEnd), nil
}

// ignore returns true for blank lines and comments
func (p *Parser) ignore(line string) bool {
	if len(strings.TrimSpace(line)) == 0 {
		return true
	}
	return p.conf.Comment != 0 && strings.HasPrefix(line, string(p.conf.Comment))
}

// InferSchema samples the lines of a DataSource to deduce the type of each column.
// Column names are taken from the header of the first file, if configured.
func (p *Parser) InferSchema(ctx context.Context, source sifread.DataSource) (sifread.Schema, error) {
	inferrer := infer.NewCSVInferrer(p.conf.NilValue, p.conf.Formats.TimestampFormat)
	sampler := infer.NewSampler(p.conf.SamplingRatio)
	var header []string
	first := true
	err := parser.ScanSource(ctx, source, func(location string, lines *parser.LineReader) (bool, error) {
		if err := lines.Skip(p.conf.SkipRows); err != nil {
			return false, err
		}
		if p.conf.Header {
			line, _, err := lines.Next()
			if err == io.EOF {
				return true, nil
			} else if err != nil {
				return false, err
			}
			if first {
				header, _ = tokenize(line, p.conf.Delimiter)
				inferrer.FixWidth(len(header))
			}
		}
		first = false
		for {
			line, _, err := lines.Next()
			if err == io.EOF {
				return true, nil
			} else if err != nil {
				return false, err
			}
			if p.ignore(line) {
				continue
			}
			tokens, err := tokenize(line, p.conf.Delimiter)
			if err != nil {
				// unparseable lines do not contribute to inference
				continue
			}
			// without a header, the first record sets the width
			inferrer.FixWidth(len(tokens))
			if sampler.Sample(line) {
				inferrer.Observe(tokens)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return inferrer.Schema(header)
}

// HeaderSchema produces a Schema of string columns from the first record of the first file.
// Column names are taken from that record if Header is set, and are _c<index> otherwise.
func (p *Parser) HeaderSchema(ctx context.Context, source sifread.DataSource) (sifread.Schema, error) {
	var names []string
	err := parser.ScanSource(ctx, source, func(location string, lines *parser.LineReader) (bool, error) {
		if err := lines.Skip(p.conf.SkipRows); err != nil {
			return false, err
		}
		for {
			line, _, err := lines.Next()
			if err == io.EOF {
				// empty file, try the next one
				return true, nil
			} else if err != nil {
				return false, err
			}
			if p.ignore(line) {
				continue
			}
			tokens, err := tokenize(line, p.conf.Delimiter)
			if err != nil {
				return false, fmt.Errorf("unable to determine columns from %s: %w", location, err)
			}
			if p.conf.Header {
				names = infer.ColumnNames(tokens, len(tokens))
			} else {
				names = infer.ColumnNames(nil, len(tokens))
			}
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}
	return infer.StringSchema(names)
}
