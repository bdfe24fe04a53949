package reader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/file"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/go-sif/sifread/datasource/parser/avro"
	"github.com/go-sif/sifread/datasource/parser/dsv"
	"github.com/go-sif/sifread/datasource/parser/jsonl"
	"github.com/go-sif/sifread/datasource/parser/parquet"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/logging"
	"github.com/go-sif/sifread/schema"
)

// Supported formats
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
	FormatAvro    = "avro"
)

// schemaInferrer is implemented by the parsers of every supported format
type schemaInferrer interface {
	sifread.DataSourceParser
	InferSchema(ctx context.Context, source sifread.DataSource) (sifread.Schema, error)
}

// DataFrameReader configures and performs a read. Configuration methods return
// the DataFrameReader so that calls may be chained. The first configuration
// error is reported by Load.
type DataFrameReader struct {
	fio     fileio.FileIO
	logger  *logging.Logger
	format  string
	options map[string]string
	schema  sifread.Schema
	err     error
	now     func() time.Time
}

// New creates a DataFrameReader for the csv format
func New(fio fileio.FileIO, logger *logging.Logger) *DataFrameReader {
	return &DataFrameReader{
		fio:     fio,
		logger:  logger,
		format:  FormatCSV,
		options: make(map[string]string),
		now:     time.Now,
	}
}

// Format sets the format of the data to read: csv, json, parquet or avro
func (r *DataFrameReader) Format(format string) *DataFrameReader {
	r.format = strings.ToLower(strings.TrimSpace(format))
	return r
}

// Option sets a single read option. Non-string values are formatted with fmt.
func (r *DataFrameReader) Option(key string, value interface{}) *DataFrameReader {
	r.options[normalizeKey(key)] = fmt.Sprint(value)
	return r
}

// Options sets several read options
func (r *DataFrameReader) Options(options map[string]string) *DataFrameReader {
	for k, v := range options {
		r.options[normalizeKey(k)] = v
	}
	return r
}

// Schema sets an explicit Schema, which takes precedence over inference and header names
func (r *DataFrameReader) Schema(s sifread.Schema) *DataFrameReader {
	r.schema = s
	return r
}

// SchemaDDL sets an explicit Schema from a DDL string such as "id INT, name STRING"
func (r *DataFrameReader) SchemaDDL(ddl string) *DataFrameReader {
	s, err := schema.ParseDDL(ddl)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("invalid schema: %w", err)
	}
	r.schema = s
	return r
}

// Load resolves paths (files, globs, or directories) and a Schema, returning a
// DataFrame over the data. Data is only read here if a Schema must be derived from it.
func (r *DataFrameReader) Load(ctx context.Context, paths ...string) (sifread.DataFrame, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to load: %w", errors.ErrNoInputFiles)
	}
	opts, err := decodeOptions(r.options, r.logger)
	if err != nil {
		return nil, err
	}
	policy := &parser.RecordPolicy{
		Mode:                opts.mode(),
		CorruptRecordColumn: opts.ColumnNameOfCorruptRecord,
		Logger:              r.logger,
	}
	if len(opts.BadRecordsPath) > 0 {
		policy.BadRecords = parser.NewBadRecordsWriter(r.fio, opts.BadRecordsPath, r.now())
		r.logger.Infof("Malformed records will be written to %s", policy.BadRecords.Dir())
	}

	source := file.CreateDataSource(r.fio, paths...)
	// resolve paths eagerly, so missing inputs are reported by Load
	if _, err := source.Analyze(ctx); err != nil {
		return nil, err
	}

	var p schemaInferrer
	s := r.schema
	switch r.format {
	case FormatCSV:
		delim, _ := opts.delimiter()
		comment, _ := opts.comment()
		dp := dsv.CreateParser(&dsv.ParserConf{
			PartitionSize: opts.PartitionSize,
			SkipRows:      opts.SkipRows,
			Header:        opts.Header,
			Delimiter:     delim,
			Comment:       comment,
			NilValue:      opts.NullValue,
			SamplingRatio: opts.SamplingRatio,
			Formats:       opts.formats(),
			Policy:        policy,
		})
		p = dp
		if s == nil && !opts.InferSchema {
			if s, err = dp.HeaderSchema(ctx, source); err != nil {
				return nil, err
			}
		}
	case FormatJSON:
		p = jsonl.CreateParser(&jsonl.ParserConf{
			PartitionSize: opts.PartitionSize,
			SamplingRatio: opts.SamplingRatio,
			Formats:       opts.formats(),
			Policy:        policy,
		})
	case FormatParquet:
		p = parquet.CreateParser(&parquet.ParserConf{PartitionSize: opts.PartitionSize, Policy: policy})
	case FormatAvro:
		p = avro.CreateParser(&avro.ParserConf{PartitionSize: opts.PartitionSize, Policy: policy})
	default:
		return nil, &errors.UnsupportedFormatError{Format: r.format}
	}
	if s == nil {
		if s, err = p.InferSchema(ctx, source); err != nil {
			return nil, err
		}
	}
	r.logger.Debugf("Loading %s data from %s with schema (%s)", r.format, strings.Join(paths, ", "), strings.Join(s.ColumnNames(), ", "))
	return file.CreateDataFrame(r.fio, paths, p, s), nil
}
