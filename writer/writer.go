package writer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/catalog"
	"github.com/go-sif/sifread/datasource/parser/avro"
	"github.com/go-sif/sifread/datasource/parser/dsv"
	"github.com/go-sif/sifread/datasource/parser/jsonl"
	"github.com/go-sif/sifread/datasource/parser/parquet"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/execution"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/logging"
	uuid "github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
)

// Supported formats
const (
	FormatParquet = "parquet"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatAvro    = "avro"
)

// SuccessMarker is the name of the empty file written once a save completes
const SuccessMarker = "_SUCCESS"

// rowWriter is implemented by the writers of every supported format. Close
// flushes buffered data but does not close the underlying io.Writer.
type rowWriter interface {
	WriteRow(row sifread.Row) error
	Close() error
}

// DataFrameWriter configures and performs a write. Configuration methods return
// the DataFrameWriter so that calls may be chained.
type DataFrameWriter struct {
	df       sifread.DataFrame
	fio      fileio.FileIO
	catalog  *catalog.Catalog
	execOpts *execution.Options
	logger   *logging.Logger
	format   string
	mode     string
	options  map[string]string
}

// New creates a DataFrameWriter for df, which writes parquet files and fails if the
// destination exists. cat may be nil, in which case SaveAsTable is unavailable.
func New(df sifread.DataFrame, fio fileio.FileIO, cat *catalog.Catalog, execOpts *execution.Options, logger *logging.Logger) *DataFrameWriter {
	return &DataFrameWriter{
		df:       df,
		fio:      fio,
		catalog:  cat,
		execOpts: execOpts,
		logger:   logger,
		format:   FormatParquet,
		mode:     ModeErrorIfExists,
		options:  make(map[string]string),
	}
}

// Format sets the output format: parquet, json, csv or avro
func (w *DataFrameWriter) Format(format string) *DataFrameWriter {
	w.format = strings.ToLower(strings.TrimSpace(format))
	return w
}

// Mode sets the behaviour when the destination already exists: errorifexists, overwrite, append or ignore
func (w *DataFrameWriter) Mode(mode string) *DataFrameWriter {
	w.mode = mode
	return w
}

// Option sets a single write option. Non-string values are formatted with fmt.
func (w *DataFrameWriter) Option(key string, value interface{}) *DataFrameWriter {
	w.options[strings.ToLower(strings.TrimSpace(key))] = fmt.Sprint(value)
	return w
}

// Options sets several write options
func (w *DataFrameWriter) Options(options map[string]string) *DataFrameWriter {
	for k, v := range options {
		w.Option(k, v)
	}
	return w
}

func extension(format string) (string, error) {
	switch format {
	case FormatParquet, FormatJSON, FormatCSV, FormatAvro:
		return format, nil
	}
	return "", &errors.UnsupportedFormatError{Format: format}
}

// Save executes the DataFrame and writes its rows to a directory at path
func (w *DataFrameWriter) Save(ctx context.Context, path string) error {
	if _, err := extension(w.format); err != nil {
		return err
	}
	mode, err := parseMode(w.mode)
	if err != nil {
		return err
	}
	exists, err := w.fio.Exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		switch mode {
		case ModeErrorIfExists:
			return fmt.Errorf("path %s already exists", path)
		case ModeIgnore:
			w.logger.Infof("Path %s already exists, skipping write", path)
			return nil
		}
	}
	return w.save(ctx, path, mode, exists)
}

// SaveAsTable executes the DataFrame and stores its rows as a persistent parquet table
func (w *DataFrameWriter) SaveAsTable(ctx context.Context, name string) error {
	if w.catalog == nil {
		return fmt.Errorf("cannot save table %s: no catalog", name)
	}
	if w.format != FormatParquet {
		return &errors.UnsupportedFormatError{Format: w.format}
	}
	mode, err := parseMode(w.mode)
	if err != nil {
		return err
	}
	exists, err := w.catalog.TableExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		switch mode {
		case ModeErrorIfExists:
			return &errors.TableAlreadyExistsError{Name: name}
		case ModeIgnore:
			w.logger.Infof("Table %s already exists, skipping write", name)
			return nil
		case ModeAppend:
			existing, err := w.catalog.LookupView(ctx, name)
			if err != nil {
				return err
			}
			if err := sameColumns(existing.GetSchema(), w.df.GetSchema()); err != nil {
				return fmt.Errorf("cannot append to table %s: %w", name, err)
			}
		}
	}
	return w.save(ctx, w.catalog.TablePath(name), mode, exists)
}

// sameColumns compares the names and types of two Schemas, ignoring nullability
func sameColumns(a sifread.Schema, b sifread.Schema) error {
	an, bn := a.ColumnNames(), b.ColumnNames()
	at, bt := a.ColumnTypes(), b.ColumnTypes()
	if len(an) != len(bn) {
		return fmt.Errorf("expected %d columns, found %d", len(an), len(bn))
	}
	for i := range an {
		if an[i] != bn[i] || at[i].TypeName() != bt[i].TypeName() {
			return fmt.Errorf("expected column %s %s, found %s %s", an[i], at[i].TypeName(), bn[i], bt[i].TypeName())
		}
	}
	return nil
}

func (w *DataFrameWriter) save(ctx context.Context, dir string, mode string, exists bool) error {
	opts, err := decodeOptions(w.options, w.logger)
	if err != nil {
		return err
	}
	// materialize first, in case the DataFrame reads from dir
	res, err := execution.Run(ctx, w.df, w.execOpts)
	if err != nil {
		return err
	}
	defer res.Close()

	if exists && mode == ModeOverwrite {
		if err := w.fio.Delete(ctx, dir); err != nil {
			return fmt.Errorf("unable to overwrite %s: %w", dir, err)
		}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	ext, _ := extension(w.format)
	partPath := fileio.Join(dir, fmt.Sprintf("part-00000-%s.%s", id.String(), ext))
	f, err := w.fio.Create(ctx, partPath)
	if err != nil {
		return err
	}
	if err := w.writePart(f, res, opts); err != nil {
		// leave no partial output behind
		if derr := w.fio.Delete(ctx, partPath); derr != nil {
			w.logger.Warnf("Unable to remove partial output %s: %v", partPath, derr)
		}
		return err
	}
	marker, err := w.fio.Create(ctx, fileio.Join(dir, SuccessMarker))
	if err != nil {
		return err
	}
	if err := marker.Close(); err != nil {
		return err
	}
	w.logger.Infof("Wrote %d rows to %s", res.NumRows(), partPath)
	return nil
}

// writePart writes every row of res to f as a single part file, closing f
func (w *DataFrameWriter) writePart(f io.WriteCloser, res *execution.Result, opts *Options) error {
	var rw rowWriter
	var err error
	schema := res.GetSchema()
	switch w.format {
	case FormatParquet:
		rw, err = parquet.NewWriter(f, schema)
	case FormatAvro:
		rw, err = avro.NewWriter(f, schema)
	case FormatJSON:
		rw, err = jsonl.NewWriter(f, schema)
	case FormatCSV:
		rw, err = dsv.NewWriter(f, schema, &dsv.WriterConf{
			Header:    opts.Header,
			Delimiter: opts.delimiter(),
			NilValue:  opts.NullValue,
		})
	}
	if err != nil {
		f.Close()
		return err
	}
	var errs *multierror.Error
	errs = multierror.Append(errs, res.ForEachPartition(func(part sifread.CollectedPartition) error {
		for i := 0; i < part.GetNumRows(); i++ {
			if err := rw.WriteRow(part.GetRow(i)); err != nil {
				return err
			}
		}
		return nil
	}))
	errs = multierror.Append(errs, rw.Close())
	errs = multierror.Append(errs, f.Close())
	return errs.ErrorOrNil()
}
