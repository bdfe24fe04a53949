package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/catalog"
	"github.com/go-sif/sifread/execution"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/logging"
	"github.com/go-sif/sifread/reader"
	"github.com/go-sif/sifread/sql"
	"github.com/go-sif/sifread/writer"
)

// ErrStopped is returned by the actions of a Session which has been stopped
var ErrStopped = errors.New("session has been stopped")

// Session is the entry point for reading, querying and writing DataFrames
type Session struct {
	opts     *Options
	logger   *logging.Logger
	fio      fileio.FileIO
	catalog  *catalog.Catalog
	execOpts *execution.Options

	lock    sync.Mutex
	stopped bool
}

// Create creates a Session
func Create(opts *Options) *Session {
	opts = ensureDefaultOptionsValues(opts)
	logger := logging.New(opts.LogOutput, opts.AppName, logging.LogLevelFromString(opts.LogLevel))
	fio := fileio.NewRouter(opts.S3)
	execOpts := opts.Execution
	execOpts.Logger = logger
	logger.Debugf("Session created with warehouse %s", opts.WarehouseDir)
	return &Session{
		opts:     opts,
		logger:   logger,
		fio:      fio,
		catalog:  catalog.New(fio, opts.WarehouseDir, logger),
		execOpts: &execOpts,
	}
}

// Logger returns the Logger of this Session
func (s *Session) Logger() *logging.Logger {
	return s.logger
}

// Catalog returns the Catalog of this Session
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Session) checkActive() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopped {
		return ErrStopped
	}
	return nil
}

// Read returns a DataFrameReader, configured with this Session's default read options
func (s *Session) Read() *reader.DataFrameReader {
	return reader.New(s.fio, s.logger).Options(s.opts.ReadOptions)
}

// Write returns a DataFrameWriter for df
func (s *Session) Write(df sifread.DataFrame) *writer.DataFrameWriter {
	return writer.New(df, s.fio, s.catalog, s.execOpts, s.logger)
}

// SQL plans a query against this Session's tables and views
func (s *Session) SQL(ctx context.Context, query string) (sifread.DataFrame, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	s.logger.Debugf("Planning query: %s", query)
	return sql.Execute(ctx, query, s.catalog)
}

// Table returns the DataFrame of a temporary view or warehouse table
func (s *Session) Table(ctx context.Context, name string) (sifread.DataFrame, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	return s.catalog.LookupView(ctx, name)
}

// CreateTempView registers df as a temporary view. It is an error if the name is taken.
func (s *Session) CreateTempView(name string, df sifread.DataFrame) error {
	if err := s.checkActive(); err != nil {
		return err
	}
	return s.catalog.CreateTempView(name, df)
}

// CreateOrReplaceTempView registers df as a temporary view, replacing any existing view with that name
func (s *Session) CreateOrReplaceTempView(name string, df sifread.DataFrame) error {
	if err := s.checkActive(); err != nil {
		return err
	}
	return s.catalog.CreateOrReplaceTempView(name, df)
}

// DropTempView removes a temporary view, returning true iff it existed
func (s *Session) DropTempView(name string) bool {
	return s.catalog.DropTempView(name)
}

// ListTables lists the temporary views and warehouse tables visible to this Session
func (s *Session) ListTables(ctx context.Context) ([]catalog.Table, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	return s.catalog.ListTables(ctx)
}

// Run executes df, returning its materialized Result, which must be Closed
func (s *Session) Run(ctx context.Context, df sifread.DataFrame) (*execution.Result, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	return execution.Run(ctx, df, s.execOpts)
}

// Show renders the first numRows rows of df as a table. If numRows is negative, 20 rows are shown.
func (s *Session) Show(ctx context.Context, w io.Writer, df sifread.DataFrame, numRows int, truncate bool) error {
	if err := s.checkActive(); err != nil {
		return err
	}
	return execution.Show(ctx, w, df, numRows, truncate, s.execOpts)
}

// Count returns the number of rows produced by df
func (s *Session) Count(ctx context.Context, df sifread.DataFrame) (int, error) {
	if err := s.checkActive(); err != nil {
		return 0, err
	}
	return execution.Count(ctx, df, s.execOpts)
}

// Collect returns every row produced by df
func (s *Session) Collect(ctx context.Context, df sifread.DataFrame) ([]sifread.Row, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	return execution.Collect(ctx, df, s.execOpts)
}

// Take returns the first n rows produced by df
func (s *Session) Take(ctx context.Context, df sifread.DataFrame, n int) ([]sifread.Row, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	return execution.Take(ctx, df, n, s.execOpts)
}

// PrintSchema writes the schema of df as a tree
func (s *Session) PrintSchema(w io.Writer, df sifread.DataFrame) error {
	_, err := io.WriteString(w, df.GetSchema().TreeString())
	return err
}

// Stop drops every temporary view. Subsequent actions fail with ErrStopped.
func (s *Session) Stop() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	n := s.catalog.ClearTempViews()
	s.logger.Debugf("Session stopped, dropping %d temporary views", n)
}
