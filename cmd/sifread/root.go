package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/session"
	"github.com/spf13/cobra"
)

// flags shared by every subcommand
type globalFlags struct {
	config   string
	format   string
	options  []string
	schema   string
	views    []string
	logLevel string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:          "sifread",
		Short:        "Read, query and convert csv, json, parquet and avro data",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "path to a YAML session configuration")
	pf.StringVarP(&flags.format, "format", "f", "csv", "input format: csv, json, parquet or avro")
	pf.StringArrayVarP(&flags.options, "option", "o", nil, "read option as key=value (repeatable)")
	pf.StringVar(&flags.schema, "schema", "", "explicit schema, e.g. \"id INT, name STRING\"")
	pf.StringArrayVar(&flags.views, "view", nil, "register a temporary view as name=path (repeatable)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level, overriding the configuration")

	root.AddCommand(
		newShowCommand(flags),
		newSchemaCommand(flags),
		newCountCommand(flags),
		newSQLCommand(flags),
		newSaveCommand(flags),
	)
	return root
}

// parseKeyValues splits each key=value pair
func parseKeyValues(flag string, pairs []string) (map[string]string, error) {
	res := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("--%s expects key=value, got %q", flag, pair)
		}
		res[strings.TrimSpace(pair[:idx])] = pair[idx+1:]
	}
	return res, nil
}

// openSession creates a Session from --config and --log-level, then registers each --view
func (f *globalFlags) openSession(ctx context.Context) (*session.Session, error) {
	opts := &session.Options{}
	if len(f.config) > 0 {
		loaded, err := session.LoadOptions(f.config)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}
	if len(f.logLevel) > 0 {
		opts.LogLevel = f.logLevel
	}
	views, err := parseKeyValues("view", f.views)
	if err != nil {
		return nil, err
	}
	s := session.Create(opts)
	for name, path := range views {
		df, err := f.load(ctx, s, path)
		if err != nil {
			s.Stop()
			return nil, fmt.Errorf("unable to load view %s: %w", name, err)
		}
		if err := s.CreateOrReplaceTempView(name, df); err != nil {
			s.Stop()
			return nil, err
		}
	}
	return s, nil
}

// load reads paths using --format, --option and --schema
func (f *globalFlags) load(ctx context.Context, s *session.Session, paths ...string) (sifread.DataFrame, error) {
	options, err := parseKeyValues("option", f.options)
	if err != nil {
		return nil, err
	}
	r := s.Read().Format(f.format).Options(options)
	if len(f.schema) > 0 {
		r = r.SchemaDDL(f.schema)
	}
	return r.Load(ctx, paths...)
}

// withInput opens a Session, loads args as a DataFrame and passes both to fn
func (f *globalFlags) withInput(cmd *cobra.Command, args []string, fn func(ctx context.Context, s *session.Session, df sifread.DataFrame) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := f.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Stop()
	df, err := f.load(ctx, s, args...)
	if err != nil {
		return err
	}
	return fn(ctx, s, df)
}
