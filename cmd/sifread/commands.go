package main

import (
	"context"
	"fmt"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/session"
	"github.com/spf13/cobra"
)

func newShowCommand(flags *globalFlags) *cobra.Command {
	var numRows int
	var truncate bool
	cmd := &cobra.Command{
		Use:   "show <path>...",
		Short: "Display the first rows of a dataset as a table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withInput(cmd, args, func(ctx context.Context, s *session.Session, df sifread.DataFrame) error {
				return s.Show(ctx, cmd.OutOrStdout(), df, numRows, truncate)
			})
		},
	}
	cmd.Flags().IntVarP(&numRows, "num-rows", "n", 20, "number of rows to show")
	cmd.Flags().BoolVar(&truncate, "truncate", true, "shorten values longer than 20 characters")
	return cmd
}

func newSchemaCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <path>...",
		Short: "Print the schema of a dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withInput(cmd, args, func(ctx context.Context, s *session.Session, df sifread.DataFrame) error {
				return s.PrintSchema(cmd.OutOrStdout(), df)
			})
		},
	}
}

func newCountCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count <path>...",
		Short: "Count the rows of a dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withInput(cmd, args, func(ctx context.Context, s *session.Session, df sifread.DataFrame) error {
				n, err := s.Count(ctx, df)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
}

func newSQLCommand(flags *globalFlags) *cobra.Command {
	var numRows int
	var truncate bool
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Run a query against the views registered with --view and the warehouse tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := flags.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Stop()
			df, err := s.SQL(ctx, args[0])
			if err != nil {
				return err
			}
			return s.Show(ctx, cmd.OutOrStdout(), df, numRows, truncate)
		},
	}
	cmd.Flags().IntVarP(&numRows, "num-rows", "n", 20, "number of rows to show")
	cmd.Flags().BoolVar(&truncate, "truncate", true, "shorten values longer than 20 characters")
	return cmd
}

func newSaveCommand(flags *globalFlags) *cobra.Command {
	var output, outputFormat, mode, table string
	var writeOptions []string
	cmd := &cobra.Command{
		Use:   "save <path>...",
		Short: "Convert a dataset, writing it to --output or to the warehouse table --table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(output) == 0) == (len(table) == 0) {
				return fmt.Errorf("exactly one of --output and --table is required")
			}
			options, err := parseKeyValues("write-option", writeOptions)
			if err != nil {
				return err
			}
			return flags.withInput(cmd, args, func(ctx context.Context, s *session.Session, df sifread.DataFrame) error {
				w := s.Write(df).Format(outputFormat).Mode(mode).Options(options)
				if len(table) > 0 {
					return w.SaveAsTable(ctx, table)
				}
				return w.Save(ctx, output)
			})
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "destination directory")
	cmd.Flags().StringVar(&table, "table", "", "destination warehouse table")
	cmd.Flags().StringVar(&outputFormat, "output-format", "parquet", "output format: parquet, json, csv or avro")
	cmd.Flags().StringVar(&mode, "mode", "errorifexists", "errorifexists, overwrite, append or ignore")
	cmd.Flags().StringArrayVar(&writeOptions, "write-option", nil, "write option as key=value (repeatable)")
	return cmd
}
