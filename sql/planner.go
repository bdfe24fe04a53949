package sql

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/catalog"
	"github.com/go-sif/sifread/datasource/memory"
	"github.com/go-sif/sifread/datasource/parser/jsonl"
	"github.com/go-sif/sifread/operations/transform"
	"github.com/go-sif/sifread/schema"
	json "github.com/goccy/go-json"
)

// Catalog resolves the table names used in queries
type Catalog interface {
	LookupView(ctx context.Context, name string) (sifread.DataFrame, error)
	ListTables(ctx context.Context) ([]catalog.Table, error)
}

// Execute parses a query and plans it into a DataFrame. No data is read until
// the DataFrame is executed, except to resolve table schemas.
func Execute(ctx context.Context, query string, cat Catalog) (sifread.DataFrame, error) {
	stmt, err := Parse(query)
	if err != nil {
		return nil, err
	}
	return Plan(ctx, stmt, cat)
}

// Plan produces a DataFrame which computes the result of a Statement
func Plan(ctx context.Context, stmt Statement, cat Catalog) (sifread.DataFrame, error) {
	switch s := stmt.(type) {
	case *SelectStatement:
		return planSelect(ctx, s, cat)
	case *ShowTablesStatement:
		return planShowTables(ctx, cat)
	case *DescribeStatement:
		return planDescribe(ctx, s, cat)
	default:
		return nil, fmt.Errorf("unsupported statement type %d", stmt.Type())
	}
}

func planSelect(ctx context.Context, stmt *SelectStatement, cat Catalog) (sifread.DataFrame, error) {
	df, err := cat.LookupView(ctx, stmt.Table)
	if err != nil {
		return nil, err
	}
	inputSchema := df.GetSchema()
	ops := make([]*sifread.DataFrameOperation, 0, 3)

	// the condition sees every column of the table, before projection
	if stmt.Where != nil {
		pred, err := bind(inputSchema, stmt.Where)
		if err != nil {
			return nil, err
		}
		ops = append(ops, transform.Filter(func(row sifread.Row) (bool, error) {
			t, err := pred(row)
			return t == isTrue, err
		}))
	}

	if !(len(stmt.Items) == 1 && stmt.Items[0].Star) {
		names := make([]string, 0, len(stmt.Items))
		aliases := make([]string, 0, len(stmt.Items))
		for _, item := range stmt.Items {
			if item.Star {
				all := inputSchema.ColumnNames()
				names = append(names, all...)
				aliases = append(aliases, all...)
				continue
			}
			name, err := resolveColumn(inputSchema, item.Column)
			if err != nil {
				return nil, err
			}
			alias := item.Alias
			if len(alias) == 0 {
				alias = name
			}
			names = append(names, name)
			aliases = append(aliases, alias)
		}
		ops = append(ops, transform.SelectAs(names, aliases))
	}

	if stmt.Limit >= 0 {
		ops = append(ops, transform.Limit(stmt.Limit))
	}
	return df.To(ops...)
}

func planShowTables(ctx context.Context, cat Catalog) (sifread.DataFrame, error) {
	tables, err := cat.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	s := schema.CreateSchema()
	s.CreateColumn("namespace", &sifread.VarStringColumnType{})
	s.CreateColumn("tableName", &sifread.VarStringColumnType{})
	s.CreateColumn("isTemporary", &sifread.BoolColumnType{})
	records := make([]map[string]interface{}, len(tables))
	for i, t := range tables {
		namespace := "default"
		if t.IsTemporary {
			namespace = ""
		}
		records[i] = map[string]interface{}{
			"namespace":   namespace,
			"tableName":   t.Name,
			"isTemporary": t.IsTemporary,
		}
	}
	return staticDataFrame(s, records)
}

func planDescribe(ctx context.Context, stmt *DescribeStatement, cat Catalog) (sifread.DataFrame, error) {
	df, err := cat.LookupView(ctx, stmt.Table)
	if err != nil {
		return nil, err
	}
	s := schema.CreateSchema()
	s.CreateColumn("col_name", &sifread.VarStringColumnType{})
	s.CreateColumn("data_type", &sifread.VarStringColumnType{})
	s.CreateColumn("comment", &sifread.VarStringColumnType{})
	records := make([]map[string]interface{}, 0, df.GetSchema().NumColumns())
	df.GetSchema().ForEachColumn(func(name string, col sifread.Column) error {
		records = append(records, map[string]interface{}{
			"col_name":  name,
			"data_type": col.Type().TypeName(),
			"comment":   nil,
		})
		return nil
	})
	return staticDataFrame(s, records)
}

// staticDataFrame creates a DataFrame over a fixed set of records, encoded as JSON lines
func staticDataFrame(s sifread.Schema, records []map[string]interface{}) (sifread.DataFrame, error) {
	var buf bytes.Buffer
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	p := jsonl.CreateParser(&jsonl.ParserConf{})
	return memory.CreateDataFrame([][]byte{buf.Bytes()}, p, s), nil
}
