package execution

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-sif/sifread"
)

// DefaultShowRows is the number of rows rendered by Show, unless otherwise specified
const DefaultShowRows = 20

// ShowTruncateWidth is the width beyond which Show truncates values, unless asked not to
const ShowTruncateWidth = 20

// Count returns the number of Rows produced by a DataFrame
func Count(ctx context.Context, df sifread.DataFrame, opts *Options) (int, error) {
	res, err := Run(ctx, df, opts)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	return res.NumRows(), nil
}

// Collect returns every Row produced by a DataFrame, in order
func Collect(ctx context.Context, df sifread.DataFrame, opts *Options) ([]sifread.Row, error) {
	res, err := Run(ctx, df, opts)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return res.Rows()
}

// Take returns the first n Rows produced by a DataFrame, stopping early if possible
func Take(ctx context.Context, df sifread.DataFrame, n int, opts *Options) ([]sifread.Row, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot take a negative number of rows (%d)", n)
	}
	res, err := run(ctx, df, opts, n)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return res.Rows()
}

// Show renders the first numRows Rows of a DataFrame as a table. If truncate is true,
// values wider than ShowTruncateWidth characters are shortened.
func Show(ctx context.Context, w io.Writer, df sifread.DataFrame, numRows int, truncate bool, opts *Options) error {
	if numRows < 0 {
		numRows = DefaultShowRows
	}
	// take one extra row, to learn whether there are more
	rows, err := Take(ctx, df, numRows+1, opts)
	if err != nil {
		return err
	}
	hasMore := len(rows) > numRows
	if hasMore {
		rows = rows[:numRows]
	}
	width := 0
	if truncate {
		width = ShowTruncateWidth
	}
	_, err = io.WriteString(w, FormatTable(df.GetSchema(), rows, width, hasMore))
	return err
}

// FormatTable renders Rows as a table, right-aligning each cell. Values longer than
// truncate characters are shortened, unless truncate is 0. If hasMore is true, a
// trailing line notes that only some rows are shown.
func FormatTable(schema sifread.Schema, rows []sifread.Row, truncate int, hasMore bool) string {
	names := schema.ColumnNames()
	colTypes := schema.ColumnTypes()
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, make([]string, len(names)))
	for i, name := range names {
		cells[0][i] = truncateCell(name, truncate)
	}
	for _, row := range rows {
		values := row.Values()
		line := make([]string, len(names))
		for i := range names {
			if i >= len(values) || values[i] == nil {
				line[i] = "null"
			} else {
				line[i] = truncateCell(colTypes[i].ToString(values[i]), truncate)
			}
		}
		cells = append(cells, line)
	}
	widths := make([]int, len(names))
	for i := range widths {
		widths[i] = 3
		for _, line := range cells {
			if n := utf8.RuneCountInString(line[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w))
		sep.WriteString("+")
	}
	sep.WriteString("\n")

	var res strings.Builder
	res.WriteString(sep.String())
	for l, line := range cells {
		res.WriteString("|")
		for i, cell := range line {
			res.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			res.WriteString(cell)
			res.WriteString("|")
		}
		res.WriteString("\n")
		if l == 0 {
			res.WriteString(sep.String())
		}
	}
	res.WriteString(sep.String())
	if hasMore {
		fmt.Fprintf(&res, "only showing top %d rows\n", len(rows))
	}
	return res.String()
}

func truncateCell(s string, truncate int) string {
	if truncate <= 0 || utf8.RuneCountInString(s) <= truncate {
		return s
	}
	runes := []rune(s)
	if truncate < 4 {
		return string(runes[:truncate])
	}
	return string(runes[:truncate-3]) + "..."
}
