package parser

import (
	"context"

	"github.com/go-sif/sifread"
)

// ScanSource reads the lines of every input of a DataSource, in order, for schema inference.
// fn receives each input's LineReader, and returns false to stop scanning.
func ScanSource(ctx context.Context, source sifread.DataSource, fn func(location string, lines *LineReader) (bool, error)) error {
	pm, err := source.Analyze(ctx)
	if err != nil {
		return err
	}
	for pm.HasNext() {
		if err := ctx.Err(); err != nil {
			return err
		}
		loader := pm.Next()
		r, err := loader.Open(ctx)
		if err != nil {
			return err
		}
		more, err := fn(loader.Location(), NewLineReader(r))
		r.Close()
		if err != nil {
			return err
		} else if !more {
			return nil
		}
	}
	return nil
}
