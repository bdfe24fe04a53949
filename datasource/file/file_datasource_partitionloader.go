package file

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/go-sif/sifread"
)

// PartitionLoader is capable of loading partitions of data from a file
type PartitionLoader struct {
	path   string
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("File loader filename: %s", pl.path)
}

// Location returns the path of the file this PartitionLoader reads
func (pl *PartitionLoader) Location() string {
	return pl.path
}

// Open opens the file this PartitionLoader reads
func (pl *PartitionLoader) Open(ctx context.Context) (io.ReadCloser, error) {
	return pl.source.fio.Open(ctx, pl.path)
}

// Load is capable of loading partitions of data from a file
func (pl *PartitionLoader) Load(ctx context.Context, parser sifread.DataSourceParser, schema sifread.Schema) (sifread.PartitionIterator, error) {
	f, err := pl.Open(ctx)
	if err != nil {
		return nil, err
	}
	pi, err := parser.Parse(f, pl, schema, func() {
		err := f.Close()
		if err != nil {
			log.Printf("WARNING: couldn't close file %s: %v", pl.path, err)
		}
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return pi, nil
}
