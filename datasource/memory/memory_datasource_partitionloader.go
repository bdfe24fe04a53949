package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-sif/sifread"
)

// PartitionLoader is capable of loading partitions of data from a buffer
type PartitionLoader struct {
	idx    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("Memory loader index: %d", pl.idx)
}

// Location returns a name for the buffer this PartitionLoader reads
func (pl *PartitionLoader) Location() string {
	return fmt.Sprintf("memory[%d]", pl.idx)
}

// Open provides access to the buffer this PartitionLoader reads
func (pl *PartitionLoader) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(pl.source.data[pl.idx])), nil
}

// Load is capable of loading partitions of data from a buffer
func (pl *PartitionLoader) Load(ctx context.Context, parser sifread.DataSourceParser, schema sifread.Schema) (sifread.PartitionIterator, error) {
	r, err := pl.Open(ctx)
	if err != nil {
		return nil, err
	}
	return parser.Parse(r, pl, schema, nil)
}
