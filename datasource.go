package sifread

import (
	"context"
	"io"
)

// PartitionLoader is a description of how to load specific Partitions of data from a particular DataSource.
// DataSources implement this interface to implement data-loading logic. Each PartitionLoader typically
// corresponds to a single file or buffer.
type PartitionLoader interface {
	ToString() string                                                                            // for logging
	Location() string                                                                            // the path or name of the data this loader reads, reported alongside malformed records
	Open(ctx context.Context) (io.ReadCloser, error)                                             // raw access to the underlying bytes, used for schema inference
	Load(ctx context.Context, parser DataSourceParser, schema Schema) (PartitionIterator, error) // how to actually load data
}

// PartitionMap is an interface describing an iterator for PartitionLoaders.
// Returned by DataSource.Analyze(), an executor will iterate through
// PartitionLoaders and process them.
type PartitionMap interface {
	HasNext() bool
	Next() PartitionLoader
}

// DataSource is a source of data which will be manipulated according to transformations defined in a DataFrame.
// It represents information about how to load data from the source as Partitions.
type DataSource interface {
	Analyze(ctx context.Context) (PartitionMap, error)
	IsStreaming() bool
}

// A DataSourceParser is capable of parsing raw data from a PartitionLoader to produce Partitions
type DataSourceParser interface {
	PartitionSize() int // returns the maximum size of Partitions produced by this DataSourceParser, in rows
	Parse(r io.Reader, loader PartitionLoader, schema Schema, onIteratorEnd func()) (PartitionIterator, error)
}

// A SchemaInferrer is a DataSourceParser which is capable of deducing a Schema by sampling a DataSource
type SchemaInferrer interface {
	InferSchema(ctx context.Context, source DataSource) (Schema, error)
}
