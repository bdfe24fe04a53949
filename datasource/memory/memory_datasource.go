// Package memory provides a DataSource which reads data from in-memory buffers
package memory

import (
	"context"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
)

// DataSource is a set of buffers containing data which will be manipulated according to a DataFrame
type DataSource struct {
	data [][]byte
}

// CreateDataSource is a factory for DataSources. Each buffer is loaded by its own PartitionLoader.
func CreateDataSource(data [][]byte) *DataSource {
	return &DataSource{data: data}
}

// CreateDataFrame is a factory for DataFrames backed by a memory DataSource
func CreateDataFrame(data [][]byte, parser sifread.DataSourceParser, schema sifread.Schema) sifread.DataFrame {
	return datasource.CreateDataFrame(CreateDataSource(data), parser, schema)
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (fs *DataSource) Analyze(ctx context.Context) (sifread.PartitionMap, error) {
	return &PartitionMap{
		source: fs,
	}, nil
}

// IsStreaming returns true iff this DataSource provides a continuous stream of data
func (fs *DataSource) IsStreaming() bool {
	return false
}
