// Package datasource provides helpers for implementing DataSources and DataSourceParsers
package datasource

import (
	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/internal/dataframe"
	"github.com/go-sif/sifread/internal/partition"
)

// CreateDataFrame produces a fresh DataFrame (useful for the implementation of DataSources)
func CreateDataFrame(source sifread.DataSource, parser sifread.DataSourceParser, schema sifread.Schema) sifread.DataFrame {
	return dataframe.CreateDataFrame(source, parser, schema)
}

// CreateBuildablePartition produces an empty Partition which Rows can be appended to (useful for the implementation of DataSourceParsers)
func CreateBuildablePartition(maxRows int, schema sifread.Schema) sifread.BuildablePartition {
	return partition.CreateBuildablePartition(maxRows, schema)
}

// CreateTempRow produces a standalone Row which can be populated and appended to a BuildablePartition
func CreateTempRow(schema sifread.Schema) sifread.Row {
	return partition.CreateTempRow(schema)
}

// ResetTempRow sets every value of a Row produced by CreateTempRow to nil
func ResetTempRow(row sifread.Row) {
	partition.ResetTempRow(row)
}

// CreatePartitionIterator produces a PartitionIterator over a fixed slice of Partitions
func CreatePartitionIterator(parts []sifread.Partition) sifread.PartitionIterator {
	return dataframe.CreatePartitionSliceIterator(parts)
}
