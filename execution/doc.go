// Package execution materializes DataFrames. Each PartitionLoader of a DataFrame's
// DataSource is processed by one of a bounded pool of workers, and the resulting
// Partitions are returned in loader order. Partitions which do not fit in memory
// are spilled to disk.
package execution
