// Package parquet reads and writes parquet files through arrow. Parquet files are
// buffered fully in memory while they are read, since the format is not streamable.
package parquet
