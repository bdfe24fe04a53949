// Package reader provides DataFrameReader, which loads csv, json, parquet and
// avro files into DataFrames. Schemas are resolved when Load is called: an
// explicit schema always wins, otherwise one is derived from the data according
// to the header and inferSchema options.
package reader
