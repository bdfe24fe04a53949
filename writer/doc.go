// Package writer provides DataFrameWriter, which executes a DataFrame and saves
// its rows as parquet, json, csv or avro files, or as a persistent table in a
// catalog's warehouse. Each save produces a directory holding part files and
// an empty _SUCCESS marker.
package writer
