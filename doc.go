// Package sifread contains the core components of sifread, a library for loading delimited
// and line-delimited JSON files into lazily-evaluated DataFrames. This root package defines the
// types which are employed during the regular use of the library, as well as in its extension
// (new DataSources, Parsers and ColumnTypes), and is an excellent overview of its key concepts.
package sifread
