// Package parser holds the record handling shared by sifread's DataSourceParsers:
// how values are converted to column types, how malformed records are disposed of
// according to a ParseMode, and where diverted records are written.
package parser
