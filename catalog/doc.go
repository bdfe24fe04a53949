// Package catalog resolves table names for a session. Temporary views are
// named DataFrames which live as long as the Catalog. Persistent tables are
// directories of parquet files beneath a warehouse directory, and are visible
// to every Catalog sharing that warehouse. Names are case-insensitive.
package catalog
