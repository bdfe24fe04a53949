// Package session ties sifread together. A Session owns the storage used for
// reads and writes, a catalog of temporary views and warehouse tables, and the
// options with which DataFrames are executed.
package session
