// Package jsonl provides a DataSourceParser for line-delimited JSON. Columns are
// extracted with gjson paths, so a column named "meta.index" reads a nested value.
package jsonl
