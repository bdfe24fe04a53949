// Package file provides a DataSource which reads data from files, globs and directories
// of files, on local disk or in S3. Each file is loaded in its entirety by a single
// PartitionLoader, so it is favourable if individual files represent roughly
// equal-sized divisions of data.
package file
