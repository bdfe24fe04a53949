// Package fileio abstracts the storage that DataFrames are read from and written to.
// Paths are plain local paths, file:// URIs, or s3:// (and s3a://) URIs.
package fileio

import (
	"context"
	"io"
	"strings"
)

// FileIO is the interface for file operations
type FileIO interface {
	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Create creates (or truncates) a file for writing, creating parent directories as needed
	Create(ctx context.Context, path string) (io.WriteCloser, error)
	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)
	// IsDir checks if a path refers to a directory
	IsDir(ctx context.Context, path string) (bool, error)
	// Delete removes a file, or a directory and everything within it
	Delete(ctx context.Context, path string) error
	// ListFiles lists every file beneath a directory, recursively, in lexical order
	ListFiles(ctx context.Context, dir string) ([]string, error)
	// Glob lists the files matching a pattern, in lexical order
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// IsS3Path returns true iff path is an s3:// or s3a:// URI
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "s3a://")
}

// HasGlobMeta returns true iff path contains glob metacharacters
func HasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// Join joins path elements with a forward slash, preserving any URI scheme in base
func Join(base string, elem ...string) string {
	res := strings.TrimRight(base, "/")
	for _, e := range elem {
		res = res + "/" + strings.Trim(e, "/")
	}
	return res
}
