package fileio

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalFileIO implements FileIO for the local filesystem
type LocalFileIO struct{}

// NewLocalFileIO creates a new local file I/O handler
func NewLocalFileIO() *LocalFileIO {
	return &LocalFileIO{}
}

// normalizePath removes file:// prefix if present
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "file://")
}

// Open opens a file for reading
func (l *LocalFileIO) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return os.Open(normalizePath(path))
}

// Create creates (or truncates) a file for writing
func (l *LocalFileIO) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	path = normalizePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return os.Create(path)
}

// Exists checks if a file or directory exists
func (l *LocalFileIO) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(normalizePath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir checks if a path refers to a directory
func (l *LocalFileIO) IsDir(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(normalizePath(path))
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Delete removes a file, or a directory and everything within it
func (l *LocalFileIO) Delete(ctx context.Context, path string) error {
	return os.RemoveAll(normalizePath(path))
}

// ListFiles lists every file beneath a directory, recursively
func (l *LocalFileIO) ListFiles(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(normalizePath(dir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Glob lists the files matching a pattern
func (l *LocalFileIO) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(normalizePath(pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
