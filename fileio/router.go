package fileio

import (
	"context"
	"io"
	"sync"
)

// Router is a FileIO which dispatches each call to a LocalFileIO or an S3FileIO,
// according to the scheme of the path. The S3FileIO is created on first use.
type Router struct {
	local    *LocalFileIO
	s3Config *S3Config
	s3Lock   sync.Mutex
	s3       *S3FileIO
}

// NewRouter creates a Router. s3Config may be nil, in which case the default AWS configuration chain is used.
func NewRouter(s3Config *S3Config) *Router {
	return &Router{
		local:    NewLocalFileIO(),
		s3Config: s3Config,
	}
}

func (r *Router) forPath(ctx context.Context, path string) (FileIO, error) {
	if !IsS3Path(path) {
		return r.local, nil
	}
	r.s3Lock.Lock()
	defer r.s3Lock.Unlock()
	if r.s3 == nil {
		s3io, err := NewS3FileIO(ctx, r.s3Config)
		if err != nil {
			return nil, err
		}
		r.s3 = s3io
	}
	return r.s3, nil
}

// Open opens a file for reading
func (r *Router) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	fio, err := r.forPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return fio.Open(ctx, path)
}

// Create creates (or truncates) a file for writing
func (r *Router) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	fio, err := r.forPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return fio.Create(ctx, path)
}

// Exists checks if a file or directory exists
func (r *Router) Exists(ctx context.Context, path string) (bool, error) {
	fio, err := r.forPath(ctx, path)
	if err != nil {
		return false, err
	}
	return fio.Exists(ctx, path)
}

// IsDir checks if a path refers to a directory
func (r *Router) IsDir(ctx context.Context, path string) (bool, error) {
	fio, err := r.forPath(ctx, path)
	if err != nil {
		return false, err
	}
	return fio.IsDir(ctx, path)
}

// Delete removes a file, or a directory and everything within it
func (r *Router) Delete(ctx context.Context, path string) error {
	fio, err := r.forPath(ctx, path)
	if err != nil {
		return err
	}
	return fio.Delete(ctx, path)
}

// ListFiles lists every file beneath a directory, recursively
func (r *Router) ListFiles(ctx context.Context, dir string) ([]string, error) {
	fio, err := r.forPath(ctx, dir)
	if err != nil {
		return nil, err
	}
	return fio.ListFiles(ctx, dir)
}

// Glob lists the files matching a pattern
func (r *Router) Glob(ctx context.Context, pattern string) ([]string, error) {
	fio, err := r.forPath(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return fio.Glob(ctx, pattern)
}
