package file

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/fileio"
)

// DataSource is a set of files containing data which will be manipulated according to a DataFrame
type DataSource struct {
	paths []string
	fio   fileio.FileIO
}

// CreateDataSource is a factory for DataSources. Each path may be a file, a glob or a directory.
func CreateDataSource(fio fileio.FileIO, paths ...string) *DataSource {
	return &DataSource{paths: paths, fio: fio}
}

// CreateDataFrame is a factory for DataFrames backed by a file DataSource
func CreateDataFrame(fio fileio.FileIO, paths []string, parser sifread.DataSourceParser, schema sifread.Schema) sifread.DataFrame {
	return datasource.CreateDataFrame(CreateDataSource(fio, paths...), parser, schema)
}

// Paths returns the paths this DataSource was created with
func (fs *DataSource) Paths() []string {
	return fs.paths
}

// Analyze returns a PartitionMap, describing how the source files will be divided into Partitions
func (fs *DataSource) Analyze(ctx context.Context) (sifread.PartitionMap, error) {
	files, err := fs.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return &PartitionMap{
		files:  files,
		source: fs,
	}, nil
}

// resolve expands globs and directories into a list of files
func (fs *DataSource) resolve(ctx context.Context) ([]string, error) {
	var toRead []string
	seen := make(map[string]bool)
	add := func(file string) {
		if !seen[file] {
			seen[file] = true
			toRead = append(toRead, file)
		}
	}
	for _, path := range fs.paths {
		var candidates []string
		if fileio.HasGlobMeta(path) {
			matches, err := fs.fio.Glob(ctx, path)
			if err != nil {
				return nil, err
			}
			candidates = matches
		} else {
			exists, err := fs.fio.Exists(ctx, path)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("path %s does not exist: %w", path, errors.ErrNoInputFiles)
			}
			candidates = []string{path}
		}
		for _, candidate := range candidates {
			isDir, err := fs.fio.IsDir(ctx, candidate)
			if err != nil {
				return nil, err
			}
			if !isDir {
				add(candidate)
				continue
			}
			files, err := fs.fio.ListFiles(ctx, candidate)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				if !isHidden(candidate, file) {
					add(file)
				}
			}
		}
	}
	if len(toRead) == 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(fs.paths, ", "), errors.ErrNoInputFiles)
	}
	return toRead, nil
}

// isHidden returns true iff any path component of file beneath dir starts with _ or .
func isHidden(dir string, file string) bool {
	rel := strings.TrimPrefix(file, strings.TrimRight(dir, "/\\"))
	for _, component := range strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' }) {
		if strings.HasPrefix(component, "_") || strings.HasPrefix(component, ".") {
			return true
		}
	}
	return false
}

// IsStreaming returns true iff this DataSource provides a continuous stream of data
func (fs *DataSource) IsStreaming() bool {
	return false
}
