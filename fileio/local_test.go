package fileio

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, fio FileIO, path string, contents string) {
	w, err := fio.Create(context.Background(), path)
	require.Nil(t, err)
	_, err = io.WriteString(w, contents)
	require.Nil(t, err)
	require.Nil(t, w.Close())
}

func TestLocalCreateAndOpen(t *testing.T) {
	ctx := context.Background()
	fio := NewLocalFileIO()
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.csv")
	writeTestFile(t, fio, path, "a,b\n1,2\n")

	exists, err := fio.Exists(ctx, path)
	require.Nil(t, err)
	require.True(t, exists)
	isDir, err := fio.IsDir(ctx, filepath.Dir(path))
	require.Nil(t, err)
	require.True(t, isDir)

	r, err := fio.Open(ctx, "file://"+path)
	require.Nil(t, err)
	defer r.Close()
	buf, err := io.ReadAll(r)
	require.Nil(t, err)
	require.Equal(t, "a,b\n1,2\n", string(buf))
}

func TestLocalListAndGlob(t *testing.T) {
	ctx := context.Background()
	fio := NewLocalFileIO()
	dir := t.TempDir()
	writeTestFile(t, fio, filepath.Join(dir, "b.csv"), "b")
	writeTestFile(t, fio, filepath.Join(dir, "a.csv"), "a")
	writeTestFile(t, fio, filepath.Join(dir, "sub", "c.json"), "c")

	files, err := fio.ListFiles(ctx, dir)
	require.Nil(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "sub", "c.json"),
	}, files)

	matches, err := fio.Glob(ctx, filepath.Join(dir, "*.csv"))
	require.Nil(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, matches)
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	fio := NewLocalFileIO()
	dir := filepath.Join(t.TempDir(), "table")
	writeTestFile(t, fio, filepath.Join(dir, "part-0"), "x")
	require.Nil(t, fio.Delete(ctx, dir))
	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err))
	exists, err := fio.Exists(ctx, dir)
	require.Nil(t, err)
	require.False(t, exists)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://my-bucket/path/to/data.csv")
	require.Nil(t, err)
	require.Equal(t, "my-bucket", bucket)
	require.Equal(t, "path/to/data.csv", key)

	bucket, key, err = parseS3URI("s3a://other/data")
	require.Nil(t, err)
	require.Equal(t, "other", bucket)
	require.Equal(t, "data", key)

	_, _, err = parseS3URI("s3:///no-bucket")
	require.NotNil(t, err)
}

func TestRouterLocal(t *testing.T) {
	ctx := context.Background()
	router := NewRouter(nil)
	path := filepath.Join(t.TempDir(), "x.txt")
	writeTestFile(t, router, path, "hello")
	exists, err := router.Exists(ctx, path)
	require.Nil(t, err)
	require.True(t, exists)
	require.True(t, IsS3Path("s3a://bucket/key"))
	require.False(t, IsS3Path(path))
	require.Equal(t, "s3://b/dir/part-0", Join("s3://b/dir/", "part-0"))
}
