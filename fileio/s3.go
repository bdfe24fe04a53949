package fileio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds S3 configuration
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // For MinIO or other S3-compatible services
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	SessionToken    string `yaml:"sessionToken"`
	ForcePathStyle  bool   `yaml:"forcePathStyle"` // Required for MinIO
}

// S3FileIO implements FileIO for S3
type S3FileIO struct {
	client *s3.Client
}

// NewS3FileIO creates a new S3 file I/O handler
func NewS3FileIO(ctx context.Context, cfg *S3Config) (*S3FileIO, error) {
	if cfg == nil {
		cfg = &S3Config{}
	}
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			cfg.SessionToken,
		)
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	return &S3FileIO{client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

// parseS3URI parses an S3 URI into bucket and key
func parseS3URI(uri string) (bucket, key string, err error) {
	uri = strings.TrimPrefix(uri, "s3a://")
	uri = strings.TrimPrefix(uri, "s3://")
	u, err := url.Parse("s3://" + uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 URI: %w", err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in S3 URI %s", uri)
	}
	return bucket, key, nil
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "404") || strings.Contains(msg, "NoSuchKey")
}

// Open opens an object for reading
func (s *S3FileIO) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Create buffers writes to an object, uploading it on Close
func (s *S3FileIO) Create(ctx context.Context, uri string) (io.WriteCloser, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}
	return &s3Writer{
		client: s.client,
		bucket: bucket,
		key:    key,
		buffer: new(bytes.Buffer),
		ctx:    ctx,
	}, nil
}

// Exists checks if an object, or any object beneath a prefix, exists
func (s *S3FileIO) Exists(ctx context.Context, uri string) (bool, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}
	return s.IsDir(ctx, uri)
}

// IsDir checks if any object exists beneath the given prefix
func (s *S3FileIO) IsDir(ctx context.Context, uri string) (bool, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return false, err
	}
	prefix := strings.TrimSuffix(key, "/") + "/"
	if key == "" {
		prefix = ""
	}
	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(resp.Contents) > 0, nil
}

// Delete removes an object, or every object beneath a prefix
func (s *S3FileIO) Delete(ctx context.Context, uri string) error {
	isDir, err := s.IsDir(ctx, uri)
	if err != nil {
		return err
	}
	toDelete := []string{uri}
	if isDir {
		if toDelete, err = s.ListFiles(ctx, uri); err != nil {
			return err
		}
	}
	for _, p := range toDelete {
		bucket, key, err := parseS3URI(p)
		if err != nil {
			return err
		}
		_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s/%s: %w", bucket, key, err)
		}
	}
	return nil
}

// ListFiles lists every object beneath a prefix
func (s *S3FileIO) ListFiles(ctx context.Context, dir string) ([]string, error) {
	bucket, key, err := parseS3URI(dir)
	if err != nil {
		return nil, err
	}
	prefix := key
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	objects, err := s.list(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(objects))
	for _, obj := range objects {
		if strings.HasSuffix(*obj.Key, "/") {
			continue
		}
		files = append(files, fmt.Sprintf("s3://%s/%s", bucket, *obj.Key))
	}
	sort.Strings(files)
	return files, nil
}

// Glob lists the objects matching a pattern. Matching follows path.Match, so * does not cross a /.
func (s *S3FileIO) Glob(ctx context.Context, pattern string) ([]string, error) {
	bucket, key, err := parseS3URI(pattern)
	if err != nil {
		return nil, err
	}
	if _, err = path.Match(key, ""); err != nil {
		return nil, err
	}
	prefix := key
	if idx := strings.IndexAny(key, "*?["); idx >= 0 {
		prefix = key[:idx]
	}
	objects, err := s.list(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, obj := range objects {
		if ok, _ := path.Match(key, *obj.Key); ok {
			matches = append(matches, fmt.Sprintf("s3://%s/%s", bucket, *obj.Key))
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (s *S3FileIO) list(ctx context.Context, bucket string, prefix string) ([]types.Object, error) {
	var objects []types.Object
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		objects = append(objects, page.Contents...)
	}
	return objects, nil
}

// s3Writer buffers writes and uploads on close
type s3Writer struct {
	client *s3.Client
	bucket string
	key    string
	buffer *bytes.Buffer
	ctx    context.Context
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	return w.buffer.Write(p)
}

func (w *s3Writer) Close() error {
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buffer.Bytes()),
	})
	return err
}
