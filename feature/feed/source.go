package feed

import (
	"context"
	"fmt"
	"io"
	"os"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source supplies the raw feed content for one run.
type Source interface {
	// Open returns a reader over the feed content. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Describe names the source for logs and the run summary.
	Describe() string
}

// FileSource reads the feed from a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	return f, nil
}

func (s *FileSource) Describe() string {
	return "file:" + s.Path
}

// ObjectSource reads the feed snapshot from the storage bucket. The upstream
// download job drops each distributor export into the bucket; a run always
// consumes a named snapshot rather than whatever happens to be on disk.
type ObjectSource struct {
	Client storage.Client
	Bucket string
	Object string
}

func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check feed bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("feed bucket %q does not exist", s.Bucket)
	}

	rc, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open feed snapshot %s: %w", s.Object, err)
	}
	return rc, nil
}

func (s *ObjectSource) Describe() string {
	return fmt.Sprintf("s3:%s/%s", s.Bucket, s.Object)
}

// NewSource picks the feed source from configuration: a local file path when
// set, otherwise the snapshot object in the storage bucket.
func NewSource(cfg Config, client storage.Client, bucket string) (Source, error) {
	if cfg.Path != "" {
		return &FileSource{Path: cfg.Path}, nil
	}
	if client == nil {
		return nil, fmt.Errorf("no feed path configured and no storage client available")
	}
	if cfg.Object == "" {
		return nil, fmt.Errorf("no feed object configured")
	}
	return &ObjectSource{Client: client, Bucket: bucket, Object: cfg.Object}, nil
}
