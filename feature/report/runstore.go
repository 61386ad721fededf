package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	"catalog-sync/core/storage"
	"catalog-sync/feature/pipeline"
)

const (
	runPrefix = "runs/"
	latestKey = "runs/latest.json"
)

// RunStore archives run summaries as JSON objects in the storage bucket,
// next to the feed snapshots they came from. The newest summary is also
// written under a fixed key so readers do not need to list the bucket.
type RunStore struct {
	client storage.Client
	bucket string
}

// NewRunStore wires a run archive over the storage client.
func NewRunStore(client storage.Client, bucket string) *RunStore {
	return &RunStore{client: client, bucket: bucket}
}

// Save archives a run summary under its run id and as the latest run.
func (s *RunStore) Save(ctx context.Context, summary *pipeline.RunSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	keys := []string{runPrefix + summary.RunID + ".json", latestKey}
	for _, key := range keys {
		_, err := s.client.PutObject(ctx, s.bucket, key,
			bytes.NewReader(raw), int64(len(raw)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			return fmt.Errorf("failed to archive run summary %s: %w", key, err)
		}
	}
	return nil
}

// Latest returns the most recently saved run summary, or nil when no run
// has been archived yet.
func (s *RunStore) Latest(ctx context.Context) (*pipeline.RunSummary, error) {
	return s.load(ctx, latestKey)
}

// Get returns the summary archived for a run id, or nil if unknown.
func (s *RunStore) Get(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
	return s.load(ctx, runPrefix+runID+".json")
}

// List returns the archived run ids, newest last.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: runPrefix}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", info.Err)
		}
		if info.Key == latestKey {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(info.Key, runPrefix), ".json")
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RunStore) load(ctx context.Context, key string) (*pipeline.RunSummary, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		// Minio reports missing objects on read, not on open.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var summary pipeline.RunSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &summary, nil
}
