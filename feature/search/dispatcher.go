package search

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// SyncReport accounts for one dispatch: what reached the index and what
// did not, batch by batch.
type SyncReport struct {
	Documents int
	Deduped   int
	Batches   int

	Upserted int
	Failed   int
	Retries  int

	// Errors holds the final error per failed batch.
	Errors []string

	// Elapsed is the wall-clock time the dispatch spent, retries and
	// backoff included.
	Elapsed time.Duration
}

// Dispatcher pushes documents to the search index in bounded-concurrency
// batches, with retry on transient failures and a shared request rate limit.
type Dispatcher struct {
	cfg     Config
	client  IndexClient
	limiter *rate.Limiter
	logger  *zap.Logger

	// sleep is replaceable in tests so backoff does not slow them down.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher wires a dispatcher over an index client.
func NewDispatcher(cfg Config, client IndexClient, logger *zap.Logger) *Dispatcher {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &Dispatcher{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Dispatch upserts the documents and reports what happened. Duplicate
// object IDs collapse to the last occurrence, so re-sending the same run is
// harmless: a partial upsert of identical fields is a no-op server-side.
//
// A batch that exhausts its retries is counted as failed and the remaining
// batches still run; only context cancellation stops the dispatch early.
func (d *Dispatcher) Dispatch(ctx context.Context, docs []Document) (*SyncReport, error) {
	report := &SyncReport{Documents: len(docs)}
	start := time.Now()
	defer func() { report.Elapsed = time.Since(start) }()

	docs = dedupe(docs)
	report.Deduped = report.Documents - len(docs)

	batchSize := d.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	batches := chunk(docs, batchSize)
	report.Batches = len(batches)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	workers := d.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, batch := range batches {
		g.Go(func() error {
			retries, err := d.send(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			report.Retries += retries
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				report.Failed += len(batch)
				report.Errors = append(report.Errors, err.Error())
				d.logger.Error("batch failed",
					zap.Int("batch", i),
					zap.Int("size", len(batch)),
					zap.Error(err))
				return nil
			}
			report.Upserted += len(batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// send pushes one batch, retrying transient failures with exponential
// backoff and jitter. It returns how many retries it spent.
func (d *Dispatcher) send(ctx context.Context, batch []Document) (int, error) {
	base := time.Duration(d.cfg.BackoffBaseMs) * time.Millisecond
	if base <= 0 {
		base = 250 * time.Millisecond
	}

	var err error
	for attempt := 0; ; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return attempt, cerr
		}
		if d.limiter != nil {
			if werr := d.limiter.Wait(ctx); werr != nil {
				return attempt, werr
			}
		}

		err = d.client.PartialUpdateBatch(ctx, batch)
		if err == nil {
			return attempt, nil
		}
		if !transient(err) || attempt >= d.cfg.MaxRetries {
			return attempt, err
		}

		delay := base << attempt
		delay += time.Duration(rand.Int63n(int64(base)))
		if serr := d.sleep(ctx, delay); serr != nil {
			return attempt, serr
		}
	}
}

func transient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	// Network-level failures (timeouts, resets) arrive as plain errors
	// from the HTTP client and are worth one more try.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// dedupe collapses duplicate object IDs, keeping the last occurrence in its
// first-seen position so output order stays deterministic.
func dedupe(docs []Document) []Document {
	seen := make(map[string]int, len(docs))
	out := docs[:0:0]
	for _, doc := range docs {
		if i, ok := seen[doc.ObjectID]; ok {
			out[i] = doc
			continue
		}
		seen[doc.ObjectID] = len(out)
		out = append(out, doc)
	}
	return out
}

func chunk(docs []Document, size int) [][]Document {
	if len(docs) == 0 {
		return nil
	}
	batches := make([][]Document, 0, (len(docs)+size-1)/size)
	for size < len(docs) {
		batches = append(batches, docs[:size])
		docs = docs[size:]
	}
	return append(batches, docs)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
