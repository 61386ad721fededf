package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-sync/core/logger"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/classify"
	"catalog-sync/feature/feed"
	"catalog-sync/feature/reconcile"
	"catalog-sync/feature/search"
)

// Config holds pipeline execution settings.
type Config struct {
	// Workers bounds concurrent store writers during apply.
	Workers int `mapstructure:"workers" default:"4"`
	// DeactivateMissing soft-deletes products absent from the feed. Off
	// by default: a truncated feed must not wipe the catalog.
	DeactivateMissing bool `mapstructure:"deactivate_missing" default:"false"`
	// DryRun stops after reconciliation and reports what would change.
	DryRun bool `mapstructure:"dry_run" default:"false"`
}

// Runner executes a full feed run as a staged pipeline: parse, classify,
// reconcile, apply, sync. Each run gets its own id and summary.
type Runner struct {
	cfg        Config
	source     feed.Source
	parser     *feed.Parser
	rules      []classify.RuleSet
	engine     *reconcile.Engine
	store      catalog.Store
	dispatcher *search.Dispatcher
	logger     *zap.Logger
}

// NewRunner wires a pipeline from its parts. The dispatcher may be nil, in
// which case the sync stage is skipped.
func NewRunner(
	cfg Config,
	source feed.Source,
	parser *feed.Parser,
	rules []classify.RuleSet,
	engine *reconcile.Engine,
	store catalog.Store,
	dispatcher *search.Dispatcher,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		cfg:        cfg,
		source:     source,
		parser:     parser,
		rules:      rules,
		engine:     engine,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run executes the pipeline once. The summary is returned even on failure,
// with Stage and Error marking where the run stopped. Per-line problems are
// counted, not fatal; only source, store, and cancellation errors abort.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	summary := newSummary(r.source.Describe(), r.cfg.DryRun)
	log := logger.WithRunID(r.logger, summary.RunID)
	defer func() { summary.Elapsed = time.Since(summary.StartedAt) }()

	fail := func(stage Stage, err error) (*RunSummary, error) {
		summary.Stage = StageFailed
		summary.Error = fmt.Sprintf("%s: %v", stage, err)
		log.Error("run failed", zap.String("stage", string(stage)), zap.Error(err))
		return summary, err
	}

	// Parse.
	summary.Stage = StageParsing
	records, err := r.parse(ctx, summary)
	if err != nil {
		return fail(StageParsing, err)
	}
	log.Info("feed parsed",
		zap.Int("lines", summary.LinesRead),
		zap.Int("parsed", summary.Parsed),
		zap.Int("rejected", summary.ParseErrors))

	// Classify.
	summary.Stage = StageClassifying
	incoming := r.classify(records, summary)

	// Reconcile.
	summary.Stage = StageReconciling
	index, err := r.store.LoadIndex(ctx)
	if err != nil {
		return fail(StageReconciling, err)
	}
	cs := r.engine.Reconcile(index, incoming)
	summary.Inserted = cs.Inserts
	summary.Updated = cs.Updates
	summary.Unchanged = cs.NoOps
	summary.Rejected = cs.Rejected
	log.Info("reconciled",
		zap.Int("insert", cs.Inserts),
		zap.Int("update", cs.Updates),
		zap.Int("noop", cs.NoOps),
		zap.Int("rejected", cs.Rejected))

	if r.cfg.DryRun {
		summary.Stage = StageDone
		return summary, nil
	}

	// Apply.
	summary.Stage = StageApplying
	failedWrites, err := r.apply(ctx, cs.Mutations(), summary)
	if err != nil {
		return fail(StageApplying, err)
	}

	var deactivated []catalog.SKU
	if r.cfg.DeactivateMissing {
		seen := make(map[catalog.SKU]struct{}, len(incoming))
		for i := range incoming {
			if sku := incoming[i].Record.ManufacturerPartNumber; sku != "" {
				seen[sku] = struct{}{}
			}
		}
		deactivated, err = r.store.DeactivateAbsent(ctx, seen)
		if err != nil {
			return fail(StageApplying, err)
		}
		summary.Deactivated = len(deactivated)
		if len(deactivated) > 0 {
			log.Warn("deactivated products absent from feed", zap.Int("count", len(deactivated)))
		}
	}

	// Sync. The index is a projection of the store, so only entities whose
	// write landed are pushed, and a soft-deleted product goes out with its
	// active flag flipped the same way the store row was.
	if r.dispatcher != nil {
		summary.Stage = StageSyncing
		docs := make([]search.Document, 0, len(cs.Ops)+len(deactivated))
		for _, op := range cs.Mutations() {
			if _, failed := failedWrites[op.SKU]; failed {
				continue
			}
			docs = append(docs, search.FromEntity(op.Entity))
		}
		for _, sku := range deactivated {
			p, ok := index[sku]
			if !ok {
				continue
			}
			cp := *p
			cp.IsActive = false
			docs = append(docs, search.FromEntity(&cp))
		}
		report, err := r.dispatcher.Dispatch(ctx, docs)
		summary.Sync = report
		if err != nil {
			return fail(StageSyncing, err)
		}
	}

	summary.Stage = StageDone
	log.Info("run complete", zap.Duration("elapsed", time.Since(summary.StartedAt)))
	return summary, nil
}

// parse streams the feed line by line. Duplicate part numbers collapse to
// the last occurrence, mirroring what a keyed upsert would do anyway, and
// are counted as anomalies.
func (r *Runner) parse(ctx context.Context, summary *RunSummary) ([]*feed.Record, error) {
	reader, err := r.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var (
		records []*feed.Record
		bySKU   = map[catalog.SKU]int{}
	)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.LinesRead++

		rec, err := r.parser.ParseLine(scanner.Text())
		if err != nil {
			if errors.Is(err, feed.ErrBlankLine) {
				summary.BlankLines++
				continue
			}
			summary.ParseErrors++
			r.logger.Debug("line rejected",
				zap.Int("line", summary.LinesRead), zap.Error(err))
			continue
		}
		summary.CoercionWarnings += len(rec.Coercions)

		if sku := rec.ManufacturerPartNumber; sku != "" {
			if i, ok := bySKU[sku]; ok {
				summary.DuplicateKeys++
				records[i] = rec
				continue
			}
			bySKU[sku] = len(records)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	summary.Parsed = len(records)
	return records, nil
}

func (r *Runner) classify(records []*feed.Record, summary *RunSummary) []reconcile.Incoming {
	incoming := make([]reconcile.Incoming, len(records))
	for i, rec := range records {
		attrs := classify.Extract(rec, r.rules)
		for j := range r.rules {
			if _, ok := attrs[r.rules[j].Attribute]; !ok {
				summary.ClassificationGaps[string(r.rules[j].Attribute)]++
			}
		}
		incoming[i] = reconcile.Incoming{Record: rec, Attrs: attrs}
	}
	return incoming
}

// apply writes the changeset through a bounded worker pool. Ops are
// partitioned by key hash so two ops for the same product never race, and
// per-op store failures are counted rather than aborting the run. Only a
// transient store error stops everything: if the database is going away
// there is no point hammering it with the rest of the batch.
//
// The returned set holds the SKUs whose write failed, so the sync stage
// can keep them out of the index until a later run lands them.
func (r *Runner) apply(ctx context.Context, ops []reconcile.ChangeOp, summary *RunSummary) (map[catalog.SKU]struct{}, error) {
	if len(ops) == 0 {
		return nil, nil
	}

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	partitions := make([][]reconcile.ChangeOp, workers)
	for _, op := range ops {
		h := fnv.New32a()
		h.Write([]byte(op.SKU))
		i := int(h.Sum32()) % workers
		partitions[i] = append(partitions[i], op)
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make([][]catalog.SKU, workers)
	for w, part := range partitions {
		g.Go(func() error {
			for _, op := range part {
				var err error
				switch op.Type {
				case reconcile.OpInsert:
					err = r.store.Insert(ctx, op.Entity)
				case reconcile.OpUpdate:
					err = r.store.Update(ctx, op.ID, op.Diff)
				}
				if err != nil {
					if catalog.IsTransient(err) {
						return err
					}
					results[w] = append(results[w], op.SKU)
					r.logger.Error("store write failed",
						zap.String("sku", string(op.SKU)),
						zap.String("op", string(op.Type)),
						zap.Error(err))
				}
			}
			return nil
		})
	}
	err := g.Wait()
	failed := map[catalog.SKU]struct{}{}
	for _, skus := range results {
		summary.StoreErrors += len(skus)
		for _, sku := range skus {
			failed[sku] = struct{}{}
		}
	}
	return failed, err
}
