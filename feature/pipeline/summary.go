package pipeline

import (
	"time"

	"github.com/google/uuid"

	"catalog-sync/feature/search"
)

// Stage names the pipeline's current phase. Stages advance strictly
// forward; a failed run keeps the stage it failed in next to StageFailed's
// error for the post-mortem.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageParsing     Stage = "parsing"
	StageClassifying Stage = "classifying"
	StageReconciling Stage = "reconciling"
	StageApplying    Stage = "applying"
	StageSyncing     Stage = "syncing"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// RunSummary is the full accounting of one pipeline run. Every anomaly the
// run tolerated (bad lines, coerced numbers, unclassifiable records) is
// counted here individually; nothing is folded into a generic error total.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Stage     Stage         `json:"stage"`
	Source    string        `json:"source"`
	DryRun    bool          `json:"dry_run"`

	// Parsing.
	LinesRead        int `json:"lines_read"`
	BlankLines       int `json:"blank_lines"`
	ParseErrors      int `json:"parse_errors"`
	Parsed           int `json:"parsed"`
	CoercionWarnings int `json:"coercion_warnings"`
	DuplicateKeys    int `json:"duplicate_keys"`

	// Classification. Gaps count records that matched no rule and no
	// fallback, per attribute.
	ClassificationGaps map[string]int `json:"classification_gaps"`

	// Reconciliation.
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Rejected  int `json:"rejected"`

	// Apply.
	StoreErrors int `json:"store_errors"`
	Deactivated int `json:"deactivated"`

	// Sync.
	Sync *search.SyncReport `json:"sync,omitempty"`

	// Error is set when the run aborted.
	Error string `json:"error,omitempty"`
}

func newSummary(source string, dryRun bool) *RunSummary {
	return &RunSummary{
		RunID:              uuid.NewString(),
		StartedAt:          time.Now(),
		Stage:              StageIdle,
		Source:             source,
		DryRun:             dryRun,
		ClassificationGaps: map[string]int{},
	}
}

// Anomalies flattens the tolerated-problem counters for reporting.
func (s *RunSummary) Anomalies() map[string]int {
	out := map[string]int{
		"blank_lines":       s.BlankLines,
		"parse_errors":      s.ParseErrors,
		"coercion_warnings": s.CoercionWarnings,
		"duplicate_keys":    s.DuplicateKeys,
		"rejected":          s.Rejected,
		"store_errors":      s.StoreErrors,
	}
	for attr, n := range s.ClassificationGaps {
		out["unclassified_"+attr] = n
	}
	return out
}
