// Package pipeline runs a full feed sync as a staged state machine.
//
// A run moves strictly forward through parsing, classifying, reconciling,
// applying, and syncing, and ends in done or failed. Bad lines, coerced numbers, and
// unclassifiable records never abort a run; they are counted in the
// RunSummary so the operator can judge feed quality after the fact. Fatal
// errors (unreachable source, database going away, cancellation) stop the
// run where it stands and leave the stage in the summary.
//
// The apply phase writes through a worker pool partitioned by product key,
// so concurrent writers never touch the same product.
package pipeline
