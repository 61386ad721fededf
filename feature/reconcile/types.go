package reconcile

import (
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/classify"
	"catalog-sync/feature/feed"
)

// OpType classifies a reconciliation decision.
type OpType string

const (
	// OpInsert creates a product first seen in this feed run.
	OpInsert OpType = "insert"
	// OpUpdate applies a field diff to an existing product.
	OpUpdate OpType = "update"
	// OpNoOp means the stored product already matches the feed.
	OpNoOp OpType = "noop"
	// OpRejected excludes a record that cannot be keyed.
	OpRejected OpType = "rejected"
)

// ChangeOp is one reconciliation decision for one feed record.
type ChangeOp struct {
	Type OpType
	SKU  catalog.SKU

	// Entity is the desired end state of the product. Set for inserts and
	// updates; the search projection is built from it.
	Entity *catalog.Product

	// ID and Diff describe an update: only the fields that changed.
	ID   uint
	Diff catalog.FieldDiff

	// Reason explains a rejection.
	Reason string
}

// Incoming pairs a parsed feed record with its extracted attributes.
type Incoming struct {
	Record *feed.Record
	Attrs  classify.Result
}

// Changeset aggregates the decisions of one run.
type Changeset struct {
	Ops []ChangeOp

	Inserts  int
	Updates  int
	NoOps    int
	Rejected int
}

// Add appends an op and updates the counters.
func (cs *Changeset) Add(op ChangeOp) {
	cs.Ops = append(cs.Ops, op)
	switch op.Type {
	case OpInsert:
		cs.Inserts++
	case OpUpdate:
		cs.Updates++
	case OpNoOp:
		cs.NoOps++
	case OpRejected:
		cs.Rejected++
	}
}

// Mutations returns only the ops that change the store (inserts and updates).
func (cs *Changeset) Mutations() []ChangeOp {
	ops := make([]ChangeOp, 0, cs.Inserts+cs.Updates)
	for _, op := range cs.Ops {
		if op.Type == OpInsert || op.Type == OpUpdate {
			ops = append(ops, op)
		}
	}
	return ops
}
