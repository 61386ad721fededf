package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FieldDiff maps column names to new values for a partial update.
// A diff only ever contains fields whose value actually changed.
type FieldDiff map[string]any

// Store is the read/write interface the reconciliation pipeline uses.
// FindBySKU and LoadIndex return what is currently persisted; Insert and
// Update apply a changeset; DeactivateAbsent implements soft-delete for
// products that disappeared from the feed.
type Store interface {
	// FindBySKU returns the product with the given SKU, or nil if absent.
	FindBySKU(ctx context.Context, sku SKU) (*Product, error)
	// LoadIndex bulk-loads every product, inactive ones included, keyed by
	// SKU. A returning SKU must reactivate by update, not collide on insert.
	// Feeds run in the tens of thousands of records; one bulk read beats
	// a per-record lookup by a wide margin.
	LoadIndex(ctx context.Context) (map[SKU]*Product, error)
	// Insert persists a new product.
	Insert(ctx context.Context, p *Product) error
	// Update applies a partial field diff to the product with the given id.
	Update(ctx context.Context, id uint, diff FieldDiff) error
	// DeactivateAbsent flags every active product whose SKU is not in seen
	// as inactive and returns the SKUs it flagged, so the caller can push
	// the same flip to downstream projections.
	DeactivateAbsent(ctx context.Context, seen map[SKU]struct{}) ([]SKU, error)
}

// StoreError wraps a store failure with a transient/permanent classification.
// Transient failures (timeouts, dropped connections) are worth retrying;
// permanent ones (constraint violations, bad queries) are not.
type StoreError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *StoreError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("store %s (%s): %v", e.Op, kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a store error worth retrying.
func IsTransient(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Transient
	}
	return false
}

// wrapStoreErr classifies a raw driver error. MySQL driver errors don't
// expose a clean transient flag, so classification is by error shape:
// context/network failures retry, everything else is treated as permanent.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Transient: isTransientErr(err), Err: err}
}

func isTransientErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"timeout", "connection refused", "connection reset",
		"broken pipe", "bad connection", "try again",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
