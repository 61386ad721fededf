// Package catalog owns the persistent product model and its store.
//
// # Keys
//
// The package defines two distinct key types. SKU is the manufacturer part
// number and is the only natural key anything in this repository reconciles
// or indexes by. StockNumber is the distributor's own order code; it is
// carried on products purely so orders can be placed upstream. Keeping them
// as separate named types makes mixing them up a compile error instead of a
// data-corruption incident.
//
// # Store
//
// Store is the interface the pipeline reads and writes through. GormStore is
// the MySQL implementation; tests use go-sqlmock underneath GORM or an
// in-memory substitute. Store errors carry a transient/permanent
// classification so the pipeline can decide what to retry.
package catalog
