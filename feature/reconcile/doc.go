// Package reconcile decides what the feed means for the stored catalog.
//
// The engine compares each incoming record against the product stored under
// the same manufacturer part number and emits one of four ops: insert,
// update, no-op, or rejected. Updates carry a field-level diff so only
// changed columns are written, and so the run summary can say exactly what
// moved.
//
// # Natural Key
//
// Products are keyed by manufacturer part number, never by the
// distributor's stock number. Stock numbers are distributor-local order
// codes; treating them as identity duplicates the catalog the first time a
// distributor renumbers its warehouse.
//
// # Pricing
//
// Tier prices are derived here, from the feed record and the configured
// pricing rules: Bronze from MSRP, Gold from MAP or a per-department
// discount, Platinum from the dealer price plus a markup. Prices compare at
// cent precision, so re-running an unchanged feed produces no phantom
// updates.
package reconcile
