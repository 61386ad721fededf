// Package search projects catalog products into index documents and pushes
// them to an Algolia-compatible API.
//
// Documents are keyed by manufacturer part number, the same natural key the
// database uses, so a product keeps its search object across distributor
// stock renumbering. Upserts are partial updates: re-sending an unchanged
// document is a server-side no-op, which makes the whole dispatch safe to
// retry.
//
// The dispatcher owns batching, bounded concurrency, a shared request rate
// limit, and retry with exponential backoff on transient failures. The
// client owns the wire format and nothing else.
package search
