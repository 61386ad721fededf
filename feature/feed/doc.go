// Package feed parses the distributor's semicolon-delimited inventory export.
//
// One feed line is one product. The Parser maps columns to logical fields
// through a configurable offset map, so a feed format revision is a config
// change rather than a code change. Parsing never throws away information
// silently: short lines and missing required fields produce typed
// ParseErrors, and numeric fields that fall back to zero are recorded on the
// Record for the run summary.
//
// The Source abstraction supplies feed content either from a local file or
// from a snapshot object in the storage bucket.
package feed
