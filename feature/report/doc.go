// Package report exposes run history and verification over HTTP.
//
// Every pipeline run archives its summary to the storage bucket; this
// feature serves those summaries back and runs read-only consistency
// checks: does the products table carry every column the pipeline writes,
// and does the search index object count line up with the active catalog.
//
// # Endpoints
//
//   - GET /report/runs          list archived run ids
//   - GET /report/runs/latest   newest run summary
//   - GET /report/runs/:id      one run summary
//   - GET /report/verify        schema and count checks
//
// The feature never mutates anything. Fixing drift is the sync command's
// job.
package report
