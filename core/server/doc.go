// Package server holds configuration for the verification report HTTP server.
//
// The server itself lives in feature/report; this package only owns the
// config partial so that core/config can compose it alongside the other
// partial configurations.
package server
