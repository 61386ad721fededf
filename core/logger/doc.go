// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with both the pipeline runner
// and the Fiber report server.
//
// # Correlation
//
// Two helpers attach correlation ids to log entries: WithRunID tags every
// line produced by a catalog sync run with the run's UUID, and WithRayID
// extracts the request RayID from a Fiber context so all logs for one HTTP
// request can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
//
//	// In a pipeline stage:
//	l := logger.WithRunID(log, summary.RunID)
//	l.Warn("Line rejected", zap.Int("line", n))
package logger
