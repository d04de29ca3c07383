// Package logging provides structured logging for the adviceboard client.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the client. Logging is silent by default: the
// interactive TUI owns the terminal, so log output is only enabled when the
// ADVICEBOARD_LOG_LEVEL environment variable is set, and always goes to stderr.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (request/response traces)
//   - Info: Normal operations (retries, session changes)
//   - Warn: Non-fatal issues (parse fallbacks)
//   - Error: Fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Logged in",
//	    zap.String("user_id", id),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogRequest("GET", "/advices", true)
//	logging.LogResponse("GET", "/advices", 200, elapsed)
//	logging.LogRetry(attempt, delay)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
