// Package logging provides structured logging for gitdock.
//
// This package wraps Go's log/slog to provide JSON or text formatted logs
// with context propagation support. Registry operations attach the
// repository they act on so that logs remain filterable when many
// repositories are open at once.
//
// # Features
//
//   - JSON or text structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (component, repository ID, path)
//   - Optional file output with size-based rotation
//   - Optional gzip compression for rotated logs
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger from options:
//
//	logger, err := logging.New(logging.Options{Level: "INFO"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	// Log messages at various levels
//	logger.Debug("detailed info", "key", "value")
//	logger.Info("operation completed", "duration_ms", 150)
//	logger.Warn("potential issue", "threshold", 100)
//	logger.Error("operation failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	// Add component context
//	regLogger := logger.WithComponent("registry")
//
//	// Add repository context
//	repoLogger := regLogger.WithRepository("a1b2c3d4")
//
//	// All logs from repoLogger will include component and repository_id
//	repoLogger.Info("repository opened", "path", "/work/gitdock")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"repository opened","component":"registry","repository_id":"a1b2c3d4","path":"/work/gitdock"}
//
// # Log Rotation
//
// When logging to a file, use rotation to prevent unbounded growth:
//
//	logger, err := logging.New(logging.Options{
//	    Level: "INFO",
//	    File:  "/path/to/gitdock.log",
//	    Rotation: logging.RotationConfig{
//	        MaxSizeMB:  10,    // Rotate when file exceeds 10MB
//	        MaxBackups: 3,     // Keep 3 backup files
//	        Compress:   true,  // Gzip compress rotated files
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
// Rotated files are named: gitdock.log.1, gitdock.log.2, etc., where .1 is
// the most recent backup. When compression is enabled, rotated files become
// gitdock.log.1.gz, etc.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without creating files
//	}
//
// # Log Levels
//
// The package defines four log levels:
//
//   - [LevelDebug]: Detailed information for debugging
//   - [LevelInfo]: General operational information (default)
//   - [LevelWarn]: Warning conditions that may need attention
//   - [LevelError]: Error conditions that affect functionality
//
// Use [ValidLevels] to get the list of valid level strings, and [ParseLevel]
// to normalize user-provided level strings.
//
// # Configuration
//
// The logging system is typically configured via gitdock's config file:
//
//	logging:
//	  level: info
//	  format: json
//	  file: ~/.local/state/gitdock/gitdock.log
//	  max_size_mb: 10
//	  max_backups: 3
package logging
