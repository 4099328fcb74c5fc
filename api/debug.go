package api

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// debugLogger receives session-lifecycle and lift diagnostics. It is
// discarded unless ARM_LIFTER_DEBUG is set, so the translation path stays
// silent by default.
var debugLogger = newDebugLogger()

func newDebugLogger() *log.Logger {
	if os.Getenv("ARM_LIFTER_DEBUG") == "" {
		return log.New(io.Discard, "", 0)
	}
	// File handle intentionally not closed; it lives for the process and
	// the OS reclaims it on exit.
	logPath := filepath.Join(os.TempDir(), "arm-lifter-api-debug.log")
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
	if err != nil {
		return log.New(os.Stderr, "API: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
	}
	return log.New(f, "API: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
}

// debugLog logs a message when debug logging is enabled.
func debugLog(format string, args ...interface{}) {
	debugLogger.Printf(format, args...)
}
