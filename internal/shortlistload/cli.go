package shortlistload

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/barcarate/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging logs to both console and file. If logFile is empty, a
// timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "shortlist_load_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`barcarate shortlist load tool
=============================

Submits pool candidates concurrently, waits for the workers to score them,
then checks the shortlist ordering and per-candidate ranks.

Usage:
  go run ./cmd/shortlist-load [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -candidates int
        Number of submissions to send (default 500)
  -top int
        Number of shortlist entries to fetch (default 50)
  -workers int
        Number of concurrent requests (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        Maximum time to wait for processing (default 2m)
  -pool string
        Candidate pool YAML (default: the embedded pool)
  -output string
        Output file for submissions (default: submissions_TIMESTAMP.json)
  -log string
        Log file for run output (default: shortlist_load_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/shortlist-load -candidates 2000 -workers 16
  go run ./cmd/shortlist-load -url http://localhost:8080 -top 20 -verbose
`)
}
