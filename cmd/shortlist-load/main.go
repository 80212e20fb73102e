package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/barcarate/internal/shortlistload"
)

// Default configuration constants.
const (
	defaultCandidates = 500
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultWait       = 2 * time.Minute
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		candidates = flag.Int("candidates", defaultCandidates, "Number of submissions to send")
		topN       = flag.Int("top", defaultTopN, "Number of shortlist entries to fetch")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent requests")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait       = flag.Duration("wait", defaultWait, "Maximum time to wait for processing")
		poolFile   = flag.String("pool", "", "Candidate pool YAML (default: the embedded pool)")
		outputFile = flag.String("output", "", "Output file for submissions (default: submissions_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: shortlist_load_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		shortlistload.ShowHelp()
		return
	}

	if err := shortlistload.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &shortlistload.Config{
		BaseURL:    *baseURL,
		Candidates: *candidates,
		TopN:       *topN,
		Workers:    max(*workers, 1),
		Timeout:    *timeout,
		Wait:       *wait,
		PoolFile:   *poolFile,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := shortlistload.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
