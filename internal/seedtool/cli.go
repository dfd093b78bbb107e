package seedtool

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging configures logging to both console and file. If logFile is
// empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`Season Seeding Tool
===================

Seeds a running prediction service with synthetic rugby seasons and verifies
ingest idempotency and prediction sanity.

Usage:
  go run cmd/seed-seasons/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -league int
        League id to seed (default 1)
  -teams int
        Number of synthetic teams (default 10)
  -seasons int
        Number of double round-robin seasons (default 3)
  -batch int
        Records per ingest batch (default 100)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for seeding output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-seasons/main.go

  # Seed a bigger league against a custom address
  go run cmd/seed-seasons/main.go -league 2 -teams 14 -seasons 5 -url http://localhost:8080
`)
}
