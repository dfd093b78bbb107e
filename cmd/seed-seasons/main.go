package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/seedtool"
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9090", "Base URL of the service")
		leagueID  = flag.Int("league", 1, "League id to seed")
		numTeams  = flag.Int("teams", 10, "Number of synthetic teams")
		seasons   = flag.Int("seasons", 3, "Number of double round-robin seasons")
		batchSize = flag.Int("batch", 100, "Records per ingest batch")
		timeout   = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file for seeding output")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		seedtool.ShowHelp()
		return
	}

	if err := seedtool.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &seedtool.Config{
		BaseURL:   *baseURL,
		LeagueID:  *leagueID,
		NumTeams:  *numTeams,
		Seasons:   *seasons,
		BatchSize: *batchSize,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}
	if err := seedtool.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
