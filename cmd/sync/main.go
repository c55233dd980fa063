package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/bootstrap"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
)

func main() {
	var (
		term        = flag.String("term", "", "term code to sync, e.g. 1258 (required)")
		subjects    = flag.String("subjects", "", "comma separated subject codes; empty means the whole directory")
		replace     = flag.Bool("replace", false, "delete existing courses for each subject before loading")
		ratingsPath = flag.String("ratings", "", "override the ratings snapshot path from config")
		concurrency = flag.Int("concurrency", 0, "subjects synced in parallel; 0 uses the configured value")
		configPath  = flag.String("config", "", "path to config file (default configs/config.yaml)")
	)
	flag.Parse()

	if *term == "" {
		fmt.Fprintln(os.Stderr, "usage: sync -term <code> [-subjects CS,MATH] [-replace] [-ratings path] [-concurrency n]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Load .env if present; real environments set variables directly
	godotenv.Load()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	if *ratingsPath != "" {
		cfg.Ratings.SnapshotPath = *ratingsPath
	}
	if *concurrency > 0 {
		cfg.Sync.Concurrency = *concurrency
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to setup database")
		os.Exit(1)
	}
	defer database.Close()

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to setup dependencies")
		os.Exit(1)
	}

	// Ctrl-C stops new course writes at the next boundary; run records
	// are still finalized.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runs, err := deps.SyncService.SyncTerm(ctx, *term, splitSubjects(*subjects), *replace, cfg.Sync.Concurrency)
	if err != nil {
		logger.Error().Err(err).Msg("Sync failed to start")
		os.Exit(1)
	}

	failed := printReport(runs)
	if failed > 0 {
		os.Exit(1)
	}
}

// splitSubjects turns "cs, math" into ["cs", "math"]
func splitSubjects(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	subjects := make([]string, 0, len(parts))
	for _, part := range parts {
		if code := strings.TrimSpace(part); code != "" {
			subjects = append(subjects, code)
		}
	}
	return subjects
}

// printReport writes the per-subject outcome table and returns the number
// of failed runs.
func printReport(runs []*models.SyncRun) int {
	var total models.SyncReport
	failedRuns := 0

	fmt.Printf("%-8s %-10s %9s %9s %9s %9s  %s\n", "SUBJECT", "STATUS", "INSERTED", "UPDATED", "FAILED", "SKIPPED", "MESSAGE")
	for _, run := range runs {
		if run.Status != models.SyncRunStatusCompleted {
			failedRuns++
		}
		total.Merge(models.SyncReport{
			Inserted: run.Inserted,
			Updated:  run.Updated,
			Failed:   run.Failed,
			Skipped:  run.Skipped,
			Errors:   run.Errors,
		})
		fmt.Printf("%-8s %-10s %9d %9d %9d %9d  %s\n",
			run.Subject, run.Status, run.Inserted, run.Updated, run.Failed, run.Skipped, run.Message)
	}

	fmt.Printf("\n%d subjects: %d inserted, %d updated, %d failed, %d skipped",
		len(runs), total.Inserted, total.Updated, total.Failed, total.Skipped)
	if failedRuns > 0 {
		fmt.Printf(", %d runs did not complete", failedRuns)
	}
	fmt.Println()

	for _, courseErr := range total.Errors {
		fmt.Printf("  error: %s %s %s: %s\n", courseErr.TermCode, courseErr.Subject, courseErr.CatalogNumber, courseErr.Message)
	}

	return failedRuns
}
