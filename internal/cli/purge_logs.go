package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/activity"
)

type PurgeLogsCommand struct {
	RetentionDays int
	DryRun        bool
}

func NewPurgeLogsCommand() *PurgeLogsCommand {
	return &PurgeLogsCommand{}
}

func (cmd *PurgeLogsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("purge-logs", flag.ExitOnError)

	fs.IntVar(&cmd.RetentionDays, "retention-days", 0, "Days of log entries to keep (defaults to LOGS_RETENTION_DAYS)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report how many entries would be removed without deleting")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s purge-logs [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove activity log entries older than the retention window.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s purge-logs\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s purge-logs -retention-days 30\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *PurgeLogsCommand) Run() error {
	cfg := config.NewConfig()

	retention := cmd.RetentionDays
	if retention <= 0 {
		retention = cfg.Logs.RetentionDays
	}
	if retention <= 0 {
		return fmt.Errorf("retention must be at least 1 day")
	}

	db, err := database.Open(cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := activity.NewRepository(db.DB)
	cutoff := time.Now().UTC().AddDate(0, 0, -retention)

	if cmd.DryRun {
		pending, err := repo.CountOlderThan(cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("Dry run: %d log entries older than %d days would be removed (cutoff %s)\n", pending, retention, cutoff.Format("2006-01-02"))
		return nil
	}

	removed, err := repo.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge logs: %w", err)
	}

	fmt.Printf("Removed %d log entries older than %d days\n", removed, retention)
	return nil
}
