package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sheaf/internal/actionlog"
	"sheaf/internal/config"
	"sheaf/internal/history"
	"sheaf/internal/logging"
	"sheaf/internal/organize"
	"sheaf/internal/preflight"
	"sheaf/internal/runlock"
)

func newRunCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [directory]",
		Short: "Organize the spreadsheet files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				return err
			}
			return runPass(cmd, expanded, strings.TrimSpace(*configFlag))
		},
	}
	return cmd
}

func runPass(cmd *cobra.Command, dir, configPath string) error {
	out := cmd.OutOrStdout()

	// The directory must be usable before any setup side effects (config
	// template, lock file) touch it.
	if result := preflight.CheckDirectoryAccess(dir); !result.Passed {
		return fmt.Errorf("%s: %s", result.Name, result.Detail)
	}

	configPath, err := resolveConfigPath(dir, configPath)
	if err != nil {
		return err
	}

	// One-time setup for first-run users: write the template so the
	// delimiter can be changed without any command-line options.
	if wrote, err := config.EnsureSample(configPath); err != nil {
		return err
	} else if wrote {
		fmt.Fprintf(out, "Wrote default configuration to %s\n", configPath)
	}

	cfg, diag := config.Load(configPath)
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if diag != "" {
		logger.Warn("configuration recovered", logging.String("detail", diag))
	}

	lock, err := runlock.Acquire(dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release directory lock", logging.Error(err))
		}
	}()

	reserved := []string{filepath.Base(configPath), actionlog.Filename, runlock.LockFilename}
	candidates, err := organize.Candidates(dir, reserved)
	if err != nil {
		return fmt.Errorf("enumerate %s: %w", dir, err)
	}

	for _, result := range preflight.RunAll(dir, cfg.Mode, organize.TotalBytes(candidates)) {
		switch {
		case result.Passed:
			logger.Debug("preflight check passed", logging.String("check", result.Name), logging.String("detail", result.Detail))
		case result.Fatal:
			return fmt.Errorf("%s: %s", result.Name, result.Detail)
		default:
			logger.Warn("preflight check failed", logging.String("check", result.Name), logging.String("detail", result.Detail))
		}
	}

	sink, err := actionlog.OpenFile(filepath.Join(dir, actionlog.Filename))
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close action log", logging.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	summary, runErr := organize.Run(ctx, organize.Options{
		Directory: dir,
		Config:    cfg,
		Log:       sink,
		Logger:    logger,
		Reserved:  reserved,
	})
	finished := time.Now()

	// Recording uses a fresh context so a cancelled pass still lands in
	// the history.
	recordHistory(context.Background(), cfg, logger, history.Run{
		Directory:  dir,
		Mode:       string(cfg.Mode),
		StartedAt:  started,
		FinishedAt: finished,
		Processed:  summary.Processed,
		Skipped:    summary.Skipped,
		Errors:     summary.Errors,
	})

	printSummary(out, dir, cfg, summary)

	if runErr != nil {
		return runErr
	}
	if summary.Errors > 0 {
		return fmt.Errorf("pass completed with %d error(s); see %s", summary.Errors, actionlog.Filename)
	}
	return nil
}

// resolveConfigPath prefers an explicit --config path and otherwise uses
// the reserved filename inside the target directory.
func resolveConfigPath(dir, flagValue string) (string, error) {
	if flagValue == "" {
		return filepath.Join(dir, config.Filename), nil
	}
	return config.ExpandPath(flagValue)
}

// recordHistory is best-effort: a broken history database must never turn
// a finished pass into a failure.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", logging.Args(logging.Error(err))...)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, &run); err != nil {
		logger.Warn("history record failed", logging.Args(logging.Error(err))...)
	}
}
