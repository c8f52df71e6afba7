package organize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"sheaf/internal/actionlog"
	"sheaf/internal/config"
	"sheaf/internal/extract"
	"sheaf/internal/faults"
	"sheaf/internal/logging"
	"sheaf/internal/placer"
)

// fallbackGroup is the subfolder used when skip_if_no_prefix is false and
// even the file's own stem is empty after trimming.
const fallbackGroup = "UNGROUPED"

// Options carries everything a pass needs. Log must be non-nil; Logger
// may be nil (diagnostics are then discarded); Reserved may be nil for
// the default reserved filenames.
type Options struct {
	Directory string
	Config    *config.Config
	Log       actionlog.Sink
	Logger    *slog.Logger
	Reserved  []string
}

// Summary holds the pass counters. It is mutated exactly once per file
// during the pass and immutable once Run returns it.
type Summary struct {
	Processed int
	Skipped   int
	Errors    int
}

// Run executes one grouping pass over Options.Directory. Per-file
// placement failures are counted and logged, never fatal; Run itself only
// fails when the directory cannot be enumerated or the pass is cancelled
// between files. The END record is written in either case.
func Run(ctx context.Context, opts Options) (Summary, error) {
	cfg := opts.Config
	logger := logging.WithComponent(opts.Logger, "organize")

	policy, diag := extract.NewPolicy(cfg)
	if diag != "" {
		logger.Warn("extraction policy degraded", logging.String("detail", diag))
	}

	if err := opts.Log.Append(actionlog.LevelStart, fmt.Sprintf(
		"mode=%s use_regex=%t delimiter='%s'", cfg.Mode, cfg.UseRegex, cfg.Delimiter,
	)); err != nil {
		return Summary{}, faults.Wrap(faults.ErrTransient, "write start record", "", err)
	}

	candidates, err := Candidates(opts.Directory, opts.Reserved)
	if err != nil {
		return Summary{}, faults.Wrap(faults.ErrTransient, "enumerate directory", opts.Directory, err)
	}

	var summary Summary
	var runErr error

	for _, candidate := range candidates {
		// Cancellation is cooperative and only honored between files, so
		// a file is either untouched or fully placed.
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = ctxErr
			break
		}
		processFile(opts, logger, policy, candidate, &summary)
	}

	if err := opts.Log.Append(actionlog.LevelEnd, fmt.Sprintf(
		"processed=%d skipped=%d errors=%d", summary.Processed, summary.Skipped, summary.Errors,
	)); err != nil && runErr == nil {
		runErr = faults.Wrap(faults.ErrTransient, "write end record", "", err)
	}

	logger.Info("pass finished",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("errors", summary.Errors),
	)
	return summary, runErr
}

func processFile(opts Options, logger *slog.Logger, policy extract.Policy, candidate Candidate, summary *Summary) {
	cfg := opts.Config

	key, ok := policy.Extract(candidate.Name)
	if !ok {
		if cfg.SkipIfNoPrefix {
			summary.Skipped++
			if err := opts.Log.Append(actionlog.LevelSkip, candidate.Name); err != nil {
				logger.Warn("skip record not written", logging.Error(err))
			}
			logger.Debug("skipped file", logging.String("file", candidate.Name))
			return
		}
		// Fall back to the file's own stem; such files form a group of
		// their own and look identical to ordinary one-member groups in
		// the log.
		key = strings.TrimSpace(candidate.Stem)
		if key == "" {
			key = fallbackGroup
		}
	}

	src := filepath.Join(opts.Directory, candidate.Name)
	dstDir := filepath.Join(opts.Directory, key)

	final, err := placer.Place(src, dstDir, cfg.Mode)
	if err != nil {
		wrapped := faults.Wrap(faults.ErrPlacement, "place "+candidate.Name, "", err)
		summary.Errors++
		if logErr := opts.Log.Append(actionlog.LevelError, fmt.Sprintf(
			"%s | %s: %s", candidate.Name, faults.Kind(wrapped), err,
		)); logErr != nil {
			logger.Warn("error record not written", logging.Error(logErr))
		}
		logger.Error("placement failed",
			logging.String("file", candidate.Name),
			logging.Error(wrapped),
		)
		return
	}

	summary.Processed++
	if err := opts.Log.Append(actionlog.LevelDone, fmt.Sprintf(
		"%s -> %s/", candidate.Name, filepath.Base(dstDir),
	)); err != nil {
		logger.Warn("done record not written", logging.Error(err))
	}
	logger.Debug("placed file",
		logging.String("file", candidate.Name),
		logging.String("final", final),
	)
}
