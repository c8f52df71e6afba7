package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"sheaf/internal/actionlog"
	"sheaf/internal/config"
	"sheaf/internal/organize"
)

// printSummary renders the end-of-pass report: a table on a terminal,
// plain key=value lines when output is piped.
func printSummary(out io.Writer, dir string, cfg *config.Config, summary organize.Summary) {
	if !writerIsTerminal(out) {
		fmt.Fprintf(out, "directory=%s mode=%s processed=%d skipped=%d errors=%d\n",
			dir, cfg.Mode, summary.Processed, summary.Skipped, summary.Errors)
		return
	}

	extraction := fmt.Sprintf("delimiter %q", cfg.Delimiter)
	if cfg.UseRegex {
		extraction = fmt.Sprintf("regex %q", cfg.RegexPattern)
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Directory", "Mode", "Extraction", "Processed", "Skipped", "Errors"},
		[][]string{{
			dir,
			string(cfg.Mode),
			extraction,
			strconv.Itoa(summary.Processed),
			strconv.Itoa(summary.Skipped),
			strconv.Itoa(summary.Errors),
		}},
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Action log: %s\n", actionlog.Filename)
}

func writerIsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
