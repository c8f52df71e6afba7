package organize_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheaf/internal/actionlog"
	"sheaf/internal/config"
	"sheaf/internal/logging"
	"sheaf/internal/organize"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("cells"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func runPass(t *testing.T, dir string, cfg *config.Config) (organize.Summary, *actionlog.Memory) {
	t.Helper()
	sink := &actionlog.Memory{}
	summary, err := organize.Run(context.Background(), organize.Options{
		Directory: dir,
		Config:    cfg,
		Log:       sink,
		Logger:    logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return summary, sink
}

func TestRunGroupsByDelimiter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report_jan.xlsx"))
	writeFile(t, filepath.Join(dir, "report_feb.xlsx"))
	writeFile(t, filepath.Join(dir, "notes.xlsx"))

	cfg := config.Default()
	summary, sink := runPass(t, dir, &cfg)

	if summary.Processed != 3 || summary.Skipped != 0 || summary.Errors != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, want := range []string{
		filepath.Join(dir, "report", "report_jan.xlsx"),
		filepath.Join(dir, "report", "report_feb.xlsx"),
		filepath.Join(dir, "notes", "notes.xlsx"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("missing %s: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "report_jan.xlsx")); !os.IsNotExist(err) {
		t.Fatal("move mode must remove sources")
	}

	entries := sink.Entries()
	if entries[0].Level != actionlog.LevelStart {
		t.Fatalf("first record = %+v", entries[0])
	}
	last := entries[len(entries)-1]
	if last.Level != actionlog.LevelEnd || last.Details != "processed=3 skipped=0 errors=0" {
		t.Fatalf("end record = %+v", last)
	}
}

func TestRunSkipsWhenNoPrefixAndSkipEnabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.xlsx"))

	cfg := config.Default()
	cfg.UseRegex = true
	cfg.RegexPattern = `^(\d+)_` // matches nothing here
	cfg.SkipIfNoPrefix = true

	summary, sink := runPass(t, dir, &cfg)
	if summary.Skipped != 1 || summary.Processed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(dir, "data.xlsx")); err != nil {
		t.Fatal("skipped file must not move")
	}

	var sawSkip bool
	for _, e := range sink.Entries() {
		if e.Level == actionlog.LevelSkip && e.Details == "data.xlsx" {
			sawSkip = true
		}
	}
	if !sawSkip {
		t.Fatalf("no skip record: %+v", sink.Entries())
	}
}

func TestRunFallsBackToStemWhenSkipDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.xlsx"))

	cfg := config.Default()
	cfg.UseRegex = true
	cfg.RegexPattern = `^(\d+)_`

	summary, _ := runPass(t, dir, &cfg)
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "data.xlsx")); err != nil {
		t.Fatalf("expected fallback group by stem: %v", err)
	}
}

func TestRunGroupsEmptyStemUnderSentinel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "   .xlsx"))

	cfg := config.Default()
	summary, _ := runPass(t, dir, &cfg)
	if summary.Processed != 1 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(dir, "UNGROUPED", "   .xlsx")); err != nil {
		t.Fatalf("expected sentinel group: %v", err)
	}
}

func TestRunIgnoresIneligibleEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report_jan.xlsx"))
	writeFile(t, filepath.Join(dir, "readme.txt"))
	writeFile(t, filepath.Join(dir, config.Filename))
	writeFile(t, filepath.Join(dir, actionlog.Filename))
	if err := os.Mkdir(filepath.Join(dir, "already_a_dir.xlsx"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	summary, _ := runPass(t, dir, &cfg)
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v, want exactly one processed file", summary)
	}
	if _, err := os.Stat(filepath.Join(dir, "readme.txt")); err != nil {
		t.Fatal("non-spreadsheet entries must be untouched")
	}
	if _, err := os.Stat(filepath.Join(dir, config.Filename)); err != nil {
		t.Fatal("reserved config file must be untouched")
	}
}

func TestRunUppercaseExtensionIsEligible(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report_jan.XLSX"))

	cfg := config.Default()
	summary, _ := runPass(t, dir, &cfg)
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunErrorIsolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good_one.xlsx"))
	writeFile(t, filepath.Join(dir, "bad_one.xlsx"))
	writeFile(t, filepath.Join(dir, "good_two.xlsx"))
	// A plain file occupies the "bad" group name, so creating the
	// destination directory cannot succeed for that candidate.
	writeFile(t, filepath.Join(dir, "bad"))

	cfg := config.Default()
	summary, sink := runPass(t, dir, &cfg)

	if summary.Errors != 1 {
		t.Fatalf("errors = %d, want 1 (%+v)", summary.Errors, summary)
	}
	if summary.Processed != 2 {
		t.Fatalf("processed = %d, want 2: later files must still be attempted", summary.Processed)
	}

	var errRecord string
	for _, e := range sink.Entries() {
		if e.Level == actionlog.LevelError {
			errRecord = e.Details
		}
	}
	if !strings.HasPrefix(errRecord, "bad_one.xlsx | placement: ") {
		t.Fatalf("error record = %q", errRecord)
	}
	last := sink.Entries()[len(sink.Entries())-1]
	if last.Details != "processed=2 skipped=0 errors=1" {
		t.Fatalf("end record = %+v", last)
	}
}

func TestRunCopyModeIsIdempotentlySafe(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report_jan.xlsx"))

	cfg := config.Default()
	cfg.Mode = config.ModeCopy

	for i := 0; i < 2; i++ {
		if summary, _ := runPass(t, dir, &cfg); summary.Errors != 0 {
			t.Fatalf("run %d: %+v", i, summary)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "report_jan.xlsx")); err != nil {
		t.Fatal("copy mode must leave the original in place")
	}
	if _, err := os.Stat(filepath.Join(dir, "report", "report_jan.xlsx")); err != nil {
		t.Fatalf("first copy missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "report", "report_jan(1).xlsx")); err != nil {
		t.Fatalf("second run must suffix, not overwrite: %v", err)
	}
}

func TestRunCancelledBetweenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report_jan.xlsx"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.Default()
	sink := &actionlog.Memory{}
	summary, err := organize.Run(ctx, organize.Options{
		Directory: dir,
		Config:    &cfg,
		Log:       sink,
		Logger:    logging.NewNop(),
	})
	if err == nil {
		t.Fatal("expected context error")
	}
	if summary.Processed != 0 {
		t.Fatalf("cancelled pass must not place files: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(dir, "report_jan.xlsx")); err != nil {
		t.Fatal("file must be untouched after cancellation")
	}

	entries := sink.Entries()
	if entries[len(entries)-1].Level != actionlog.LevelEnd {
		t.Fatal("END record must still be written on cancellation")
	}
}

func TestCandidatesFollowSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "target"))
	if err := os.Symlink(filepath.Join(dir, "target"), filepath.Join(dir, "linked_jan.xlsx")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "gone_feb.xlsx")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(dir, filepath.Join(dir, "subdir_mar.xlsx")); err != nil {
		t.Fatal(err)
	}

	candidates, err := organize.Candidates(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].Name != "linked_jan.xlsx" {
		t.Fatalf("candidates = %+v, want only the resolvable file link", candidates)
	}
}

func TestCandidatesTotalBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a_1.xlsx"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b_1.xls"), make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "ignored.txt"))

	candidates, err := organize.Candidates(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d", len(candidates))
	}
	if got := organize.TotalBytes(candidates); got != 150 {
		t.Fatalf("TotalBytes = %d", got)
	}
}
