package organize

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"sheaf/internal/actionlog"
	"sheaf/internal/config"
	"sheaf/internal/extract"
)

// spreadsheetExts is the recognized spreadsheet extension set, matched
// against the lowercased final extension.
var spreadsheetExts = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xls":  {},
}

// Candidate is one eligible directory entry. Instances are transient:
// produced by Candidates and consumed immediately by the pass.
type Candidate struct {
	Name string
	Stem string
	Ext  string
	Size int64
}

// Candidates enumerates the eligible files in dir. Eligible means: a
// regular file (or a symlink resolving to one) whose lowercased extension
// is a recognized spreadsheet extension and whose name is not reserved.
// reserved may be nil, in which case the default config and action-log
// filenames are excluded.
func Candidates(dir string, reserved []string) ([]Candidate, error) {
	if reserved == nil {
		reserved = []string{config.Filename, actionlog.Filename}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, entry := range entries {
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := spreadsheetExts[ext]; !ok {
			continue
		}
		if isReserved(name, reserved) {
			continue
		}

		info, err := entryInfo(dir, entry)
		if err != nil {
			// Entry vanished between ReadDir and stat, or a symlink is
			// dangling.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		out = append(out, Candidate{
			Name: name,
			Stem: extract.Stem(name),
			Ext:  ext,
			Size: info.Size(),
		})
	}
	return out, nil
}

// TotalBytes sums candidate sizes, for free-space preflight in copy mode.
func TotalBytes(candidates []Candidate) uint64 {
	var total uint64
	for _, c := range candidates {
		if c.Size > 0 {
			total += uint64(c.Size)
		}
	}
	return total
}

// entryInfo stats through symlinks so a link to a spreadsheet is
// organized like the file itself.
func entryInfo(dir string, entry os.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(filepath.Join(dir, entry.Name()))
	}
	return entry.Info()
}

func isReserved(name string, reserved []string) bool {
	for _, r := range reserved {
		if r != "" && name == r {
			return true
		}
	}
	return false
}
