// Package actionlog writes the append-only record of what a grouping pass
// did. The log is a user-facing artifact that lives next to the organized
// files; its line format is a contract, unlike the operator diagnostics
// stream (internal/logging).
package actionlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Filename is the reserved action-log filename inside a target directory.
// Entries with this name are never treated as candidates.
const Filename = "sheaf.log"

const timeLayout = "2006-01-02 15:04:05"

// Sink receives one record per pipeline event. Implementations append;
// they never rewrite earlier records.
type Sink interface {
	Append(level, details string) error
	Close() error
}

// Record levels. SKIP carries its reason in the level token so the log
// line reads naturally.
const (
	LevelStart = "START"
	LevelSkip  = "SKIP(no prefix)"
	LevelDone  = "DONE"
	LevelError = "ERROR"
	LevelEnd   = "END"
)

func formatLine(ts time.Time, level, details string) string {
	return fmt.Sprintf("[%s] %s | %s\n", ts.Format(timeLayout), level, details)
}

// FileSink appends records to a UTF-8 text file, one line per record,
// each prefixed with a local-time timestamp.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// OpenFile opens (creating if needed) the log file for appending. The
// file stays open for the duration of the run.
func OpenFile(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open action log: %w", err)
	}
	return &FileSink{file: file, now: time.Now}, nil
}

func (s *FileSink) Append(level, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.file.WriteString(formatLine(s.now(), level, details))
	return err
}

func (s *FileSink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Entry is one captured record.
type Entry struct {
	Level   string
	Details string
}

// Memory captures records in order for tests and dry inspection.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *Memory) Append(level, details string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Details: details})
	return nil
}

func (m *Memory) Close() error { return nil }

// Entries returns a copy of everything appended so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
