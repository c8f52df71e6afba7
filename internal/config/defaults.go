package config

import (
	"os"
	"path/filepath"
)

const (
	defaultDelimiter    = "_"
	defaultRegexPattern = `^(.+?)[ _-]`
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Delimiter:    defaultDelimiter,
		RegexPattern: defaultRegexPattern,
		Mode:         ModeMove,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
	}
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && base != "" {
		return filepath.Join(base, "sheaf", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/sheaf/history.db"
	}
	return filepath.Join(home, ".local", "share", "sheaf", "history.db")
}
