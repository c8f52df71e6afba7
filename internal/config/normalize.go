package config

import "strings"

func (c *Config) normalize() {
	c.normalizeMode()
	c.normalizeLogging()
	c.normalizeHistory()
}

// normalizeMode lowercases the placement mode and falls back to move for
// anything unrecognized. After normalization Mode is always valid.
func (c *Config) normalizeMode() {
	switch Mode(strings.ToLower(strings.TrimSpace(string(c.Mode)))) {
	case ModeCopy:
		c.Mode = ModeCopy
	default:
		c.Mode = ModeMove
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = defaultLogFormat
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() {
	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath()
	}
	if expanded, err := ExpandPath(c.History.Path); err == nil {
		c.History.Path = expanded
	}
}
