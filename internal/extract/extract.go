// Package extract derives the grouping key for a filename. The key names
// the subfolder the file will be placed into.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"sheaf/internal/config"
)

// Policy is the compiled extraction policy for one pass. Build one with
// NewPolicy.
type Policy struct {
	useRegex  bool
	pattern   *regexp.Regexp
	delimiter string
	normalize bool
	folder    cases.Caser
}

// NewPolicy compiles the extraction policy from the configuration. A regex
// pattern that fails to compile yields a policy that never matches plus a
// diagnostic; pattern errors never surface during extraction itself.
func NewPolicy(cfg *config.Config) (Policy, string) {
	p := Policy{
		useRegex:  cfg.UseRegex,
		delimiter: cfg.Delimiter,
		normalize: cfg.NormalizeKeys,
	}
	if p.normalize {
		p.folder = cases.Fold()
	}
	if !cfg.UseRegex {
		return p, ""
	}

	pattern, err := regexp.Compile(cfg.RegexPattern)
	if err != nil {
		return p, fmt.Sprintf("regex pattern %q invalid, nothing will match: %v", cfg.RegexPattern, err)
	}
	p.pattern = pattern
	return p, ""
}

// Extract returns the grouping key for filename, or ok=false when no key
// can be derived. It is a pure function of the filename and the policy.
func (p Policy) Extract(filename string) (string, bool) {
	stem := Stem(filename)

	var key string
	if p.useRegex {
		if p.pattern == nil {
			return "", false
		}
		m := p.pattern.FindStringSubmatch(stem)
		if len(m) < 2 {
			return "", false
		}
		key = strings.TrimSpace(m[1])
	} else if p.delimiter != "" && strings.Contains(stem, p.delimiter) {
		before, _, _ := strings.Cut(stem, p.delimiter)
		key = strings.TrimSpace(before)
	} else {
		key = strings.TrimSpace(stem)
	}

	if key == "" {
		return "", false
	}
	if p.normalize {
		key = p.folder.String(norm.NFC.String(key))
	}
	return key, true
}

// Stem returns the filename without its final extension.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
