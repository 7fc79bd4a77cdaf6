package builtin

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"
)

// Settings is the parsed configuration of a builtin engine.
type Settings struct {
	LineEnding             string `toml:"line_ending"`
	MaxLineLen             int    `toml:"max_line_len"`
	MaxBlankLines          int    `toml:"max_blank_lines"`
	TabWidth               int    `toml:"tab_width"`
	LowercaseKeywords      bool   `toml:"lowercase_keywords"`
	TrimTrailingWhitespace bool   `toml:"trim_trailing_whitespace"`

	version string
}

const (
	lineEndingLF   = "lf"
	lineEndingCRLF = "crlf"

	maxTabWidth = 16
)

func defaultSettings() Settings {
	return Settings{
		MaxLineLen:             120,
		LowercaseKeywords:      true,
		TrimTrailingWhitespace: true,
		MaxBlankLines:          1,
		LineEnding:             lineEndingLF,
		TabWidth:               2,
	}
}

func parseSettings(text string, supported map[string]bool, known []string) (*Settings, error) {
	s := defaultSettings()
	md, err := toml.Decode(text, &s)
	if err != nil {
		return nil, err
	}

	for _, key := range md.Keys() {
		name := key.String()
		if supported[name] {
			continue
		}
		if hint := suggest(name, known); hint != "" {
			return nil, fmt.Errorf("unknown setting %q (did you mean %q?)", name, hint)
		}
		return nil, fmt.Errorf("unknown setting %q", name)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	if s.MaxLineLen < 1 {
		return fmt.Errorf("%s must be positive, got %d", KeyMaxLineLen, s.MaxLineLen)
	}
	if s.MaxBlankLines < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyMaxBlankLines, s.MaxBlankLines)
	}
	if s.LineEnding != lineEndingLF && s.LineEnding != lineEndingCRLF {
		return fmt.Errorf("%s must be %q or %q, got %q", KeyLineEnding, lineEndingLF, lineEndingCRLF, s.LineEnding)
	}
	if s.TabWidth < 0 || s.TabWidth > maxTabWidth {
		return fmt.Errorf("%s must be between 0 and %d, got %d", KeyTabWidth, maxTabWidth, s.TabWidth)
	}
	return nil
}

// suggest returns the known key closest to name, if it is close enough to
// be a likely typo.
func suggest(name string, known []string) string {
	best, bestDist := "", len(name)/2+1
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
