package builtin

import (
	"context"
	"fmt"
	"strings"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/errors"
)

// Engine is a builtin engine bound to one version.
type Engine struct {
	supported map[string]bool
	spec      versionSpec
	defaults  string
}

var _ fmtplayground.Engine = (*Engine)(nil)

func newEngine(spec versionSpec) *Engine {
	e := &Engine{
		spec:      spec,
		supported: make(map[string]bool, len(spec.keys)),
	}
	for _, k := range spec.keys {
		e.supported[k] = true
	}
	e.defaults = renderDefaults(spec.keys)
	return e
}

func renderDefaults(keys []string) string {
	d := defaultSettings()
	var b strings.Builder
	for _, k := range keys {
		switch k {
		case KeyMaxLineLen:
			fmt.Fprintf(&b, "%s = %d\n", k, d.MaxLineLen)
		case KeyLowercaseKeywords:
			fmt.Fprintf(&b, "%s = %t\n", k, d.LowercaseKeywords)
		case KeyTrimTrailingWhitespace:
			fmt.Fprintf(&b, "%s = %t\n", k, d.TrimTrailingWhitespace)
		case KeyMaxBlankLines:
			fmt.Fprintf(&b, "%s = %d\n", k, d.MaxBlankLines)
		case KeyLineEnding:
			fmt.Fprintf(&b, "%s = %q\n", k, d.LineEnding)
		case KeyTabWidth:
			fmt.Fprintf(&b, "%s = %d\n", k, d.TabWidth)
		}
	}
	return b.String()
}

// Version returns the engine version.
func (e *Engine) Version() string {
	return e.spec.version
}

// DefaultSettings returns one "key = value" line per supported setting.
func (e *Engine) DefaultSettings() string {
	return e.defaults
}

// ParseSettings parses TOML settings text.
func (e *Engine) ParseSettings(text string) (fmtplayground.Settings, error) {
	s, err := parseSettings(text, e.supported, e.spec.keys)
	if err != nil {
		return nil, errors.SettingsParse("failed to parse settings", err)
	}
	if !e.supported[KeyMaxBlankLines] {
		s.MaxBlankLines = -1
	}
	if !e.supported[KeyTabWidth] {
		s.TabWidth = 0
	}
	s.version = e.spec.version
	return s, nil
}

// MaxLineLength returns the configured line length, or 0 for settings that
// did not come from this engine.
func (e *Engine) MaxLineLength(s fmtplayground.Settings) int {
	bs, ok := s.(*Settings)
	if !ok || bs.version != e.spec.version {
		return 0
	}
	return bs.MaxLineLen
}

// Format formats Pascal source.
func (e *Engine) Format(source string, s fmtplayground.Settings) (string, error) {
	bs, ok := s.(*Settings)
	if !ok || bs.version != e.spec.version {
		return "", errors.FormatFailed("settings were not parsed by this engine", nil)
	}
	out, err := format(source, bs)
	if err != nil {
		return "", errors.FormatFailed("failed to format source", err)
	}
	return out, nil
}

// Close is a no-op; builtin engines hold no resources.
func (e *Engine) Close(context.Context) error {
	return nil
}
