package builtin

import (
	"context"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/errors"
)

// Setting keys
const (
	KeyMaxLineLen             = "max_line_len"
	KeyLowercaseKeywords      = "lowercase_keywords"
	KeyTrimTrailingWhitespace = "trim_trailing_whitespace"
	KeyMaxBlankLines          = "max_blank_lines"
	KeyLineEnding             = "line_ending"
	KeyTabWidth               = "tab_width"
)

type versionSpec struct {
	version string
	keys    []string
}

// specs is ordered newest first; the first entry is the default version.
var specs = []versionSpec{
	{
		version: "0.5.0",
		keys: []string{
			KeyMaxLineLen, KeyLowercaseKeywords, KeyTrimTrailingWhitespace,
			KeyMaxBlankLines, KeyLineEnding, KeyTabWidth,
		},
	},
	{
		version: "0.4.0",
		keys: []string{
			KeyMaxLineLen, KeyLowercaseKeywords, KeyTrimTrailingWhitespace,
			KeyMaxBlankLines, KeyLineEnding,
		},
	},
	{
		version: "0.3.0",
		keys: []string{
			KeyMaxLineLen, KeyLowercaseKeywords, KeyTrimTrailingWhitespace,
		},
	},
}

// Catalog lists and loads the builtin engine versions.
type Catalog struct {
	specs []versionSpec
}

// NewCatalog returns a catalog of every builtin version.
func NewCatalog() *Catalog {
	return &Catalog{specs: specs}
}

// Versions returns the builtin versions, newest first.
func (c *Catalog) Versions(context.Context) ([]string, error) {
	out := make([]string, len(c.specs))
	for i, s := range c.specs {
		out[i] = s.version
	}
	return out, nil
}

// Load returns the engine for version.
func (c *Catalog) Load(_ context.Context, version string) (fmtplayground.Engine, error) {
	for _, s := range c.specs {
		if s.version == version {
			return newEngine(s), nil
		}
	}
	return nil, errors.EngineLoad(version, "no builtin engine for version", nil)
}
