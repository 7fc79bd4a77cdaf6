package fmtplayground

import "context"

// Settings is an engine specific parsed configuration. Only the engine that
// produced it may interpret it.
type Settings interface{}

// Engine is a loaded formatting engine bound to a single version.
//
// All methods except Close are synchronous and do not touch state shared
// with other engines. Implementations are not required to be safe for
// concurrent use.
type Engine interface {
	// Version returns the version identifier the engine was loaded for.
	Version() string

	// DefaultSettings returns the default configuration text.
	DefaultSettings() string

	// ParseSettings parses configuration text. Invalid text yields an error
	// matching errors.ErrSettingsParse.
	ParseSettings(text string) (Settings, error)

	// MaxLineLength returns the line length limit configured by s.
	MaxLineLength(s Settings) int

	// Format formats source with s. Engine failures yield an error matching
	// errors.ErrFormat.
	Format(source string, s Settings) (string, error)

	// Close releases resources held by the engine.
	Close(ctx context.Context) error
}
