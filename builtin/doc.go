// Package builtin provides reference formatting engines implemented in Go.
//
// The engines let the playground run without fetching WebAssembly modules:
// a Catalog serves both as the version manifest and as the loader. Each
// version recognizes a different set of TOML settings, which exercises the
// playground's settings reconciliation when switching versions:
//
//	0.5.0  max_line_len lowercase_keywords trim_trailing_whitespace
//	       max_blank_lines line_ending tab_width
//	0.4.0  max_line_len lowercase_keywords trim_trailing_whitespace
//	       max_blank_lines line_ending
//	0.3.0  max_line_len lowercase_keywords trim_trailing_whitespace
//
// The formatter itself is deliberately small: keyword lowercasing outside
// strings and comments, whitespace cleanup and line ending normalization.
package builtin
