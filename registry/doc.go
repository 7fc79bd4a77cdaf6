// Package registry finds, fetches and activates formatting engines.
//
// Assets live behind a Source: an HTTP(S) base URL, a local directory, an
// S3 bucket or an embedded file system. The layout is the one the asset
// server publishes:
//
//	versions.json             JSON array of version strings, default first
//	pkg/<version>/engine.wasm engine module for a version
//	examples/index.json       JSON array of sample names (optional)
//	examples/<name>           sample source text
//
// A Registry memoizes the version list and keeps the active engine in an
// engine.Slot. Loads are not cancelled by later loads; whichever finishes
// last is active.
package registry
