// Package fmtplayground implements an interactive playground for versioned
// source formatting engines.
//
// A user edits source text and engine settings; the playground runs them
// through the active engine and shows the result side by side with the
// input or as a unified diff. The whole session can be shared as a URL.
//
// # Architecture Overview
//
//	fmtplayground/   Root package with the Engine and Settings contract
//	├── engine/      Active engine slot and the wazero-backed WASM engine
//	├── builtin/     Reference engines implemented in Go
//	├── registry/    Version manifest, asset sources and engine loading
//	├── document/    Text buffers with annotations and change subscriptions
//	├── settings/    Settings validation, debounce and version reconciliation
//	├── format/      Format pipeline keeping the formatted buffer current
//	├── surface/     Side-by-side and diff presentation, rulers, samples
//	├── share/       Shareable URL codec and clipboard
//	├── ui/          Host element interfaces
//	├── playground/  Controller wiring it all together
//	├── assets/      HTTP server for manifests, modules and samples
//	├── config/      Layered configuration
//	└── errors/      Structured error types
//
// # Quick Start
//
//	catalog := builtin.NewCatalog()
//	reg := registry.New(catalog, catalog)
//	samples := registry.NewSamples(registry.NewFSSource(assets.Examples()))
//
//	mem := ui.NewMemory(location)
//	ctrl := playground.New(reg, samples, mem.Host(share.SystemClipboard{}))
//	if err := ctrl.Start(ctx, location); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctrl.Close(ctx)
//
// # Concurrency
//
// Controller handlers run to completion on a single goroutine. Given a
// dispatcher, engine loading and sample fetching run in the background and
// post their effects back to that goroutine; without one they run inside
// the handler, as in the example above. The active engine is swapped
// atomically and the last load to finish wins.
package fmtplayground
