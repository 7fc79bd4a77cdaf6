// Package errors provides structured error types for the playground.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the engine version, asset path, a detail
// message and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindEngineLoad).
//		Version("0.4.0").
//		Path("pkg/0.4.0/engine.wasm").
//		Detail("compile module").
//		Cause(err).
//		Build()
//
// Or use convenience constructors for the three error classes the
// controller distinguishes:
//
//	errors.EngineLoad(version, "instantiate", cause)
//	errors.SettingsParse("invalid settings", cause)
//	errors.FormatFailed("engine failure", cause)
//
// All errors implement the standard error interface and support errors.Is
// against the ErrEngineLoad, ErrSettingsParse and ErrFormat sentinels.
// Describe renders an error with its causes on separate "Caused by:" lines.
package errors
