// Package engine holds the active formatting engine and runs engine modules.
//
// # Slot
//
// A playground session has exactly one active engine. Slot stores it behind
// an atomic pointer: handlers take a snapshot with Current and a successful
// load swaps in the new engine with Replace. A failed load never touches the
// slot, so the previous engine keeps serving.
//
// # WebAssembly Engines
//
// LoadWasm compiles an engine module with wazero and binds its exports:
//
//	Export             Signature                       Meaning
//	──────────────────────────────────────────────────────────────────────
//	memory             memory                          linear memory
//	alloc              (len i32) -> ptr i32            guest allocation
//	dealloc            (ptr i32, len i32)              optional
//	default_settings   () -> packed i64                default settings text
//	parse_settings     (ptr i32, len i32) -> i32       settings handle, 0 on error
//	max_line_len       (handle i32) -> i32             line length limit
//	format             (ptr, len, handle i32) -> i64   formatted text
//	last_error         () -> packed i64                error of the last call
//	drop_settings      (handle i32)                    optional
//
// Strings are UTF-8 and cross the boundary as a packed i64 holding
// ptr<<32 | len. A call failed when last_error returns a non-empty string
// right after it. Modules built for wasm32-wasip1 get WASI preview1 imports
// unless Config.DisableWASI is set.
//
// # Thread Safety
//
// Slot is safe for concurrent use. WasmEngine serializes calls into the
// module with a mutex.
package engine
