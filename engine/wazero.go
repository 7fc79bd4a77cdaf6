package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/errors"
)

// Config holds configuration for loading engine modules
type Config struct {
	// MemoryLimitPages sets the maximum memory of the module in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// DisableWASI skips instantiating wasi_snapshot_preview1. Engines built
	// for wasm32-wasip1 need it; freestanding modules do not.
	DisableWASI bool
}

// WasmEngine is a formatting engine backed by a core WebAssembly module.
//
// Each engine owns its own wazero runtime, so closing it releases everything
// the module allocated. Calls are serialized; the module is not reentrant.
type WasmEngine struct {
	runtime   wazero.Runtime
	module    api.Module
	memory    api.Memory
	allocFn   api.Function
	deallocFn api.Function
	dropFn    api.Function
	exports   map[string]api.Function
	version   string
	defaults  string
	mu        sync.Mutex
	simple    bool
	closed    bool
}

var _ fmtplayground.Engine = (*WasmEngine)(nil)

type wasmSettings struct {
	owner      *WasmEngine
	handle     uint32
	maxLineLen int
}

// LoadWasm compiles and instantiates an engine module for version.
// Any failure is reported as an engine load error and releases the runtime.
func LoadWasm(ctx context.Context, version string, wasm []byte, cfg *Config) (*WasmEngine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	e, err := instantiate(ctx, rt, version, wasm, cfg)
	if err != nil {
		if closeErr := rt.Close(ctx); closeErr != nil {
			Logger().Warn("close runtime after failed load",
				zap.String("version", version),
				zap.Error(closeErr))
		}
		return nil, err
	}
	return e, nil
}

func instantiate(ctx context.Context, rt wazero.Runtime, version string, wasm []byte, cfg *Config) (*WasmEngine, error) {
	if cfg == nil || !cfg.DisableWASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			return nil, errors.EngineLoad(version, "instantiate WASI", err)
		}
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.EngineLoad(version, "compile module", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("engine"))
	if err != nil {
		return nil, errors.EngineLoad(version, "instantiate module", err)
	}

	e := &WasmEngine{
		runtime: rt,
		module:  mod,
		version: version,
		exports: make(map[string]api.Function, len(requiredExports)),
	}

	if e.memory = mod.Memory(); e.memory == nil {
		return nil, errors.EngineLoad(version, "bind exports", errors.MissingExport(version, ExportMemory))
	}

	for _, name := range requiredExports {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			return nil, errors.EngineLoad(version, "bind exports", errors.MissingExport(version, name))
		}
		e.exports[name] = fn
	}

	// Allocator: the playground ABI name first, then toolchain fallbacks
	defs := mod.ExportedFunctionDefinitions()
	for _, name := range []string{ExportAlloc, legacyAlloc, cabiRealloc} {
		if def := defs[name]; def != nil {
			e.allocFn = mod.ExportedFunction(name)
			e.simple = len(def.ParamTypes()) < 4
			break
		}
	}
	if e.allocFn == nil {
		return nil, errors.EngineLoad(version, "bind exports", errors.MissingExport(version, ExportAlloc))
	}

	if fn := mod.ExportedFunction(ExportDealloc); fn != nil {
		e.deallocFn = fn
	} else if fn := mod.ExportedFunction(legacyFree); fn != nil {
		e.deallocFn = fn
	}
	e.dropFn = mod.ExportedFunction(ExportDropSettings)

	defaults, err := e.callString(ctx, ExportDefaultSettings)
	if err != nil {
		return nil, errors.EngineLoad(version, "read default settings", err)
	}
	e.defaults = defaults

	Logger().Debug("engine module loaded",
		zap.String("version", version),
		zap.Int("bytes", len(wasm)),
		zap.Bool("dealloc", e.deallocFn != nil))

	return e, nil
}

// Version returns the version the module was loaded for.
func (e *WasmEngine) Version() string {
	return e.version
}

// DefaultSettings returns the module's default settings, read once at load.
func (e *WasmEngine) DefaultSettings() string {
	return e.defaults
}

// ParseSettings hands text to the module and keeps the returned handle.
// The handle is dropped in the module once the Settings value is unreachable.
func (e *WasmEngine) ParseSettings(text string) (fmtplayground.Settings, error) {
	ctx := context.Background()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, errors.SettingsParse("engine closed", nil)
	}

	ptr, err := e.writeString(ctx, text)
	if err != nil {
		return nil, errors.SettingsParse("pass settings to engine", err)
	}
	res, err := e.exports[ExportParseSettings].Call(ctx, uint64(ptr), uint64(len(text)))
	e.free(ctx, ptr, uint32(len(text)))
	if err != nil {
		return nil, errors.SettingsParse("failed to parse settings", err)
	}

	handle := uint32(res[0])
	if handle == 0 {
		msg, err := e.lastError(ctx)
		if err != nil {
			return nil, errors.SettingsParse("failed to parse settings", err)
		}
		return nil, errors.SettingsParse("failed to parse settings", stderrors.New(msg))
	}

	res, err = e.exports[ExportMaxLineLen].Call(ctx, uint64(handle))
	if err != nil {
		e.drop(ctx, handle)
		return nil, errors.SettingsParse("read max line length", err)
	}

	s := &wasmSettings{owner: e, handle: handle, maxLineLen: int(int32(uint32(res[0])))}
	runtime.AddCleanup(s, e.release, handle)
	return s, nil
}

// MaxLineLength returns the limit captured when s was parsed.
func (e *WasmEngine) MaxLineLength(s fmtplayground.Settings) int {
	ws, ok := s.(*wasmSettings)
	if !ok || ws.owner != e {
		return 0
	}
	return ws.maxLineLen
}

// Format runs the module's formatter over source.
func (e *WasmEngine) Format(source string, s fmtplayground.Settings) (string, error) {
	ws, ok := s.(*wasmSettings)
	if !ok || ws.owner != e {
		return "", errors.FormatFailed("settings were not parsed by this engine", nil)
	}

	ctx := context.Background()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", errors.FormatFailed("engine closed", nil)
	}

	ptr, err := e.writeString(ctx, source)
	if err != nil {
		return "", errors.FormatFailed("pass source to engine", err)
	}
	res, err := e.exports[ExportFormat].Call(ctx, uint64(ptr), uint64(len(source)), uint64(ws.handle))
	e.free(ctx, ptr, uint32(len(source)))
	runtime.KeepAlive(ws)
	if err != nil {
		return "", errors.FormatFailed("engine trapped", err)
	}

	msg, err := e.lastError(ctx)
	if err != nil {
		return "", errors.FormatFailed("read engine error", err)
	}
	if msg != "" {
		return "", errors.FormatFailed("engine failure", stderrors.New(msg))
	}

	out, err := e.readString(ctx, res[0])
	if err != nil {
		return "", errors.FormatFailed("read formatted output", err)
	}
	return out, nil
}

// Close releases the runtime and everything the module allocated.
func (e *WasmEngine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.exports = nil
	e.allocFn = nil
	e.deallocFn = nil
	e.dropFn = nil
	return e.runtime.Close(ctx)
}

func (e *WasmEngine) release(handle uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.drop(context.Background(), handle)
}

func (e *WasmEngine) drop(ctx context.Context, handle uint32) {
	if e.dropFn == nil {
		return
	}
	if _, err := e.dropFn.Call(ctx, uint64(handle)); err != nil {
		Logger().Warn("drop settings handle",
			zap.String("version", e.version),
			zap.Uint32("handle", handle),
			zap.Error(err))
	}
}

func (e *WasmEngine) callString(ctx context.Context, name string) (string, error) {
	res, err := e.exports[name].Call(ctx)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	msg, err := e.lastError(ctx)
	if err != nil {
		return "", err
	}
	if msg != "" {
		return "", fmt.Errorf("%s: %s", name, msg)
	}
	return e.readString(ctx, res[0])
}

func (e *WasmEngine) lastError(ctx context.Context) (string, error) {
	res, err := e.exports[ExportLastError].Call(ctx)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", ExportLastError, err)
	}
	return e.readString(ctx, res[0])
}

// writeString copies s into guest memory. Empty strings are passed as (0, 0)
// without allocating.
func (e *WasmEngine) writeString(ctx context.Context, s string) (uint32, error) {
	if len(s) == 0 {
		return 0, nil
	}

	var (
		res []uint64
		err error
	)
	if e.simple {
		res, err = e.allocFn.Call(ctx, uint64(len(s)))
	} else {
		res, err = e.allocFn.Call(ctx, 0, 0, 1, uint64(len(s)))
	}
	if err != nil {
		return 0, fmt.Errorf("alloc %d bytes: %w", len(s), err)
	}

	ptr := uint32(res[0])
	if ptr == 0 {
		return 0, fmt.Errorf("alloc %d bytes: module returned null", len(s))
	}
	if !e.memory.WriteString(ptr, s) {
		return 0, fmt.Errorf("write out of bounds: offset=%d, length=%d", ptr, len(s))
	}
	return ptr, nil
}

// readString copies a packed (ptr, len) string out of guest memory and
// returns the buffer to the module.
func (e *WasmEngine) readString(ctx context.Context, packed uint64) (string, error) {
	ptr, length := unpackPtrLen(packed)
	if length == 0 {
		return "", nil
	}
	data, ok := e.memory.Read(ptr, length)
	if !ok {
		return "", fmt.Errorf("read out of bounds: offset=%d, length=%d", ptr, length)
	}
	s := string(data)
	e.free(ctx, ptr, length)
	return s, nil
}

func (e *WasmEngine) free(ctx context.Context, ptr, length uint32) {
	if e.deallocFn == nil || ptr == 0 {
		return
	}
	if _, err := e.deallocFn.Call(ctx, uint64(ptr), uint64(length)); err != nil {
		Logger().Warn("dealloc guest buffer",
			zap.String("version", e.version),
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", length),
			zap.Error(err))
	}
}
