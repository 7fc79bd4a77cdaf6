package registry

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/engine"
	"github.com/wippyai/fmt-playground/errors"
)

// DefaultModuleCacheSize is the number of module binaries kept in memory.
const DefaultModuleCacheSize = 4

// ModuleLoader loads WebAssembly engines from a source, caching module
// bytes by version so switching back to a version skips the fetch.
type ModuleLoader struct {
	source Source
	cache  *lru.Cache[string, []byte]
	cfg    *engine.Config
}

// NewModuleLoader creates a loader keeping up to size modules.
func NewModuleLoader(source Source, size int, cfg *engine.Config) (*ModuleLoader, error) {
	if size <= 0 {
		size = DefaultModuleCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create module cache: %w", err)
	}
	return &ModuleLoader{source: source, cache: cache, cfg: cfg}, nil
}

// Load fetches (or reuses) the module for version and instantiates it.
func (l *ModuleLoader) Load(ctx context.Context, version string) (fmtplayground.Engine, error) {
	if version == "" || strings.ContainsAny(version, `/\`) || version == "." || version == ".." {
		return nil, errors.EngineLoad(version, "invalid version", nil)
	}

	wasm, ok := l.cache.Get(version)
	if !ok {
		data, err := l.source.Fetch(ctx, ModulePath(version))
		if err != nil {
			return nil, errors.EngineLoad(version, "fetch module", err)
		}
		wasm = data
		l.cache.Add(version, wasm)
		Logger().Debug("module fetched",
			zap.String("version", version),
			zap.Int("bytes", len(wasm)))
	}

	e, err := engine.LoadWasm(ctx, version, wasm, l.cfg)
	if err != nil {
		// A module that does not compile is not worth keeping.
		l.cache.Remove(version)
		return nil, err
	}
	return e, nil
}

// Cached reports whether version's module bytes are cached.
func (l *ModuleLoader) Cached(version string) bool {
	return l.cache.Contains(version)
}
