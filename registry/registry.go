package registry

import (
	"context"
	stderrors "errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/engine"
	"github.com/wippyai/fmt-playground/errors"
)

const tracerName = "github.com/wippyai/fmt-playground/registry"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Lister returns the ordered list of available versions.
type Lister interface {
	Versions(ctx context.Context) ([]string, error)
}

// Loader instantiates the engine for a version.
type Loader interface {
	Load(ctx context.Context, version string) (fmtplayground.Engine, error)
}

// Registry owns the active engine of a session.
type Registry struct {
	lister   Lister
	loader   Loader
	slot     *engine.Slot
	retire   func(fmtplayground.Engine)
	versions []string
	mu       sync.Mutex
	retireMu sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithSlot uses an existing slot.
func WithSlot(s *engine.Slot) Option {
	return func(r *Registry) {
		r.slot = s
	}
}

// WithRetire sets what happens to an engine after it was replaced. The
// default closes it immediately.
func WithRetire(fn func(fmtplayground.Engine)) Option {
	return func(r *Registry) {
		r.retire = fn
	}
}

// New creates a registry listing versions from lister and loading them
// through loader.
func New(lister Lister, loader Loader, opts ...Option) *Registry {
	r := &Registry{
		lister: lister,
		loader: loader,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.slot == nil {
		r.slot = engine.NewSlot()
	}
	if r.retire == nil {
		r.retire = Close
	}
	return r
}

// Close closes e, logging failures.
func Close(e fmtplayground.Engine) {
	if err := e.Close(context.Background()); err != nil {
		Logger().Warn("close retired engine",
			zap.String("version", e.Version()),
			zap.Error(err))
	}
}

// Versions returns the version list. A successful fetch is memoized.
func (r *Registry) Versions(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.versions != nil {
		return append([]string(nil), r.versions...), nil
	}

	ctx, span := tracer().Start(ctx, "registry.Versions")
	defer span.End()

	versions, err := r.lister.Versions(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	if len(versions) == 0 {
		err := errors.InvalidData(errors.PhaseManifest, ManifestName, "no versions available")
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("fmtplay.versions", len(versions)))

	r.versions = versions
	return append([]string(nil), versions...), nil
}

// Load instantiates version and makes it the active engine. On failure the
// active engine is left as it was and the error matches errors.ErrEngineLoad.
func (r *Registry) Load(ctx context.Context, version string) error {
	ctx, span := tracer().Start(ctx, "registry.Load",
		trace.WithAttributes(attribute.String("fmtplay.version", version)))
	defer span.End()

	e, err := r.loader.Load(ctx, version)
	if err == nil && e == nil {
		err = errors.EngineLoad(version, "loader returned no engine", nil)
	}
	if err != nil {
		if !stderrors.Is(err, errors.ErrEngineLoad) {
			err = errors.EngineLoad(version, "load engine", err)
		}
		recordError(span, err)
		Logger().Warn("engine load failed",
			zap.String("version", version),
			zap.Error(err))
		return err
	}

	prev := r.slot.Replace(e)
	Logger().Info("engine active",
		zap.String("version", version))

	if prev != nil && prev != e {
		r.retireMu.RLock()
		retire := r.retire
		r.retireMu.RUnlock()
		retire(prev)
	}
	return nil
}

// SetRetire replaces the retire hook, like WithRetire. A nil fn restores
// Close.
func (r *Registry) SetRetire(fn func(fmtplayground.Engine)) {
	if fn == nil {
		fn = Close
	}
	r.retireMu.Lock()
	r.retire = fn
	r.retireMu.Unlock()
}

// Current returns the active engine, or nil before the first load.
func (r *Registry) Current() fmtplayground.Engine {
	return r.slot.Current()
}

// Slot returns the slot holding the active engine.
func (r *Registry) Slot() *engine.Slot {
	return r.slot
}
