package playground

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/document"
	"github.com/wippyai/fmt-playground/format"
	"github.com/wippyai/fmt-playground/registry"
	"github.com/wippyai/fmt-playground/settings"
	"github.com/wippyai/fmt-playground/share"
	"github.com/wippyai/fmt-playground/surface"
	"github.com/wippyai/fmt-playground/ui"
)

// Samples lists and fetches sample sources. registry.Samples implements it.
type Samples interface {
	List(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, name string) (string, error)
}

// Controller is a playground session.
type Controller struct {
	reg      *registry.Registry
	samples  Samples
	host     *ui.Host
	dispatch Dispatcher
	logger   *zap.Logger
	metrics  *Metrics
	codec    share.Codec

	original    *document.Document
	formatted   *document.Document
	settingsDoc *document.Document

	settings *settings.Pipeline
	format   *format.Pipeline
	surface  *surface.Coordinator

	ctx    context.Context
	cancel context.CancelFunc

	sessionID      string
	defaultSample  string
	debounce       time.Duration
	afterFunc      settings.AfterFunc
	unsubscribe    []func()
	pendingLoads   int
	pendingFetches int

	// inline is set when no dispatcher was given; loads and sample
	// fetches then run on the calling goroutine.
	inline bool
	closed bool
	// closedEngine is the last engine closed by the controller itself, so
	// the retire hook does not close it a second time.
	closedEngine fmtplayground.Engine
}

// Option configures a Controller.
type Option func(*Controller)

// WithDispatcher sets where background results run. Engine loads and
// sample fetches then happen on their own goroutines and report back
// through d. Without a dispatcher they run synchronously inside the handler
// that started them, so handlers never overlap.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) {
		c.dispatch = d
	}
}

// WithLogger sets the logger; it is tagged with the session id.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithMetrics records controller activity.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithDebounce sets the delay before a settings error is shown.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithAfterFunc replaces the timer source of the debounce.
func WithAfterFunc(fn settings.AfterFunc) Option {
	return func(c *Controller) {
		c.afterFunc = fn
	}
}

// WithDefaultSample sets the sample shown when the location carries no
// source.
func WithDefaultSample(name string) Option {
	return func(c *Controller) {
		c.defaultSample = name
	}
}

// New creates a controller. Nothing is loaded until Start.
func New(reg *registry.Registry, samples Samples, host *ui.Host, opts ...Option) *Controller {
	c := &Controller{
		reg:           reg,
		samples:       samples,
		host:          host,
		logger:        zap.NewNop(),
		debounce:      settings.DefaultDelay,
		defaultSample: registry.DefaultSample,
		sessionID:     uuid.NewString(),
		original:      document.New(""),
		formatted:     document.New(""),
		settingsDoc:   document.New(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dispatch == nil {
		c.inline = true
		c.dispatch = DispatcherFunc(func(fn func()) { fn() })
	}
	c.logger = c.logger.With(zap.String("session", c.sessionID))
	c.ctx, c.cancel = context.WithCancel(context.Background())

	debounceOpts := []settings.DebounceOption{settings.WithPost(c.dispatch.Post)}
	if c.afterFunc != nil {
		debounceOpts = append(debounceOpts, settings.WithAfterFunc(c.afterFunc))
	}

	c.settings = settings.New(reg, c.settingsDoc,
		settings.WithCommit(host.CloseSettings),
		settings.WithDebouncer(settings.NewDebouncer(c.debounce, debounceOpts...)),
		settings.WithLogger(c.logger))

	c.surface = surface.New(c.original, c.formatted, runnerFunc(c.runFormat),
		surface.WithPanes(host.SideBySidePane, host.DiffPane))

	c.format = format.New(reg, c.settings, c.original, c.formatted,
		format.WithRuler(c.surface),
		format.WithLogger(c.logger))

	// Retired engines are closed on the loop, after every handler that
	// could hold them has finished.
	reg.SetRetire(func(e fmtplayground.Engine) {
		c.dispatch.Post(func() {
			if e != c.closedEngine {
				registry.Close(e)
			}
		})
	})

	return c
}

type runnerFunc func() format.Result

func (f runnerFunc) Run() format.Result { return f() }

// Start loads the session described by location, which may be nil. It must
// be called before the host starts delivering events. Start fails only when
// no engine can be loaded.
func (c *Controller) Start(ctx context.Context, location *url.URL) error {
	var (
		state   share.State
		present share.Present
	)
	if location != nil {
		var err error
		state, present, err = c.codec.Decode(location)
		if err != nil {
			c.logger.Warn("ignoring invalid share parameters", zap.Error(err))
		}
	}

	versions, err := c.reg.Versions(ctx)
	if err != nil {
		return err
	}
	if err := c.startEngine(ctx, versions, state.Version, present.Version); err != nil {
		return err
	}

	e := c.reg.Current()
	if present.Settings {
		c.settingsDoc.SetContent(state.Settings)
	} else {
		c.settingsDoc.SetContent(e.DefaultSettings())
	}

	c.startSamples(ctx)
	if present.Source {
		c.original.SetContent(state.Source)
	} else if c.defaultSample != "" {
		text, err := c.samples.Fetch(ctx, c.defaultSample)
		if err != nil {
			c.logger.Warn("default sample unavailable",
				zap.String("sample", c.defaultSample),
				zap.Error(err))
		} else {
			c.original.SetContent(text)
		}
	}

	c.host.SettingsDialog.SetVisible(false)
	c.subscribe()

	c.validate()
	c.runFormat()

	c.logger.Info("playground started",
		zap.String("version", e.Version()),
		zap.Bool("shared", present.Any()))
	return nil
}

func (c *Controller) startEngine(ctx context.Context, versions []string, shared string, present bool) error {
	sel := c.host.VersionSelector
	sel.SetOptions(versions)

	version := versions[0]
	if present {
		sel.SetValue(shared)
		if sel.Value() == "" {
			c.logger.Warn("invalid version from share parameters",
				zap.String("version", shared))
		} else {
			version = shared
		}
	}

	err := c.reg.Load(ctx, version)
	c.metrics.observeLoad(err)
	if err != nil && version != versions[0] {
		c.logger.Warn("shared version failed to load, using default",
			zap.String("version", version),
			zap.Error(err))
		version = versions[0]
		err = c.reg.Load(ctx, version)
		c.metrics.observeLoad(err)
	}
	if err != nil {
		return err
	}

	sel.SetValue(version)
	return nil
}

func (c *Controller) startSamples(ctx context.Context) {
	names, err := c.samples.List(ctx)
	if err != nil {
		c.logger.Warn("sample list unavailable", zap.Error(err))
	}
	c.host.SampleSelector.SetOptions(append([]string{""}, names...))
	c.host.SampleSelector.SetValue("")
}

func (c *Controller) subscribe() {
	on := func(el ui.Element, fn func(string)) {
		c.unsubscribe = append(c.unsubscribe, el.OnChange(fn))
	}
	on(c.host.VersionSelector, c.SelectVersion)
	on(c.host.SampleSelector, c.SelectSample)
	on(c.host.OpenSettings, func(string) { c.OpenSettings() })
	on(c.host.CloseSettings, func(string) { c.CloseSettings() })
	on(c.host.ResetSettings, func(string) { c.ResetSettings() })
	on(c.host.ToggleView, func(string) { c.ToggleView() })
	on(c.host.Share, func(string) {
		if _, err := c.Share(); err != nil {
			c.logger.Warn("share failed", zap.Error(err))
		}
	})
}

// Close stops background work, detaches from the host and closes the
// active engine. Loads still in flight close their engine when they report
// back. Calling Close again does nothing.
func (c *Controller) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.cancel()
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
	c.settings.Stop()

	if e := c.reg.Current(); e != nil {
		c.closedEngine = e
		return e.Close(ctx)
	}
	return nil
}

// closeLanded closes an engine that a load installed after Close.
func (c *Controller) closeLanded() {
	if e := c.reg.Current(); e != nil && e != c.closedEngine {
		c.closedEngine = e
		registry.Close(e)
	}
}

// SessionID identifies the session in logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Original returns the source document.
func (c *Controller) Original() *document.Document {
	return c.original
}

// Formatted returns the read-only formatted document.
func (c *Controller) Formatted() *document.Document {
	return c.formatted
}

// Settings returns the settings document.
func (c *Controller) Settings() *document.Document {
	return c.settingsDoc
}

// Surface returns the presentation coordinator.
func (c *Controller) Surface() *surface.Coordinator {
	return c.surface
}

// SettingsValid reports whether the settings parse with the active engine.
func (c *Controller) SettingsValid() bool {
	return c.settings.Valid()
}

// Loading reports whether a version load is in flight.
func (c *Controller) Loading() bool {
	return c.pendingLoads > 0
}

// Idle reports whether no load or sample fetch is in flight.
func (c *Controller) Idle() bool {
	return c.pendingLoads == 0 && c.pendingFetches == 0
}

// ActiveVersion returns the active engine version.
func (c *Controller) ActiveVersion() string {
	return c.reg.Slot().Version()
}
