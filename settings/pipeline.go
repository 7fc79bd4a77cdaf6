package settings

import (
	"go.uber.org/zap"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/document"
	"github.com/wippyai/fmt-playground/errors"
)

// Engines provides the active engine. engine.Slot implements it.
type Engines interface {
	Current() fmtplayground.Engine
}

// Enabler is an action that can be enabled or disabled, such as the button
// that closes the settings dialog.
type Enabler interface {
	SetEnabled(enabled bool)
}

// ErrNoEngine is returned while no engine is active.
var ErrNoEngine = errors.New(errors.PhaseSettings, errors.KindUnavailable).
	Detail("no engine loaded").
	Build()

type parsed struct {
	engine   fmtplayground.Engine
	settings fmtplayground.Settings
	err      error
	text     string
}

// Pipeline validates the settings document against the active engine.
//
// All methods are meant to be called from the controller loop.
type Pipeline struct {
	engines  Engines
	doc      *document.Document
	commit   Enabler
	debounce *Debouncer
	logger   *zap.Logger
	cache    parsed
	valid    bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCommit sets the action that is enabled only while settings are valid.
func WithCommit(e Enabler) Option {
	return func(p *Pipeline) {
		p.commit = e
	}
}

// WithDebouncer replaces the debouncer of the error annotation.
func WithDebouncer(d *Debouncer) Option {
	return func(p *Pipeline) {
		p.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a pipeline for doc. Settings start out valid.
func New(engines Engines, doc *document.Document, opts ...Option) *Pipeline {
	p := &Pipeline{
		engines: engines,
		doc:     doc,
		valid:   true,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.debounce == nil {
		p.debounce = NewDebouncer(DefaultDelay)
	}
	return p
}

// Document returns the settings document.
func (p *Pipeline) Document() *document.Document {
	return p.doc
}

// Valid reports whether the current text parsed with the active engine.
func (p *Pipeline) Valid() bool {
	return p.valid
}

// Validate parses the current text with the active engine.
//
// Success clears the annotation and enables the commit action at once.
// Failure disables the commit action and schedules an annotation carrying
// the error; the annotation is skipped if the document changes before the
// debounce interval elapses. The returned error is the parse failure.
func (p *Pipeline) Validate() error {
	rev := p.doc.Revision()
	_, err := p.Resolve(p.engines.Current())

	if err == nil {
		p.valid = true
		p.setCommit(true)
		p.debounce.Cancel()
		p.doc.ClearAnnotations()
		return nil
	}

	p.valid = false
	p.setCommit(false)

	msg := errors.Describe(err)
	p.debounce.Schedule(func() {
		if p.doc.Revision() != rev {
			return
		}
		p.doc.AnnotateWhole(msg)
	})

	p.logger.Debug("settings invalid",
		zap.Uint64("revision", rev),
		zap.Error(err))
	return err
}

// Resolve returns the current text parsed by e. Results are cached per
// engine and text.
func (p *Pipeline) Resolve(e fmtplayground.Engine) (fmtplayground.Settings, error) {
	if e == nil {
		return nil, ErrNoEngine
	}

	text := p.doc.Content()
	if p.cache.engine == e && p.cache.text == text {
		return p.cache.settings, p.cache.err
	}

	s, err := e.ParseSettings(text)
	p.cache = parsed{engine: e, text: text, settings: s, err: err}
	return s, err
}

// Reconcile rewrites the settings for the active engine's keys. It reports
// whether the text changed.
func (p *Pipeline) Reconcile() bool {
	e := p.engines.Current()
	if e == nil {
		return false
	}

	current := p.doc.Content()
	next := Reconcile(current, e.DefaultSettings())
	if next == current {
		return false
	}

	p.logger.Debug("settings reconciled",
		zap.String("version", e.Version()))
	p.doc.SetContent(next)
	return true
}

// Reset replaces the text with the active engine's defaults.
func (p *Pipeline) Reset() {
	if e := p.engines.Current(); e != nil {
		p.doc.SetContent(e.DefaultSettings())
	}
}

// Stop cancels a pending annotation.
func (p *Pipeline) Stop() {
	p.debounce.Cancel()
}

func (p *Pipeline) setCommit(enabled bool) {
	if p.commit != nil {
		p.commit.SetEnabled(enabled)
	}
}
