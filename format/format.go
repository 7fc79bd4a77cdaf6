// Package format runs the active engine over the original document.
package format

import (
	"time"

	"go.uber.org/zap"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/document"
	"github.com/wippyai/fmt-playground/errors"
)

// Engines provides the active engine.
type Engines interface {
	Current() fmtplayground.Engine
}

// Resolver turns the current settings text into engine settings.
// settings.Pipeline implements it.
type Resolver interface {
	Resolve(e fmtplayground.Engine) (fmtplayground.Settings, error)
}

// RulerSink receives the line length limit of the current settings.
type RulerSink interface {
	SetRuler(col int)
}

// Outcome of a format run.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeSettingsError Outcome = "settings_error"
	OutcomeFormatError   Outcome = "format_error"
)

// Result describes one run.
type Result struct {
	Err      error
	Outcome  Outcome
	Version  string
	Duration time.Duration
}

// Pipeline keeps the formatted document in sync with the original.
type Pipeline struct {
	engines   Engines
	settings  Resolver
	original  *document.Document
	formatted *document.Document
	ruler     RulerSink
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRuler sets where the line length limit goes.
func WithRuler(r RulerSink) Option {
	return func(p *Pipeline) {
		p.ruler = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithClock replaces time.Now for duration measurement.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline formatting original into formatted.
func New(engines Engines, settings Resolver, original, formatted *document.Document, opts ...Option) *Pipeline {
	p := &Pipeline{
		engines:   engines,
		settings:  settings,
		original:  original,
		formatted: formatted,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run formats the original document with the active engine.
//
// Settings that do not resolve, or a failing engine, leave the formatted
// content as it was and annotate it with the error. Success replaces the
// content and clears the annotations.
func (p *Pipeline) Run() Result {
	start := p.now()
	e := p.engines.Current()

	res := p.run(e)
	res.Duration = p.now().Sub(start)
	if e != nil {
		res.Version = e.Version()
	}

	if res.Err != nil {
		p.formatted.AnnotateWhole(errors.Describe(res.Err))
		p.logger.Debug("format failed",
			zap.String("version", res.Version),
			zap.String("outcome", string(res.Outcome)),
			zap.Error(res.Err))
	}
	return res
}

func (p *Pipeline) run(e fmtplayground.Engine) Result {
	s, err := p.settings.Resolve(e)
	if err != nil {
		return Result{Outcome: OutcomeSettingsError, Err: err}
	}

	if p.ruler != nil {
		p.ruler.SetRuler(e.MaxLineLength(s))
	}

	out, err := e.Format(p.original.Content(), s)
	if err != nil {
		return Result{Outcome: OutcomeFormatError, Err: err}
	}

	p.formatted.SetContent(out)
	p.formatted.ClearAnnotations()
	return Result{Outcome: OutcomeOK}
}
