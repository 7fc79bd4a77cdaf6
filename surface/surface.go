// Package surface coordinates how the original and formatted documents are
// presented: two panes side by side, or one unified diff.
//
// Presentation never touches document content. Both views are computed on
// demand from the documents, so switching modes cannot show stale text.
package surface

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/wippyai/fmt-playground/document"
	"github.com/wippyai/fmt-playground/format"
)

// Diff labels.
const (
	OriginalName  = "original"
	FormattedName = "formatted"
)

// Pane is a container the coordinator shows or hides.
type Pane interface {
	SetVisible(visible bool)
}

// Runner runs the format pipeline.
type Runner interface {
	Run() format.Result
}

// Coordinator owns the presentation mode and the line length ruler.
type Coordinator struct {
	original   *document.Document
	formatted  *document.Document
	runner     Runner
	sideBySide Pane
	diff       Pane
	ruler      int
	diffActive bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPanes sets the panes toggled between the two modes.
func WithPanes(sideBySide, diff Pane) Option {
	return func(c *Coordinator) {
		c.sideBySide = sideBySide
		c.diff = diff
	}
}

// New creates a coordinator in side-by-side mode.
func New(original, formatted *document.Document, runner Runner, opts ...Option) *Coordinator {
	c := &Coordinator{
		original:  original,
		formatted: formatted,
		runner:    runner,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.render()
	return c
}

// DiffActive reports whether the diff view is shown.
func (c *Coordinator) DiffActive() bool {
	return c.diffActive
}

// Toggle switches between side-by-side and diff.
func (c *Coordinator) Toggle() {
	c.diffActive = !c.diffActive
	c.render()
}

func (c *Coordinator) render() {
	if c.sideBySide != nil {
		c.sideBySide.SetVisible(!c.diffActive)
	}
	if c.diff != nil {
		c.diff.SetVisible(c.diffActive)
	}
}

// SideBySide returns the texts of both panes.
func (c *Coordinator) SideBySide() (original, formatted string) {
	return c.original.Content(), c.formatted.Content()
}

// Diff returns the unified diff from original to formatted, or "" when they
// are equal.
func (c *Coordinator) Diff() string {
	return Unified(OriginalName, FormattedName, c.original.Content(), c.formatted.Content())
}

// SetRuler sets the ruler column of every surface.
func (c *Coordinator) SetRuler(col int) {
	c.ruler = col
}

// Ruler returns the ruler column, 0 before the first format run.
func (c *Coordinator) Ruler() int {
	return c.ruler
}

// ShowSample replaces the original text and formats it.
func (c *Coordinator) ShowSample(text string) format.Result {
	c.original.SetContent(text)
	return c.runner.Run()
}

// ClearSample empties the original document and formats.
func (c *Coordinator) ClearSample() format.Result {
	return c.ShowSample("")
}

// Unified renders a unified diff between two texts.
func Unified(fromName, toName, from, to string) string {
	edits := myers.ComputeEdits(span.URIFromPath(fromName), from, to)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, from, edits))
}
