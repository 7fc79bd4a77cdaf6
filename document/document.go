package document

import (
	"slices"
	"strings"
	"sync"
)

// Severity of an annotation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Annotation marks a range of a document. Lines and columns are 1-based.
type Annotation struct {
	Message   string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Severity  Severity
}

// ChangeType tells observers what changed.
type ChangeType int

const (
	// ChangeContent indicates a new content revision.
	ChangeContent ChangeType = iota

	// ChangeAnnotations indicates the annotation set was replaced.
	ChangeAnnotations
)

// Change is delivered to observers after a document is modified.
type Change struct {
	Type     ChangeType
	Revision uint64
}

// Observer is called after a change, outside the document lock.
type Observer func(Change)

// Subscription is an active observer registration.
type Subscription struct {
	doc *Document
	id  uint64
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.doc != nil {
		s.doc.unsubscribe(s.id)
	}
}

type entry struct {
	observer Observer
	id       uint64
}

// Document is a text buffer with a revision counter and annotations.
type Document struct {
	mu          sync.RWMutex
	content     string
	revision    uint64
	annotations []Annotation
	observers   []entry
	nextID      uint64
}

// New creates a document holding content at revision 1.
func New(content string) *Document {
	return &Document{content: content, revision: 1}
}

// Content returns the current text.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Revision returns the current content revision.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// SetContent replaces the text. Setting identical text is not a change and
// notifies nobody.
func (d *Document) SetContent(content string) {
	d.mu.Lock()
	if content == d.content {
		d.mu.Unlock()
		return
	}
	d.content = content
	d.revision++
	rev := d.revision
	d.mu.Unlock()

	d.notify(Change{Type: ChangeContent, Revision: rev})
}

// LineCount returns the number of lines; an empty document has one line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Count(d.content, "\n") + 1
}

// Annotations returns a copy of the current annotations.
func (d *Document) Annotations() []Annotation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.annotations)
}

// SetAnnotations replaces all annotations.
func (d *Document) SetAnnotations(annotations ...Annotation) {
	d.mu.Lock()
	d.annotations = slices.Clone(annotations)
	rev := d.revision
	d.mu.Unlock()

	d.notify(Change{Type: ChangeAnnotations, Revision: rev})
}

// ClearAnnotations removes all annotations. Clearing an unannotated
// document notifies nobody.
func (d *Document) ClearAnnotations() {
	d.mu.Lock()
	if len(d.annotations) == 0 {
		d.mu.Unlock()
		return
	}
	d.annotations = nil
	rev := d.revision
	d.mu.Unlock()

	d.notify(Change{Type: ChangeAnnotations, Revision: rev})
}

// AnnotateWhole replaces the annotations with a single error covering the
// whole document, from 1:1 to the start of its last line.
func (d *Document) AnnotateWhole(message string) {
	d.SetAnnotations(Annotation{
		StartLine: 1,
		StartCol:  1,
		EndLine:   d.LineCount(),
		EndCol:    1,
		Message:   message,
		Severity:  SeverityError,
	})
}

// Subscribe registers an observer for all changes.
func (d *Document) Subscribe(observer Observer) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.observers = append(d.observers, entry{id: d.nextID, observer: observer})
	return &Subscription{doc: d, id: d.nextID}
}

func (d *Document) unsubscribe(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = slices.DeleteFunc(d.observers, func(e entry) bool {
		return e.id == id
	})
}

func (d *Document) notify(c Change) {
	d.mu.RLock()
	observers := slices.Clone(d.observers)
	d.mu.RUnlock()

	for _, e := range observers {
		e.observer(c)
	}
}
