package ui

import (
	"net/url"
	"slices"
	"sync"
)

type listeners struct {
	fns    map[uint64]func(string)
	nextID uint64
}

func (l *listeners) add(fn func(string)) uint64 {
	if l.fns == nil {
		l.fns = make(map[uint64]func(string))
	}
	l.nextID++
	l.fns[l.nextID] = fn
	return l.nextID
}

func (l *listeners) snapshot() []func(string) {
	ids := make([]uint64, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]func(string), len(ids))
	for i, id := range ids {
		out[i] = l.fns[id]
	}
	return out
}

// Field is an in-memory Element. Buttons are Fields that are clicked rather
// than typed into.
type Field struct {
	mu        sync.Mutex
	listeners listeners
	value     string
	disabled  bool
}

var _ Element = (*Field)(nil)

// NewField creates an enabled field holding value.
func NewField(value string) *Field {
	return &Field{value: value}
}

// Value returns the current value.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SetValue sets the value without notifying.
func (f *Field) SetValue(v string) {
	f.mu.Lock()
	f.value = v
	f.mu.Unlock()
}

// Enabled reports whether the field accepts user input.
func (f *Field) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.disabled
}

// SetEnabled enables or disables user input.
func (f *Field) SetEnabled(enabled bool) {
	f.mu.Lock()
	f.disabled = !enabled
	f.mu.Unlock()
}

// OnChange registers fn for user changes.
func (f *Field) OnChange(fn func(string)) func() {
	f.mu.Lock()
	id := f.listeners.add(fn)
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners.fns, id)
		f.mu.Unlock()
	}
}

// Input sets the value as the user would and notifies. It reports false and
// does nothing while the field is disabled.
func (f *Field) Input(v string) bool {
	f.mu.Lock()
	if f.disabled {
		f.mu.Unlock()
		return false
	}
	f.value = v
	fns := f.listeners.snapshot()
	f.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
	return true
}

// Click notifies with the current value, like pressing a button.
func (f *Field) Click() bool {
	return f.Input(f.Value())
}

// Choice is an in-memory Selector.
type Choice struct {
	Field
	options []string
}

var _ Selector = (*Choice)(nil)

// NewChoice creates an empty selector.
func NewChoice(options ...string) *Choice {
	return &Choice{options: slices.Clone(options)}
}

// Options returns a copy of the options.
func (c *Choice) Options() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.options)
}

// SetOptions replaces the options. A current value that is no longer an
// option is cleared.
func (c *Choice) SetOptions(options []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = slices.Clone(options)
	if !slices.Contains(c.options, c.value) {
		c.value = ""
	}
}

// SetValue selects v, or clears the selection when v is not an option.
func (c *Choice) SetValue(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.options, v) {
		c.value = v
	} else {
		c.value = ""
	}
}

// Input selects v as the user would. Values that are not options are
// rejected, except "" which clears the selection.
func (c *Choice) Input(v string) bool {
	c.mu.Lock()
	ok := v == "" || slices.Contains(c.options, v)
	c.mu.Unlock()
	if !ok {
		return false
	}
	return c.Field.Input(v)
}

// Panel is an in-memory Pane.
type Panel struct {
	mu      sync.Mutex
	visible bool
}

var _ Pane = (*Panel)(nil)

// NewPanel creates a pane with the given visibility.
func NewPanel(visible bool) *Panel {
	return &Panel{visible: visible}
}

// Visible reports whether the pane is shown.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// SetVisible shows or hides the pane.
func (p *Panel) SetVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

// Address is an in-memory Location.
type Address struct {
	mu       sync.Mutex
	url      url.URL
	replaced int
}

var _ Location = (*Address)(nil)

// NewAddress creates a location at u.
func NewAddress(u *url.URL) *Address {
	a := &Address{}
	if u != nil {
		a.url = *u
	}
	return a
}

// URL returns a copy of the current address.
func (a *Address) URL() *url.URL {
	a.mu.Lock()
	defer a.mu.Unlock()
	u := a.url
	return &u
}

// Replace sets the address.
func (a *Address) Replace(u *url.URL) {
	a.mu.Lock()
	a.url = *u
	a.replaced++
	a.mu.Unlock()
}

// Replaced returns how many times the address was replaced.
func (a *Address) Replaced() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.replaced
}

var _ Clipboard = (*Clip)(nil)

// Clip is an in-memory Clipboard.
type Clip struct {
	mu   sync.Mutex
	text string
}

// WriteText stores text.
func (c *Clip) WriteText(text string) error {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	return nil
}

// Text returns the last text written.
func (c *Clip) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Memory is a Host built from in-memory elements, with typed access for
// the code that simulates the user.
type Memory struct {
	VersionSelector *Choice
	SampleSelector  *Choice

	OpenSettings  *Field
	ResetSettings *Field
	CloseSettings *Field
	ToggleView    *Field
	Share         *Field

	SideBySidePane *Panel
	DiffPane       *Panel
	SettingsDialog *Panel

	Location *Address
}

// NewMemory creates in-memory elements. The settings dialog starts hidden.
func NewMemory(location *url.URL) *Memory {
	return &Memory{
		VersionSelector: NewChoice(),
		SampleSelector:  NewChoice(),
		OpenSettings:    NewField(""),
		ResetSettings:   NewField(""),
		CloseSettings:   NewField(""),
		ToggleView:      NewField(""),
		Share:           NewField(""),
		SideBySidePane:  NewPanel(true),
		DiffPane:        NewPanel(false),
		SettingsDialog:  NewPanel(false),
		Location:        NewAddress(location),
	}
}

// Host returns the elements as a Host using clipboard.
func (m *Memory) Host(clipboard Clipboard) *Host {
	return &Host{
		VersionSelector: m.VersionSelector,
		SampleSelector:  m.SampleSelector,
		OpenSettings:    m.OpenSettings,
		ResetSettings:   m.ResetSettings,
		CloseSettings:   m.CloseSettings,
		ToggleView:      m.ToggleView,
		Share:           m.Share,
		SideBySidePane:  m.SideBySidePane,
		DiffPane:        m.DiffPane,
		SettingsDialog:  m.SettingsDialog,
		Location:        m.Location,
		Clipboard:       clipboard,
	}
}
