// Package ui defines the host elements the playground controller drives.
//
// The controller never draws anything. It reads and writes element values,
// enables and disables actions, shows and hides panes and subscribes to user
// changes through the interfaces below. The in-memory implementations in
// this package back the terminal host and the tests.
package ui

import "net/url"

// Element is a named control with a value, such as a button or a field.
type Element interface {
	Value() string
	SetValue(v string)
	Enabled() bool
	SetEnabled(enabled bool)

	// OnChange registers fn for user changes. Programmatic SetValue calls do
	// not notify. The returned function removes the registration.
	OnChange(fn func(value string)) (unsubscribe func())
}

// Selector is an Element restricted to a list of options. Setting a value
// that is not an option leaves the selector empty.
type Selector interface {
	Element
	Options() []string
	SetOptions(options []string)
}

// Pane is a container that can be shown or hidden.
type Pane interface {
	Visible() bool
	SetVisible(visible bool)
}

// Location is the address of the running session.
type Location interface {
	URL() *url.URL

	// Replace changes the address without navigating.
	Replace(u *url.URL)
}

// Clipboard accepts text copied by the user.
type Clipboard interface {
	WriteText(text string) error
}

// Host groups the elements of one playground page.
type Host struct {
	VersionSelector Selector
	SampleSelector  Selector

	OpenSettings  Element
	ResetSettings Element
	CloseSettings Element
	ToggleView    Element
	Share         Element

	SideBySidePane Pane
	DiffPane       Pane
	SettingsDialog Pane

	Location  Location
	Clipboard Clipboard
}
