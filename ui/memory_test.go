package ui

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestField_Input(t *testing.T) {
	f := NewField("a")
	var got []string
	unsubscribe := f.OnChange(func(v string) { got = append(got, v) })

	f.SetValue("b")
	if len(got) != 0 {
		t.Fatalf("SetValue notified: %v", got)
	}

	if !f.Input("c") {
		t.Fatal("Input() = false on an enabled field")
	}
	f.SetEnabled(false)
	if f.Input("d") {
		t.Error("Input() = true on a disabled field")
	}
	if f.Value() != "c" {
		t.Errorf("Value() = %q, want %q", f.Value(), "c")
	}
	f.SetEnabled(true)
	f.Click()

	unsubscribe()
	f.Input("e")

	if diff := cmp.Diff([]string{"c", "c"}, got); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestChoice_SetValue(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		set     string
		want    string
	}{
		{name: "known", options: []string{"0.5.0", "0.4.0"}, set: "0.4.0", want: "0.4.0"},
		{name: "unknown empties", options: []string{"0.5.0"}, set: "9.9.9", want: ""},
		{name: "no options", options: nil, set: "0.5.0", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChoice(tt.options...)
			c.SetValue(tt.set)
			if c.Value() != tt.want {
				t.Errorf("Value() = %q, want %q", c.Value(), tt.want)
			}
		})
	}
}

func TestChoice_SetOptionsClearsStaleValue(t *testing.T) {
	c := NewChoice("a", "b")
	c.SetValue("b")
	c.SetOptions([]string{"a", "b", "c"})
	if c.Value() != "b" {
		t.Errorf("Value() = %q, want %q", c.Value(), "b")
	}
	c.SetOptions([]string{"a"})
	if c.Value() != "" {
		t.Errorf("Value() = %q, want empty", c.Value())
	}
	if diff := cmp.Diff([]string{"a"}, c.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestChoice_Input(t *testing.T) {
	c := NewChoice("x.pas")
	var got []string
	c.OnChange(func(v string) { got = append(got, v) })

	if c.Input("missing.pas") {
		t.Error("Input() accepted an unknown option")
	}
	c.Input("x.pas")
	c.Input("")
	if diff := cmp.Diff([]string{"x.pas", ""}, got); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestAddress_Replace(t *testing.T) {
	start, _ := url.Parse("https://example.org/?a=1")
	a := NewAddress(start)

	u := a.URL()
	u.RawQuery = "b=2"
	if a.URL().RawQuery != "a=1" {
		t.Error("URL() returned a shared value")
	}

	a.Replace(u)
	if a.URL().RawQuery != "b=2" || a.Replaced() != 1 {
		t.Errorf("after Replace: %v, replaced %d", a.URL(), a.Replaced())
	}
}

func TestMemory_Host(t *testing.T) {
	m := NewMemory(nil)
	clip := &Clip{}
	h := m.Host(clip)

	if !h.SideBySidePane.Visible() || h.DiffPane.Visible() || h.SettingsDialog.Visible() {
		t.Error("unexpected initial pane visibility")
	}
	if err := h.Clipboard.WriteText("x"); err != nil || clip.Text() != "x" {
		t.Errorf("clipboard = %q, %v", clip.Text(), err)
	}
}
