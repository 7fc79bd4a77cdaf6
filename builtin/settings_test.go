package builtin

import (
	"context"
	"errors"
	"strings"
	"testing"

	fmtplayground "github.com/wippyai/fmt-playground"
	fmterrors "github.com/wippyai/fmt-playground/errors"
)

func load(t *testing.T, version string) fmtplayground.Engine {
	t.Helper()
	e, err := NewCatalog().Load(context.Background(), version)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", version, err)
	}
	return e
}

func TestEngine_ParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		version string
		text    string
		wantErr string
	}{
		{name: "empty", version: "0.5.0", text: ""},
		{name: "comment only", version: "0.5.0", text: "# nothing\n"},
		{name: "max line", version: "0.3.0", text: "max_line_len = 80"},
		{name: "crlf", version: "0.4.0", text: `line_ending = "crlf"`},
		{
			name:    "unknown option",
			version: "0.5.0",
			text:    "unknown_option = 1",
			wantErr: `unknown setting "unknown_option"`,
		},
		{
			name:    "typo suggestion",
			version: "0.5.0",
			text:    "max_line_lenn = 80",
			wantErr: `did you mean "max_line_len"?`,
		},
		{
			name:    "option from newer version",
			version: "0.3.0",
			text:    "tab_width = 4",
			wantErr: `unknown setting "tab_width"`,
		},
		{
			name:    "bad type",
			version: "0.5.0",
			text:    `max_line_len = "wide"`,
			wantErr: "max_line_len",
		},
		{
			name:    "syntax",
			version: "0.5.0",
			text:    "max_line_len 80",
			wantErr: "expected",
		},
		{
			name:    "non positive width",
			version: "0.5.0",
			text:    "max_line_len = 0",
			wantErr: "must be positive",
		},
		{
			name:    "bad line ending",
			version: "0.4.0",
			text:    `line_ending = "cr"`,
			wantErr: "line_ending",
		},
		{
			name:    "tab width range",
			version: "0.5.0",
			text:    "tab_width = 40",
			wantErr: "between 0 and 16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := load(t, tt.version)
			_, err := e.ParseSettings(tt.text)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ParseSettings() error = %v", err)
				}
				return
			}
			if !errors.Is(err, fmterrors.ErrSettingsParse) {
				t.Fatalf("ParseSettings() error = %v, want settings parse error", err)
			}
			if !strings.Contains(fmterrors.Describe(err), tt.wantErr) {
				t.Errorf("error %q does not contain %q", fmterrors.Describe(err), tt.wantErr)
			}
		})
	}
}

func TestEngine_ParseSettingsDeterministic(t *testing.T) {
	e := load(t, "0.5.0")
	for _, text := range []string{"max_line_len = 72", "bogus = true"} {
		_, err1 := e.ParseSettings(text)
		_, err2 := e.ParseSettings(text)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("validity differs for %q: %v vs %v", text, err1, err2)
		}
		if err1 != nil && err1.Error() != err2.Error() {
			t.Errorf("messages differ for %q: %q vs %q", text, err1, err2)
		}
	}
}

func TestEngine_MaxLineLength(t *testing.T) {
	e := load(t, "0.5.0")
	s, err := e.ParseSettings("max_line_len = 72")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.MaxLineLength(s); got != 72 {
		t.Errorf("MaxLineLength() = %v, want 72", got)
	}

	other := load(t, "0.4.0")
	if got := other.MaxLineLength(s); got != 0 {
		t.Errorf("MaxLineLength(foreign) = %v, want 0", got)
	}
	if _, err := other.Format("x", s); !errors.Is(err, fmterrors.ErrFormat) {
		t.Errorf("Format(foreign) error = %v, want format error", err)
	}
}
