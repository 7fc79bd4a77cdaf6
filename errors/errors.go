package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in the playground the error occurred
type Phase string

const (
	PhaseManifest Phase = "manifest" // version list retrieval
	PhaseFetch    Phase = "fetch"    // asset retrieval
	PhaseLoad     Phase = "load"     // engine loading
	PhaseSettings Phase = "settings" // configuration parsing
	PhaseFormat   Phase = "format"   // engine formatting
	PhaseSample   Phase = "sample"   // sample loading
	PhaseShare    Phase = "share"    // share state encoding and decoding
	PhaseConfig   Phase = "config"   // application configuration
)

// Kind categorizes the error
type Kind string

const (
	KindEngineLoad    Kind = "engine_load"
	KindSettingsParse Kind = "settings_parse"
	KindFormat        Kind = "format"
	KindInvalidData   Kind = "invalid_data"
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
	KindUnsupported   Kind = "unsupported"
	KindMissingExport Kind = "missing_export"
	KindUnavailable   Kind = "unavailable"
)

// Error is the structured error type used throughout the playground
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Version string
	Detail  string
	Path    string
}

// Sentinels for errors.Is matching by Phase and Kind.
var (
	ErrEngineLoad    = &Error{Phase: PhaseLoad, Kind: KindEngineLoad}
	ErrSettingsParse = &Error{Phase: PhaseSettings, Kind: KindSettingsParse}
	ErrFormat        = &Error{Phase: PhaseFormat, Kind: KindFormat}
)

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	e.writeSummary(&b)

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Summary returns the message without the cause chain.
func (e *Error) Summary() string {
	var b strings.Builder
	e.writeSummary(&b)
	return b.String()
}

func (e *Error) writeSummary(b *strings.Builder) {
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Version != "" {
		b.WriteString(" (version ")
		b.WriteString(e.Version)
		b.WriteByte(')')
	}

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Version sets the engine version the error relates to
func (b *Builder) Version(v string) *Builder {
	b.err.Version = v
	return b
}

// Path sets the asset path
func (b *Builder) Path(p string) *Builder {
	b.err.Path = p
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// EngineLoad creates an engine load error
func EngineLoad(version, detail string, cause error) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindEngineLoad,
		Version: version,
		Detail:  detail,
		Cause:   cause,
	}
}

// SettingsParse creates a configuration parse error
func SettingsParse(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseSettings,
		Kind:   KindSettingsParse,
		Detail: detail,
		Cause:  cause,
	}
}

// FormatFailed creates a formatting error
func FormatFailed(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseFormat,
		Kind:   KindFormat,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExport creates an error for an engine module lacking a required export
func MissingExport(version, name string) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindMissingExport,
		Version: version,
		Detail:  fmt.Sprintf("module does not export %q", name),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unavailable creates an error for an asset that could not be retrieved
func Unavailable(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindUnavailable,
		Path:  path,
		Cause: cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Describe renders err for display on an annotation. Each level of the
// cause chain goes on its own line prefixed with "Caused by: ".
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	for i := 0; err != nil; i++ {
		if i > 0 {
			b.WriteString("\nCaused by: ")
		}

		var e *Error
		if stderrors.As(err, &e) {
			// Keep context added by fmt.Errorf wrappers above the *Error.
			if msg := err.Error(); msg != e.Error() && strings.HasSuffix(msg, e.Error()) {
				b.WriteString(strings.TrimSuffix(msg, e.Error()))
			}
			b.WriteString(e.Summary())
			err = e.Cause
			continue
		}

		b.WriteString(err.Error())
		// Plain errors already include wrapped text in their message.
		break
	}
	return b.String()
}
