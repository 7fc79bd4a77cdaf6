// Package share encodes playground sessions into URLs.
//
// The source text, the settings text and the engine version are each stored
// base64url-encoded in their own query parameter, so a shared link restores
// the whole session. Links created by older playgrounds used single-byte
// base64 (btoa) with the standard alphabet; Decode still reads them.
//
// A value carrying '+', '/' or trailing '=' without any '-' or '_' can only
// come from the standard alphabet, which Encode never emits, so it is read
// as legacy Latin-1. Unmarked values are read as UTF-8, falling back to
// Latin-1 when the bytes are not valid UTF-8. Two limits follow: a legacy
// value whose encoding happens to use none of the marker characters and
// whose bytes form valid UTF-8 reads back as UTF-8, and text that is not
// valid UTF-8 does not survive a round trip.
package share

import (
	"encoding/base64"
	stderrors "errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/fmt-playground/errors"
)

// Query parameter names.
const (
	ParamVersion  = "version"
	ParamSource   = "source"
	ParamSettings = "settings"
)

// State is the shareable part of a session.
type State struct {
	Source   string `json:"source"`
	Settings string `json:"settings"`
	Version  string `json:"version"`
}

// Present reports which parameters a URL carried.
type Present struct {
	Source   bool `json:"source"`
	Settings bool `json:"settings"`
	Version  bool `json:"version"`
}

// Any reports whether at least one parameter was present.
func (p Present) Any() bool {
	return p.Source || p.Settings || p.Version
}

// Codec converts between State and URLs.
type Codec struct{}

// Encode returns a copy of base with the state parameters set. Other
// parameters are kept.
func (Codec) Encode(base *url.URL, s State) *url.URL {
	u := *base
	if base.User != nil {
		user := *base.User
		u.User = &user
	}

	q := u.Query()
	q.Set(ParamVersion, encode(s.Version))
	q.Set(ParamSource, encode(s.Source))
	q.Set(ParamSettings, encode(s.Settings))
	u.RawQuery = q.Encode()
	return &u
}

// Decode reads the state parameters of u. Parameters that fail to decode are
// reported in the error and left out of the returned Present.
func (Codec) Decode(u *url.URL) (State, Present, error) {
	var (
		s    State
		p    Present
		errs []error
	)
	q := u.Query()

	field := func(name string, dst *string, present *bool) {
		values, ok := q[name]
		if !ok || len(values) == 0 {
			return
		}
		v, err := decode(values[0])
		if err != nil {
			errs = append(errs, errors.New(errors.PhaseShare, errors.KindInvalidData).
				Path(name).
				Detail("parameter is not base64").
				Cause(err).
				Build())
			return
		}
		*dst, *present = v, true
	}

	field(ParamVersion, &s.Version, &p.Version)
	field(ParamSource, &s.Source, &p.Source)
	field(ParamSettings, &s.Settings, &p.Settings)

	return s, p, stderrors.Join(errs...)
}

func encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

var (
	encodings = []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	legacyEncodings = []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
)

func decode(v string) (string, error) {
	// An unescaped '+' in a query string reads back as a space.
	v = strings.ReplaceAll(v, " ", "+")

	if isLegacy(v) {
		b, err := decodeAny(v, legacyEncodings)
		if err != nil {
			return "", err
		}
		return latin1(b), nil
	}

	b, err := decodeAny(v, encodings)
	if err != nil {
		return "", err
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	return latin1(b), nil
}

// isLegacy reports whether v is in the standard alphabet, which only btoa
// links use.
func isLegacy(v string) bool {
	if strings.ContainsAny(v, "+/") {
		return true
	}
	return strings.HasSuffix(v, "=") && !strings.ContainsAny(v, "-_")
}

func decodeAny(v string, encs []*base64.Encoding) ([]byte, error) {
	var firstErr error
	for _, enc := range encs {
		b, err := enc.DecodeString(v)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// latin1 maps every byte to the code point of the same value, undoing btoa
// on a string that had characters above U+007F.
func latin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
