package registry

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/wippyai/fmt-playground/errors"
)

// Asset names.
const (
	ManifestName     = "versions.json"
	SampleIndexName  = "examples/index.json"
	DefaultSample    = "simple.pas"
	samplesDir       = "examples/"
	moduleFileSuffix = "/engine.wasm"
)

// ModulePath returns the asset path of a version's engine module.
func ModulePath(version string) string {
	return "pkg/" + version + moduleFileSuffix
}

// SamplePath returns the asset path of a sample.
func SamplePath(name string) string {
	return samplesDir + name
}

// ParseManifest reads a JSON array of non-empty strings, preserving order.
func ParseManifest(name string, data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidData(errors.PhaseManifest, name, "not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.InvalidData(errors.PhaseManifest, name, "expected a JSON array of strings")
	}

	var (
		out     []string
		invalid error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String || value.Str == "" {
			invalid = errors.New(errors.PhaseManifest, errors.KindInvalidData).
				Path(name).
				Value(value.Raw).
				Detail("entry %d is not a non-empty string", key.Int()).
				Build()
			return false
		}
		out = append(out, value.Str)
		return true
	})
	if invalid != nil {
		return nil, invalid
	}
	if len(out) == 0 {
		return nil, errors.InvalidData(errors.PhaseManifest, name, "no entries")
	}
	return out, nil
}

// Manifest lists versions from a source's versions.json.
type Manifest struct {
	source Source
}

// NewManifest creates a manifest reader over source.
func NewManifest(source Source) *Manifest {
	return &Manifest{source: source}
}

// Versions fetches and parses the version list.
func (m *Manifest) Versions(ctx context.Context) ([]string, error) {
	data, err := m.source.Fetch(ctx, ManifestName)
	if err != nil {
		return nil, errors.New(errors.PhaseManifest, errors.KindUnavailable).
			Path(ManifestName).
			Detail("failed to fetch version list").
			Cause(err).
			Build()
	}
	return ParseManifest(ManifestName, data)
}
