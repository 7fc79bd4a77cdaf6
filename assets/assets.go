// Package assets serves playground assets over HTTP and carries the assets
// that ship with the binary.
//
// Routes mirror the asset layout read by the registry package, so a Server
// backed by any registry.Source can itself be used as an HTTP source:
//
//	GET /versions.json
//	GET /pkg/{version}/engine.wasm
//	GET /examples/{name}
//	GET /share          share parameters decoded to JSON
//	GET /healthz
//	GET /metrics
package assets

import (
	"context"
	"embed"
	"io/fs"

	"github.com/tidwall/sjson"

	"github.com/wippyai/fmt-playground/builtin"
	"github.com/wippyai/fmt-playground/registry"
)

//go:embed examples/*.pas examples/index.json
var embedded embed.FS

// Examples returns the embedded samples, laid out as examples/<name>.
func Examples() fs.FS {
	return embedded
}

// BuiltinSource serves the builtin catalog's manifest and the embedded
// samples. It has no engine modules; builtin engines are loaded in process.
type BuiltinSource struct {
	manifest []byte
	files    *registry.FSSource
}

var _ registry.Source = (*BuiltinSource)(nil)

// NewBuiltinSource creates a source for catalog.
func NewBuiltinSource(catalog *builtin.Catalog) (*BuiltinSource, error) {
	versions, err := catalog.Versions(context.Background())
	if err != nil {
		return nil, err
	}

	manifest := []byte("[]")
	for _, v := range versions {
		if manifest, err = sjson.SetBytes(manifest, "-1", v); err != nil {
			return nil, err
		}
	}
	return &BuiltinSource{
		manifest: manifest,
		files:    registry.NewFSSource(embedded),
	}, nil
}

// Fetch returns the manifest or an embedded sample.
func (s *BuiltinSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name == registry.ManifestName {
		return append([]byte(nil), s.manifest...), nil
	}
	return s.files.Fetch(ctx, name)
}
