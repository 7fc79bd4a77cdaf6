package registry

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/wippyai/fmt-playground/errors"
)

// maxAssetSize bounds a single fetched asset.
const maxAssetSize = 64 << 20

// ErrAssetNotFound matches errors for assets a source does not have.
var ErrAssetNotFound = &errors.Error{Phase: errors.PhaseFetch, Kind: errors.KindNotFound}

// Source fetches assets by slash-separated path relative to the asset root.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

func notFound(name string) *errors.Error {
	return errors.NotFound(errors.PhaseFetch, "asset", name)
}

func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || !fs.ValidPath(name) {
		return "", errors.InvalidInput(errors.PhaseFetch, fmt.Sprintf("invalid asset path %q", name))
	}
	return name, nil
}

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// NewHTTPSource creates a source for base, which must be an absolute
// http or https URL.
func NewHTTPSource(base string, opts ...HTTPOption) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("invalid asset URL %q", base).
			Cause(err).
			Build()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("asset URL %q is not http(s)", base))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	s := &HTTPSource{
		base:   u,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fetch performs a GET for name.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	target := s.base.ResolveReference(&url.URL{Path: name})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound(name)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.New(errors.PhaseFetch, errors.KindUnavailable).
			Path(name).
			Detail("unexpected status %s", resp.Status).
			Build()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}
	if len(data) > maxAssetSize {
		return nil, errors.InvalidData(errors.PhaseFetch, name, "asset exceeds size limit")
	}
	return data, nil
}

// FSSource reads assets from a file system, such as os.DirFS or an
// embedded tree.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch reads name from the file system.
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}

	data, err := fs.ReadFile(s.fsys, path.Clean(name))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}
	return data, nil
}
