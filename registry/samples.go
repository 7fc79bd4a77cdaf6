package registry

import (
	"context"
	stderrors "errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wippyai/fmt-playground/errors"
)

// Samples serves example sources from a Source.
type Samples struct {
	source Source
}

// NewSamples creates a sample store over source.
func NewSamples(source Source) *Samples {
	return &Samples{source: source}
}

// List returns the sample names from examples/index.json, or just the
// default sample when the source has no index.
func (s *Samples) List(ctx context.Context) ([]string, error) {
	data, err := s.source.Fetch(ctx, SampleIndexName)
	if err != nil {
		if stderrors.Is(err, ErrAssetNotFound) {
			return []string{DefaultSample}, nil
		}
		return nil, err
	}
	return ParseManifest(SampleIndexName, data)
}

// Fetch returns the text of a sample. name may carry the "examples/" prefix.
func (s *Samples) Fetch(ctx context.Context, name string) (string, error) {
	ctx, span := tracer().Start(ctx, "registry.FetchSample")
	defer span.End()

	name = strings.TrimPrefix(name, samplesDir)
	span.SetAttributes(attribute.String("fmtplay.sample", name))

	data, err := s.source.Fetch(ctx, SamplePath(name))
	if err != nil {
		err = errors.Wrap(errors.PhaseSample, errors.KindUnavailable, err, "failed to load sample "+name)
		recordError(span, err)
		return "", err
	}
	return string(data), nil
}
