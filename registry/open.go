package registry

import (
	"os"
	"strings"

	"github.com/wippyai/fmt-playground/errors"
)

// OpenSource picks a source for an asset location:
//
//	http://..., https://...  HTTPSource
//	s3://bucket/prefix       S3Source with anonymous credentials
//	anything else            FSSource over the directory
//
// An empty location returns nil, meaning builtin engines and samples.
func OpenSource(location string, s3cfg S3Config) (Source, error) {
	switch {
	case location == "":
		return nil, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		src, err := NewHTTPSource(location)
		if err != nil {
			return nil, err
		}
		return src, nil
	case strings.HasPrefix(location, "s3://"):
		bucket, prefix, err := ParseS3URL(location)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path(location).
				Cause(err).
				Build()
		}
		return NewS3Source(NewS3Client(s3cfg), bucket, prefix), nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, errors.Unavailable(errors.PhaseConfig, location, err)
	}
	if !info.IsDir() {
		return nil, errors.InvalidInput(errors.PhaseConfig, "asset location "+location+" is not a directory")
	}
	return NewFSSource(os.DirFS(location)), nil
}
