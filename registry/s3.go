package registry

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wippyai/fmt-playground/errors"
)

// S3API is the part of the S3 client the source uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads assets from a bucket under a key prefix.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// S3Config configures an anonymous S3 client for public asset buckets.
type S3Config struct {
	Region string

	// Endpoint overrides the service endpoint, for S3 compatible stores.
	// Path-style addressing is used when it is set.
	Endpoint string
}

// NewS3Source creates a source over bucket/prefix using client.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client creates a client with anonymous credentials.
func NewS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// ParseS3URL splits s3://bucket/prefix.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3://bucket/prefix URL: %q", raw)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// Fetch reads the object at prefix+name.
func (s *S3Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, notFound(name)
		}
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxAssetSize+1))
	if err != nil {
		return nil, errors.Unavailable(errors.PhaseFetch, name, err)
	}
	if len(data) > maxAssetSize {
		return nil, errors.InvalidData(errors.PhaseFetch, name, "asset exceeds size limit")
	}
	return data, nil
}
