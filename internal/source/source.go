package source

import (
	"context"
	"errors"
	"io"
	"strings"
)

var ErrInvalidLocation = errors.New("invalid source location")

// Source is where the orders workbook lives. Version changes whenever the
// underlying content may have changed.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Version(ctx context.Context) (string, error)
	String() string
}

// New picks a Source implementation for location: s3://bucket/key or a file path.
func New(ctx context.Context, location, awsRegion string) (Source, error) {
	if strings.HasPrefix(location, "s3://") {
		bucket, key, err := ParseS3URL(location)
		if err != nil {
			return nil, err
		}
		return NewS3Source(ctx, awsRegion, bucket, key)
	}
	if location == "" {
		return nil, ErrInvalidLocation
	}
	return NewFileSource(location), nil
}
