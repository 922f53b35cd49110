package storage

import (
	"context"
	"cosbackup/internal/types"
	"errors"
)

var ErrBucketNotFound = errors.New("bucket not found")

type (
	Storage interface {
		// Upload copies the file at localPath to key. Large files are sent in parts.
		Upload(ctx context.Context, key, localPath string) (types.UploadResult, error)
		// List returns every object under prefix, directory markers included.
		List(ctx context.Context, prefix string) ([]types.Object, error)
		Delete(ctx context.Context, key string) error
		// Ping checks that the bucket is reachable. It returns ErrBucketNotFound when the bucket does not exist.
		Ping(ctx context.Context) error
	}
)
