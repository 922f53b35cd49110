package storage

import (
	"context"
	"cosbackup/internal/types"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"strings"
)

type objectStorage struct {
	client *minio.Client
	bucket string
}

// NewObjectStorage builds an S3 compatible client for the bucket described by cred.
func NewObjectStorage(cred types.StorageCredentials) (Storage, error) {
	host, secure := ResolveEndpoint(cred.Region, cred.Endpoint)

	// COS only serves virtual hosted buckets on its own domains
	lookup := minio.BucketLookupAuto
	if strings.HasSuffix(host, ".myqcloud.com") {
		lookup = minio.BucketLookupDNS
	}

	mn, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cred.SecretID, cred.SecretKey, ""),
		Secure:       secure,
		Region:       cred.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage client for "+host)
	}
	return &objectStorage{
		client: mn,
		bucket: cred.Bucket,
	}, nil
}

func (s objectStorage) Upload(ctx context.Context, key, localPath string) (types.UploadResult, error) {
	// FPutObject switches to multipart uploads on its own for large files
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		SendContentMd5: true,
	})
	if err != nil {
		return types.UploadResult{}, err
	}

	return types.UploadResult{
		Bucket: info.Bucket,
		Key:    info.Key,
		ETag:   info.ETag,
		Size:   info.Size,
	}, nil
}

func (s objectStorage) List(ctx context.Context, prefix string) ([]types.Object, error) {
	result := make([]types.Object, 0)
	for next := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if next.Err != nil {
			return nil, next.Err
		}
		result = append(result, types.Object{
			Key:          next.Key,
			Size:         next.Size,
			ETag:         next.ETag,
			LastModified: next.LastModified,
		})
	}
	return result, nil
}

func (s objectStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s objectStorage) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}

	if !exists {
		return errors.Wrap(ErrBucketNotFound, s.bucket)
	}
	return nil
}
