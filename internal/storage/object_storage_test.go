package storage

import (
	"context"
	"cosbackup/internal/types"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>bucket-1</Name>
  <Prefix>backups/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>backups/</Key>
    <LastModified>2024-06-01T02:00:00.000Z</LastModified>
    <ETag>"d41d8cd98f00b204e9800998ecf8427e"</ETag>
    <Size>0</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
  <Contents>
    <Key>backups/db.sql</Key>
    <LastModified>2024-06-01T03:00:00.000Z</LastModified>
    <ETag>"9e107d9d372bb6826bd81d3542a419d6"</ETag>
    <Size>2048</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
</ListBucketResult>`

// s3Stub answers the handful of S3 calls the object storage makes, path style.
type s3Stub struct {
	mu       sync.Mutex
	buckets  map[string]bool
	uploaded map[string][]byte
	deleted  []string
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket, key := parts[0], ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if !s.buckets[bucket] {
		w.WriteHeader(http.StatusNotFound)
		if r.Method != http.MethodHead {
			_, _ = fmt.Fprintf(w, `<Error><Code>NoSuchBucket</Code><BucketName>%s</BucketName></Error>`, bucket)
		}
		return
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && key == "":
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, listResponse)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		s.uploaded[key] = body
		w.Header().Set("ETag", `"0cc175b9c0f1b6a831c399e269772661"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		s.deleted = append(s.deleted, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStubStorage(t *testing.T, bucket string) (Storage, *s3Stub) {
	t.Helper()
	stub := &s3Stub{
		buckets:  map[string]bool{"bucket-1": true},
		uploaded: map[string][]byte{},
	}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	st, err := NewObjectStorage(types.StorageCredentials{
		Endpoint:  srv.URL,
		SecretID:  "id",
		SecretKey: "key",
		Region:    "ap-guangzhou",
		Bucket:    bucket,
	})
	require.NoError(t, err)
	return st, stub
}

func TestObjectStorage_Ping(t *testing.T) {
	st, _ := newStubStorage(t, "bucket-1")
	assert.NoError(t, st.Ping(context.Background()))

	missing, _ := newStubStorage(t, "missing-1")
	assert.ErrorIs(t, missing.Ping(context.Background()), ErrBucketNotFound)
}

func TestObjectStorage_List(t *testing.T) {
	st, _ := newStubStorage(t, "bucket-1")

	objects, err := st.List(context.Background(), "backups/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "backups/", objects[0].Key)
	assert.Equal(t, "backups/db.sql", objects[1].Key)
	assert.Equal(t, int64(2048), objects[1].Size)
	assert.Equal(t, time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC), objects[1].LastModified.UTC())
}

func TestObjectStorage_UploadAndDelete(t *testing.T) {
	st, stub := newStubStorage(t, "bucket-1")
	path := filepath.Join(t.TempDir(), "db.sql")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0600))

	result, err := st.Upload(context.Background(), "backups/db.sql", path)
	require.NoError(t, err)
	assert.Equal(t, "0cc175b9c0f1b6a831c399e269772661", result.ETag)
	assert.Contains(t, stub.uploaded, "backups/db.sql")

	require.NoError(t, st.Delete(context.Background(), "backups/db.sql"))
	assert.Equal(t, []string{"backups/db.sql"}, stub.deleted)
}

func TestNewObjectStorage_DefaultEndpoint(t *testing.T) {
	st, err := NewObjectStorage(types.StorageCredentials{
		SecretID:  "id",
		SecretKey: "key",
		Region:    "ap-guangzhou",
		Bucket:    "bucket-1250000000",
	})
	require.NoError(t, err)
	assert.NotNil(t, st)
}
