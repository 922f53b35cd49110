package types

import (
	"time"
)

type (
	StorageCredentials struct {
		Endpoint, SecretID, SecretKey, Region, Bucket string
	}

	// Object is a stored backup as reported by the bucket listing.
	Object struct {
		Key          string
		Size         int64
		ETag         string
		LastModified time.Time
	}

	UploadResult struct {
		Bucket string
		Key    string
		ETag   string
		Size   int64
	}

	FailedDelete struct {
		Object Object
		Err    error
	}

	PruneResult struct {
		Deleted   []Object
		Failed    []FailedDelete
		Remaining int
	}

	Status struct {
		Bucket    string
		Region    string
		Endpoint  string
		Prefix    string
		Objects   int
		TotalSize int64
		Retention int
	}
)
