// Package store is the object-storage boundary: pre-fitted model artifacts
// and the expense datasets both live in buckets, one object per stable key.
package store

import (
	"context"
	"fmt"
	"strings"
)

// Store abstracts object storage so the pipeline can be exercised against an
// in-memory fake. All calls are synchronous and may fail; the core treats a
// failed artifact or dataset read as fatal for the invocation.
type Store interface {
	// Get downloads an object's bytes.
	Get(ctx context.Context, bucket, object string) ([]byte, error)

	// Put uploads an object, replacing any previous version.
	Put(ctx context.Context, bucket, object string, data []byte, contentType string) error
}

// ParseURI splits "gs://bucket/path/to/object" into bucket and object.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("ParseURI: invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("ParseURI: invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
