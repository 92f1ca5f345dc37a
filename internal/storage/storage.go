package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Bucket names are typed so call sites can't mix up zones with loose strings.
type Bucket string

const (
	// BucketIncoming holds direct browser uploads awaiting validation.
	// Short retention; nothing in here is served.
	BucketIncoming Bucket = "incoming-files"

	// BucketListingImages is the public bucket listing photos are served from.
	BucketListingImages Bucket = "listing-images"
)

var (
	ErrNotFound     = errors.New("storage: file not found")
	ErrAccessDenied = errors.New("storage: access denied")
	ErrUploadFailed = errors.New("storage: upload failed")
)

type UploadConfig struct {
	Bucket      Bucket
	Key         string
	ContentType string
	MaxFileSize int64
	Expiry      time.Duration
}

// Provider abstracts MinIO/S3/GCS.
type Provider interface {
	// Put streams an object into a bucket. Used by the server-side image
	// upload path where the API receives the bytes itself.
	Put(ctx context.Context, bucket Bucket, key string, r io.Reader, size int64, contentType string) error

	// GenerateUploadURL creates a constrained POST policy for direct uploads.
	GenerateUploadURL(ctx context.Context, cfg UploadConfig) (string, map[string]string, error)

	// PresignGet generates a temporary download URL for private objects.
	PresignGet(ctx context.Context, bucket Bucket, key string, expiry time.Duration) (string, error)

	// Copy moves an object server-side, e.g. incoming -> listing-images.
	Copy(ctx context.Context, srcBucket Bucket, srcKey string, destBucket Bucket, destKey string) error

	Delete(ctx context.Context, bucket Bucket, key string) error

	// Get returns a stream, not a byte slice, so large objects never have to
	// fit in memory.
	Get(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error)
}
