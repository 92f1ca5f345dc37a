package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ Provider = (*MinioProvider)(nil)

type MinioProvider struct {
	client *minio.Client
}

// NewMinioProvider initializes the MinIO client. Pass useSSL=true outside of
// local compose setups.
func NewMinioProvider(endpoint, accessKeyID, secretAccessKey string, useSSL bool) (Provider, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioProvider{client: client}, nil
}

func (m *MinioProvider) Put(ctx context.Context, bucket Bucket, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, string(bucket), key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return mapMinioError(err)
	}
	return nil
}

// GenerateUploadURL builds a POST policy constrained on bucket, key, expiry,
// size range and content type, so a leaked URL can only upload the one object
// it was minted for.
func (m *MinioProvider) GenerateUploadURL(ctx context.Context, cfg UploadConfig) (string, map[string]string, error) {
	policy := minio.NewPostPolicy()

	if err := policy.SetBucket(string(cfg.Bucket)); err != nil {
		return "", nil, fmt.Errorf("failed to set bucket: %w", err)
	}
	if err := policy.SetKey(cfg.Key); err != nil {
		return "", nil, fmt.Errorf("failed to set key: %w", err)
	}
	if err := policy.SetExpires(time.Now().Add(cfg.Expiry).UTC()); err != nil {
		return "", nil, fmt.Errorf("failed to set expiry: %w", err)
	}
	// Min 1KB keeps empty-file spam out; max comes from the per-type constraint.
	if err := policy.SetContentLengthRange(1024, cfg.MaxFileSize); err != nil {
		return "", nil, fmt.Errorf("failed to set size limit: %w", err)
	}
	if err := policy.SetContentType(cfg.ContentType); err != nil {
		return "", nil, fmt.Errorf("failed to set content type: %w", err)
	}

	url, formData, err := m.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate post policy: %w", err)
	}

	// The client needs both the URL and every form field (policy, signature)
	// to assemble the multipart POST.
	return url.String(), formData, nil
}

func (m *MinioProvider) PresignGet(ctx context.Context, bucket Bucket, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, string(bucket), key, expiry, nil)
	if err != nil {
		return "", mapMinioError(err)
	}
	return u.String(), nil
}

func (m *MinioProvider) Copy(ctx context.Context, srcBucket Bucket, srcKey string, destBucket Bucket, destKey string) error {
	srcOpts := minio.CopySrcOptions{Bucket: string(srcBucket), Object: srcKey}
	destOpts := minio.CopyDestOptions{Bucket: string(destBucket), Object: destKey}

	if _, err := m.client.CopyObject(ctx, destOpts, srcOpts); err != nil {
		return mapMinioError(err)
	}
	return nil
}

func (m *MinioProvider) Delete(ctx context.Context, bucket Bucket, key string) error {
	opts := minio.RemoveObjectOptions{GovernanceBypass: true}
	if err := m.client.RemoveObject(ctx, string(bucket), key, opts); err != nil {
		return mapMinioError(err)
	}
	return nil
}

func (m *MinioProvider) Get(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, string(bucket), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(err)
	}

	// GetObject is lazy; Stat forces an existence check before we hand the
	// stream to the caller.
	if _, err := obj.Stat(); err != nil {
		return nil, mapMinioError(err)
	}
	return obj, nil
}

// mapMinioError translates SDK errors into the package-level sentinels.
func mapMinioError(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)
	switch errResp.Code {
	case "NoSuchKey":
		return ErrNotFound
	case "AccessDenied":
		return ErrAccessDenied
	}
	if errResp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if errResp.StatusCode == http.StatusForbidden {
		return ErrAccessDenied
	}

	return fmt.Errorf("storage provider error: %w", err)
}
