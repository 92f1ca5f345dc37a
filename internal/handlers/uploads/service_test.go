package uploads

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "farmgate/internal/errors"
	"farmgate/internal/storage"
	"farmgate/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records Put calls and can be told to fail specific keys.
type fakeProvider struct {
	puts     map[string]string // key -> content type
	failPuts bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{puts: map[string]string{}}
}

func (f *fakeProvider) Put(_ context.Context, _ storage.Bucket, key string, r io.Reader, _ int64, contentType string) error {
	if f.failPuts {
		return storage.ErrUploadFailed
	}
	io.Copy(io.Discard, r)
	f.puts[key] = contentType
	return nil
}

func (f *fakeProvider) GenerateUploadURL(_ context.Context, cfg storage.UploadConfig) (string, map[string]string, error) {
	return "https://minio.test/" + string(cfg.Bucket), map[string]string{"key": cfg.Key}, nil
}

func (f *fakeProvider) PresignGet(context.Context, storage.Bucket, string, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeProvider) Copy(context.Context, storage.Bucket, string, storage.Bucket, string) error {
	return nil
}

func (f *fakeProvider) Delete(context.Context, storage.Bucket, string) error {
	return nil
}

func (f *fakeProvider) Get(context.Context, storage.Bucket, string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

const testUserID = "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11"

func file(name, contentType string, size int64) UploadFile {
	return UploadFile{
		Filename:    name,
		ContentType: contentType,
		Size:        size,
		Reader:      strings.NewReader("not-really-image-bytes"),
	}
}

func TestUploadListingImages_MixedBatch(t *testing.T) {
	provider := newFakeProvider()
	svc := NewUploadsService(provider, "https://files.farmgate.ug/", testutil.NewTestLogger())

	files := []UploadFile{
		file("cow-pasture.jpg", "image/jpeg", 2<<20),
		file("plot-survey.pdf", "application/pdf", 1<<20),
		file("huge-panorama.png", "image/png", 9<<20),
		file("borehole.webp", "image/webp", 500<<10),
	}

	result, err := svc.UploadListingImages(context.Background(), testUserID, "land", files)
	require.NoError(t, err)

	// Two good files made it, two were rejected for their own reasons.
	require.Len(t, result.Uploaded, 2)
	require.Len(t, result.Errors, 2)

	assert.Equal(t, "cow-pasture.jpg", result.Uploaded[0].Filename)
	assert.Equal(t, "borehole.webp", result.Uploaded[1].Filename)

	for _, u := range result.Uploaded {
		assert.True(t, strings.HasPrefix(u.Key, "listings/land/"+testUserID+"/"), "key %q", u.Key)
		assert.True(t, strings.HasPrefix(u.URL, "https://files.farmgate.ug/listing-images/listings/land/"), "url %q", u.URL)
	}

	assert.Equal(t, "plot-survey.pdf", result.Errors[0].Filename)
	assert.Contains(t, result.Errors[0].Error, "not allowed")
	assert.Equal(t, "huge-panorama.png", result.Errors[1].Filename)
	assert.Contains(t, result.Errors[1].Error, "5MB limit")

	assert.Len(t, provider.puts, 2)
}

func TestUploadListingImages_StorageFailureIsPerFile(t *testing.T) {
	provider := newFakeProvider()
	provider.failPuts = true
	svc := NewUploadsService(provider, "https://files.farmgate.ug", testutil.NewTestLogger())

	result, err := svc.UploadListingImages(context.Background(), testUserID, "produce",
		[]UploadFile{file("maize.jpg", "image/jpeg", 1<<20)})

	require.NoError(t, err)
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "maize.jpg", result.Errors[0].Filename)
}

func TestUploadListingImages_RejectsBadRequests(t *testing.T) {
	svc := NewUploadsService(newFakeProvider(), "https://files.farmgate.ug", testutil.NewTestLogger())

	t.Run("unknown listing type", func(t *testing.T) {
		_, err := svc.UploadListingImages(context.Background(), testUserID, "vehicles",
			[]UploadFile{file("car.jpg", "image/jpeg", 100)})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := svc.UploadListingImages(context.Background(), testUserID, "land", nil)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})
}

func TestPresignUpload(t *testing.T) {
	svc := NewUploadsService(newFakeProvider(), "https://files.farmgate.ug", testutil.NewTestLogger())

	t.Run("happy path", func(t *testing.T) {
		resp, err := svc.PresignUpload(context.Background(), testUserID, PresignRequest{
			Filename:    "field.jpg",
			ContentType: "image/jpeg",
			ListingType: "land",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://minio.test/listing-images", resp.UploadURL)
		assert.True(t, strings.HasSuffix(resp.Key, ".jpg"))
		assert.Equal(t, resp.Key, resp.FormData["key"])
	})

	t.Run("extension fallback for octet-stream", func(t *testing.T) {
		resp, err := svc.PresignUpload(context.Background(), testUserID, PresignRequest{
			Filename:    "field.png",
			ContentType: "application/octet-stream",
			ListingType: "land",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	})

	t.Run("rejects non-image", func(t *testing.T) {
		_, err := svc.PresignUpload(context.Background(), testUserID, PresignRequest{
			Filename:    "notes.txt",
			ContentType: "text/plain",
			ListingType: "land",
		})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	})
}
