package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"farmgate/internal/database/postgresql"
	"farmgate/internal/errors"
	"farmgate/internal/storage"

	"github.com/google/uuid"
)

// MaxImageSize caps a single listing photo. Most phone cameras in the field
// produce 2-4MB JPEGs; anything over this is almost always a raw or a video.
const MaxImageSize = 5 << 20

const presignExpiry = time.Hour

// allowedImageTypes maps accepted MIME types to the extension stored objects
// get, regardless of what the browser called the file.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadFile is one file pulled out of the multipart form.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadedImage struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	URL      string `json:"url"`
}

type FileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResult reports per-file outcomes; a batch with failures is still a
// success for the files that made it.
type UploadResult struct {
	Uploaded []UploadedImage `json:"uploaded"`
	Errors   []FileError     `json:"errors"`
}

type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	ListingType string `json:"listing_type"`
}

type PresignResponse struct {
	UploadURL string            `json:"uploadUrl"`
	FormData  map[string]string `json:"fields"`
	Key       string            `json:"key"`
}

type UploadsService interface {
	UploadListingImages(ctx context.Context, userID, listingType string, files []UploadFile) (*UploadResult, error)
	PresignUpload(ctx context.Context, userID string, req PresignRequest) (*PresignResponse, error)
}

type service struct {
	storage       storage.Provider
	publicBaseURL string
	logger        *slog.Logger
}

func NewUploadsService(provider storage.Provider, publicBaseURL string, logger *slog.Logger) UploadsService {
	return &service{
		storage:       provider,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}
}

const bucket = storage.BucketListingImages

func validateFile(f UploadFile) (ext string, err *errors.AppError) {
	ext, ok := allowedImageTypes[f.ContentType]
	if !ok {
		return "", errors.New(errors.ErrInvalidInput,
			fmt.Sprintf("File type '%s' is not allowed; images must be JPEG, PNG, WebP or GIF", f.ContentType), nil)
	}
	if f.Size > MaxImageSize {
		return "", errors.New(errors.ErrInvalidInput,
			fmt.Sprintf("File exceeds the %dMB limit", MaxImageSize>>20), nil)
	}
	return ext, nil
}

func storageKey(listingType, userID, ext string) string {
	return path.Join("listings", listingType, userID, uuid.NewString()+ext)
}

// UploadListingImages streams each file into the public image bucket. Files
// are validated independently; one oversized photo never sinks the batch.
func (s *service) UploadListingImages(ctx context.Context, userID, listingType string, files []UploadFile) (*UploadResult, error) {
	if !postgresql.ListingType(listingType).Valid() {
		return nil, errors.New(errors.ErrInvalidInput, "Type must be 'land', 'produce' or 'service'", nil)
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "No files were provided", nil)
	}

	result := &UploadResult{
		Uploaded: []UploadedImage{},
		Errors:   []FileError{},
	}

	for _, f := range files {
		ext, appErr := validateFile(f)
		if appErr != nil {
			result.Errors = append(result.Errors, FileError{Filename: f.Filename, Error: appErr.Message})
			continue
		}

		key := storageKey(listingType, userID, ext)

		if err := s.storage.Put(ctx, bucket, key, f.Reader, f.Size, f.ContentType); err != nil {
			s.logger.ErrorContext(ctx, "Image upload failed", "key", key, "error", err)
			result.Errors = append(result.Errors, FileError{Filename: f.Filename, Error: "Upload failed. Please try again."})
			continue
		}

		result.Uploaded = append(result.Uploaded, UploadedImage{
			Filename: f.Filename,
			Key:      key,
			URL:      s.publicBaseURL + "/" + string(bucket) + "/" + key,
		})
	}

	return result, nil
}

// PresignUpload hands the browser a constrained POST policy so large photos
// can go straight to storage without passing through the API.
func (s *service) PresignUpload(ctx context.Context, userID string, req PresignRequest) (*PresignResponse, error) {
	if !postgresql.ListingType(req.ListingType).Valid() {
		return nil, errors.New(errors.ErrInvalidInput, "listing_type must be 'land', 'produce' or 'service'", nil)
	}

	mimeType := req.ContentType
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		// Fall back to the filename extension for clients that send
		// application/octet-stream.
		byExt := strings.ToLower(filepath.Ext(req.Filename))
		for mt, e := range allowedImageTypes {
			if e == byExt || (byExt == ".jpeg" && e == ".jpg") {
				mimeType, ext, ok = mt, e, true
				break
			}
		}
	}
	if !ok {
		return nil, errors.New(errors.ErrInvalidInput,
			fmt.Sprintf("File type '%s' is not allowed; images must be JPEG, PNG, WebP or GIF", req.ContentType), nil)
	}

	key := storageKey(req.ListingType, userID, ext)

	url, formData, err := s.storage.GenerateUploadURL(ctx, storage.UploadConfig{
		Bucket:      bucket,
		Key:         key,
		ContentType: mimeType,
		MaxFileSize: MaxImageSize,
		Expiry:      presignExpiry,
	})
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Failed to generate upload signature", err)
	}

	return &PresignResponse{
		UploadURL: url,
		FormData:  formData,
		Key:       key,
	}, nil
}
