package uploads

import (
	"net/http"

	"farmgate/internal/auth"
	"farmgate/internal/errors"
	"farmgate/internal/json"
)

// maxUploadMemory bounds how much of the multipart form stays in memory;
// larger files spill to temp files.
const maxUploadMemory = 10 << 20

type UploadsHandler struct {
	svc UploadsService
}

func NewUploadsHandler(svc UploadsService) *UploadsHandler {
	return &UploadsHandler{
		svc: svc,
	}
}

func (h *UploadsHandler) UploadListingImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Request must be multipart/form-data", err))
		return
	}

	listingType := r.FormValue("type")

	headers := r.MultipartForm.File["images"]
	files := make([]UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Unreadable file in upload", err))
			return
		}
		defer f.Close()

		files = append(files, UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	result, err := h.svc.UploadListingImages(ctx, userID, listingType, files)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	status := http.StatusCreated
	if len(result.Uploaded) == 0 {
		// Nothing made it; the per-file errors explain why.
		status = http.StatusBadRequest
	}
	json.Write(w, status, result)
}

func (h *UploadsHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	presignRequest := PresignRequest{}
	if err := json.Read(r, &presignRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.svc.PresignUpload(ctx, userID, presignRequest)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, response)
}
