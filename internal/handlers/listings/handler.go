package listings

import (
	"log/slog"
	"net/http"
	"strconv"

	"farmgate/internal/auth"
	"farmgate/internal/errors"
	"farmgate/internal/json"

	"github.com/go-chi/chi/v5"
)

type ListingsHandler struct {
	service ListingsService
}

func NewListingsHandler(svc ListingsService) *ListingsHandler {
	return &ListingsHandler{
		service: svc,
	}
}

func optionsFromQuery(r *http.Request) GetListingsOptions {
	q := r.URL.Query()

	opts := GetListingsOptions{
		Type:     q.Get("type"),
		Status:   q.Get("status"),
		District: q.Get("district"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sort_by"),
	}

	if q.Get("order") == "asc" {
		opts.Ascending = true
	}
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil {
		opts.Limit = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("offset"), 10, 32); err == nil {
		opts.Offset = int32(v)
	}

	return opts
}

func (h *ListingsHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	listings, err := h.service.GetListings(ctx, optionsFromQuery(r))
	if err != nil {
		slog.WarnContext(ctx, "Failed to fetch listings", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listings)
}

func (h *ListingsHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	keyword := q.Get("q")
	if keyword == "" {
		keyword = q.Get("search")
	}

	listings, err := h.service.SearchListings(ctx, keyword, optionsFromQuery(r))
	if err != nil {
		slog.WarnContext(ctx, "Failed to search listings", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listings)
}

func (h *ListingsHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		slog.WarnContext(ctx, "Missing listing ID in request")
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Listing ID is required", nil))
		return
	}

	slog.DebugContext(ctx, "Fetching listing by ID", "listing_id", listingID)

	listing, err := h.service.GetListingByID(ctx, listingID, r.URL.Query().Get("type"))
	if err != nil {
		slog.WarnContext(ctx, "Failed to fetch listing by ID", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listing)
}

func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	slog.DebugContext(ctx, "Creating listing", "user_id", userInfo.ID)

	createListingRequest := CreateListingRequest{}
	if err := json.Read(r, &createListingRequest); err != nil {
		slog.WarnContext(ctx, "Invalid request body", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected. Please contact support if this error persists.", err))
		return
	}

	listing, err := h.service.CreateListing(ctx, userInfo, &createListingRequest)
	if err != nil {
		slog.WarnContext(ctx, "Failed to create listing", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, listing)
}

func (h *ListingsHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")
	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	slog.DebugContext(ctx, "Updating listing", "user_id", userInfo.ID, "listing_id", listingID)

	updateListingRequest := UpdateListingRequest{}
	if err := json.Read(r, &updateListingRequest); err != nil {
		slog.WarnContext(ctx, "Invalid request body", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected. Please contact support if this error persists.", err))
		return
	}

	listing, err := h.service.UpdateListing(ctx, userInfo, listingID, &updateListingRequest)
	if err != nil {
		slog.WarnContext(ctx, "Failed to update listing", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listing)
}

func (h *ListingsHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")
	if listingID == "" {
		slog.WarnContext(ctx, "Missing listing ID in request")
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Listing ID is required", nil))
		return
	}

	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	slog.DebugContext(ctx, "Deleting listing", "user_id", userInfo.ID, "listing_id", listingID)

	if err := h.service.DeleteListing(ctx, userInfo, listingID); err != nil {
		slog.WarnContext(ctx, "Failed to delete listing", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *ListingsHandler) ChangeListingStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")
	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	req := changeStatusRequest{}
	if err := json.Read(r, &req); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected. Please contact support if this error persists.", err))
		return
	}

	if err := h.service.ChangeListingStatus(ctx, userInfo, listingID, req.Status); err != nil {
		slog.WarnContext(ctx, "Failed to change listing status", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *ListingsHandler) IncrementListingView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")

	count, err := h.service.IncrementListingView(ctx, listingID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to record listing view", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]int32{"view_count": count})
}

func (h *ListingsHandler) SaveListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")
	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	if err := h.service.SaveListing(ctx, userInfo, listingID); err != nil {
		slog.WarnContext(ctx, "Failed to save listing", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, map[string]string{"listing_id": listingID})
}

func (h *ListingsHandler) UnsaveListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID := chi.URLParam(r, "id")
	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	if err := h.service.UnsaveListing(ctx, userInfo, listingID); err != nil {
		slog.WarnContext(ctx, "Failed to unsave listing", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingsHandler) GetSavedListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userInfo, err := auth.GetUserInfo(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Unauthorized access attempt", "error", err)
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	slog.DebugContext(ctx, "Fetching saved listings", "user_id", userInfo.ID)

	q := r.URL.Query()
	opts := SavedListingsOptions{
		Search:    q.Get("q"),
		SaleType:  q.Get("sale_type"),
		SortBy:    q.Get("sort_by"),
		Ascending: q.Get("order") == "asc",
	}

	listings, err := h.service.GetSavedListings(ctx, userInfo, opts)
	if err != nil {
		slog.WarnContext(ctx, "Failed to fetch saved listings", "error", err)
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, listings)
}
