package labor

import (
	"net/http"

	"farmgate/internal/auth"
	"farmgate/internal/errors"
	"farmgate/internal/json"

	"github.com/go-chi/chi/v5"
)

type LaborHandler struct {
	store *Store
}

func NewLaborHandler(store *Store) *LaborHandler {
	return &LaborHandler{
		store: store,
	}
}

func (h *LaborHandler) ListLaborers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	laborers := h.store.ListLaborers(q.Get("skill"), q.Get("location"))
	json.Write(w, http.StatusOK, laborers)
}

func (h *LaborHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, h.store.ListGroups())
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *LaborHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	req := createGroupRequest{}
	if err := json.Read(r, &req); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected. Please contact support if this error persists.", err))
		return
	}

	group, err := h.store.CreateGroup(userID, req.Name, req.Description)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, group)
}

func (h *LaborHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	group, err := h.store.JoinGroup(chi.URLParam(r, "id"), userID)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, group)
}

type bookingRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

func (h *LaborHandler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	req := bookingRequest{}
	if err := json.Read(r, &req); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected. Please contact support if this error persists.", err))
		return
	}

	booking, err := h.store.RequestBooking(chi.URLParam(r, "id"), userID, req.Date, req.Notes)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusCreated, booking)
}

func (h *LaborHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	json.Write(w, http.StatusOK, h.store.BookingsForUser(userID))
}
