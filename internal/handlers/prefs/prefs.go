package prefs

import (
	"context"
	"log/slog"
	"net/http"

	"farmgate/internal/auth"
	"farmgate/internal/cache"
	"farmgate/internal/errors"
	"farmgate/internal/json"
)

// Preferences are the per-user display settings the web client applies on
// load. They live in Redis without a TTL; losing them is a cosmetic reset,
// not data loss.
type Preferences struct {
	Language   string `json:"language"`
	DateFormat string `json:"date_format"`
	TimeFormat string `json:"time_format"`
	Theme      string `json:"theme"`
}

func Defaults() Preferences {
	return Preferences{
		Language:   "en",
		DateFormat: "DD/MM/YYYY",
		TimeFormat: "24h",
		Theme:      "light",
	}
}

var validThemes = map[string]bool{"light": true, "dark": true}
var validTimeFormats = map[string]bool{"12h": true, "24h": true}

func (p Preferences) validate() *errors.AppError {
	if p.Theme != "" && !validThemes[p.Theme] {
		return errors.New(errors.ErrInvalidInput, "Theme must be 'light' or 'dark'", nil)
	}
	if p.TimeFormat != "" && !validTimeFormats[p.TimeFormat] {
		return errors.New(errors.ErrInvalidInput, "time_format must be '12h' or '24h'", nil)
	}
	return nil
}

// merge fills blanks in an update from what is already stored, so a client
// can PUT just {"theme": "dark"} without clobbering its language choice.
func merge(current, update Preferences) Preferences {
	if update.Language == "" {
		update.Language = current.Language
	}
	if update.DateFormat == "" {
		update.DateFormat = current.DateFormat
	}
	if update.TimeFormat == "" {
		update.TimeFormat = current.TimeFormat
	}
	if update.Theme == "" {
		update.Theme = current.Theme
	}
	return update
}

func prefsKey(userID string) string {
	return "prefs:" + userID
}

type PrefsStore interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Put(ctx context.Context, userID string, p Preferences) (Preferences, error)
}

type redisStore struct {
	cache  *cache.RedisClient
	logger *slog.Logger
}

func NewRedisStore(c *cache.RedisClient, logger *slog.Logger) PrefsStore {
	return &redisStore{cache: c, logger: logger}
}

func (s *redisStore) Get(ctx context.Context, userID string) (Preferences, error) {
	stored, found, err := cache.Get[Preferences](s.cache, ctx, prefsKey(userID))
	if err != nil {
		return Preferences{}, errors.New(errors.ErrInternal, "Unable to load preferences", err)
	}
	if !found {
		return Defaults(), nil
	}
	return merge(Defaults(), *stored), nil
}

func (s *redisStore) Put(ctx context.Context, userID string, p Preferences) (Preferences, error) {
	if appErr := p.validate(); appErr != nil {
		return Preferences{}, appErr
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}

	merged := merge(current, p)

	// TTL 0: preferences don't expire.
	if err := cache.Set(s.cache, ctx, prefsKey(userID), merged, 0); err != nil {
		return Preferences{}, errors.New(errors.ErrInternal, "Unable to save preferences", err)
	}
	return merged, nil
}

type PrefsHandler struct {
	store PrefsStore
}

func NewPrefsHandler(store PrefsStore) *PrefsHandler {
	return &PrefsHandler{
		store: store,
	}
}

func (h *PrefsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	prefs, err := h.store.Get(ctx, userID)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, prefs)
}

func (h *PrefsHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrUnauthorized, "Unauthorized access", err))
		return
	}

	update := Preferences{}
	if err := json.Read(r, &update); err != nil {
		errors.RespondError(w, r, errors.New(errors.ErrInvalidInput, "Input provided was not in the format expected. Please contact support if this error persists.", err))
		return
	}

	saved, err := h.store.Put(ctx, userID, update)
	if err != nil {
		errors.RespondError(w, r, err)
		return
	}

	json.Write(w, http.StatusOK, saved)
}
