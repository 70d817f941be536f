package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/wild-trails/internal/metrics"
	"github.com/jwebster45206/wild-trails/pkg/state"
	"github.com/jwebster45206/wild-trails/pkg/storage"
)

// ErrStorageCorrupt marks a persisted record that could not be decoded.
// Loads never return it; they log it and fall back to defaults.
var ErrStorageCorrupt = errors.New("storage record corrupt")

const (
	sessionKeyPrefix    = "session:"
	collectionKeyPrefix = "collection:"
)

// SessionKey and CollectionKey are the two independent records of a profile.
func SessionKey(profile uuid.UUID) string    { return sessionKeyPrefix + profile.String() }
func CollectionKey(profile uuid.UUID) string { return collectionKeyPrefix + profile.String() }

// sessionDoc mirrors state.SessionRecord with optional fields, so a record
// missing a field falls back to that field's default only.
type sessionDoc struct {
	Stamina   *int      `json:"stamina"`
	Currency  *int      `json:"currency"`
	Inventory []int     `json:"inventory"`
	SavedAt   time.Time `json:"savedAt"`
}

// Repository loads and saves session and collection records.
type Repository struct {
	store  storage.Store
	opts   state.Options
	logger *slog.Logger
	now    func() time.Time
}

// NewRepository creates a repository over store. opts supplies the
// default-initial session used when a record is missing or unreadable.
func NewRepository(store storage.Store, opts state.Options, logger *slog.Logger) *Repository {
	return &Repository{
		store:  store,
		opts:   opts,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LoadSession returns the stored session record, or the default-initial
// record when it is missing, unreadable or the store fails.
func (r *Repository) LoadSession(ctx context.Context, profile uuid.UUID) state.SessionRecord {
	key := SessionKey(profile)
	def := state.DefaultSessionRecord(r.opts)

	raw, ok := r.read(ctx, key)
	if !ok {
		return def
	}

	var doc sessionDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		r.recovered("session", key, err)
		return def
	}

	rec := def
	if doc.Stamina != nil {
		rec.Stamina = *doc.Stamina
	}
	if doc.Currency != nil {
		rec.Currency = *doc.Currency
	}
	if doc.Inventory != nil {
		rec.Inventory = doc.Inventory
	}
	rec.SavedAt = doc.SavedAt
	return rec
}

// SaveSession writes rec. The repository owns SavedAt: a zero value is
// replaced with the current time, so the record read back carries the
// stamp even when rec did not.
func (r *Repository) SaveSession(ctx context.Context, profile uuid.UUID, rec state.SessionRecord) error {
	if rec.Inventory == nil {
		rec.Inventory = []int{}
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = r.now()
	}
	return r.write(ctx, SessionKey(profile), rec)
}

// LoadCollection returns the stored collection record, or an empty one
// when it is missing, unreadable or the store fails.
func (r *Repository) LoadCollection(ctx context.Context, profile uuid.UUID) state.CollectionRecord {
	key := CollectionKey(profile)
	def := state.DefaultCollectionRecord()

	raw, ok := r.read(ctx, key)
	if !ok {
		return def
	}

	var rec state.CollectionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		r.recovered("collection", key, err)
		return def
	}
	if rec.UnlockedIDs == nil {
		rec.UnlockedIDs = []int{}
	}
	return rec
}

// SaveCollection writes rec, stamping a zero SavedAt like SaveSession.
func (r *Repository) SaveCollection(ctx context.Context, profile uuid.UUID, rec state.CollectionRecord) error {
	if rec.UnlockedIDs == nil {
		rec.UnlockedIDs = []int{}
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = r.now()
	}
	return r.write(ctx, CollectionKey(profile), rec)
}

func (r *Repository) DeleteSession(ctx context.Context, profile uuid.UUID) error {
	if err := r.store.Del(ctx, SessionKey(profile)); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

func (r *Repository) DeleteCollection(ctx context.Context, profile uuid.UUID) error {
	if err := r.store.Del(ctx, CollectionKey(profile)); err != nil {
		return fmt.Errorf("failed to delete collection record: %w", err)
	}
	return nil
}

// DeleteAll removes both records of the profile in a single store call, so
// a failure leaves both in place.
func (r *Repository) DeleteAll(ctx context.Context, profile uuid.UUID) error {
	if err := r.store.Del(ctx, SessionKey(profile), CollectionKey(profile)); err != nil {
		return fmt.Errorf("failed to delete profile records: %w", err)
	}
	return nil
}

// Exists reports whether any record is stored for the profile.
func (r *Repository) Exists(ctx context.Context, profile uuid.UUID) (bool, error) {
	return r.store.Exists(ctx, SessionKey(profile), CollectionKey(profile))
}

// Bind mirrors every committed change of session and collection to the
// store. Writes are synchronous; a failed write is logged and the in-memory
// state stays authoritative until the next successful save.
func (r *Repository) Bind(ctx context.Context, profile uuid.UUID, session *state.Session, collection *state.Collection) {
	log := r.logger.With("profile_id", profile.String())

	session.Subscribe(func(rec state.SessionRecord) {
		if err := r.SaveSession(ctx, profile, rec); err != nil {
			log.Error("Failed to save session record", "error", err)
		}
	})
	collection.Subscribe(func(rec state.CollectionRecord) {
		if err := r.SaveCollection(ctx, profile, rec); err != nil {
			log.Error("Failed to save collection record", "error", err)
		}
	})
}

func (r *Repository) read(ctx context.Context, key string) (string, bool) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		r.logger.Debug("No stored record, using defaults", "key", key)
		return "", false
	}
	if err != nil {
		r.logger.Error("Failed to read record, using defaults", "key", key, "error", err)
		return "", false
	}
	return raw, true
}

func (r *Repository) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *Repository) recovered(record, key string, err error) {
	metrics.StorageRecoveries.WithLabelValues(record).Inc()
	r.logger.Warn("Stored record unreadable, using defaults",
		"key", key,
		"error", fmt.Errorf("%w: %v", ErrStorageCorrupt, err))
}
