// Package memory holds in-process implementations of the repositories, used
// when the server runs without MySQL and as fakes in tests. They return the
// same sentinel errors as the MySQL repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinelist/cinelist-go/internal/model"
	"github.com/cinelist/cinelist-go/internal/repository"
)

// UserRepo is an in-memory user store.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
	email map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users: make(map[string]model.User),
		email: make(map[string]string),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return repository.ErrDuplicateUser
	}
	if _, ok := r.email[user.Email]; ok && user.Email != "" {
		return repository.ErrDuplicateUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = *user
	if user.Email != "" {
		r.email[user.Email] = user.ID
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

type entryKey struct {
	userID string
	tmdbID int64
}

type storedEntry struct {
	entry model.MovieEntry
	seq   uint64
}

// EntryRepo is an in-memory movie entry store keyed by (user, tmdb id).
type EntryRepo struct {
	mu      sync.RWMutex
	entries map[entryKey]storedEntry
	seq     uint64
}

func NewEntryRepo() *EntryRepo {
	return &EntryRepo{entries: make(map[entryKey]storedEntry)}
}

func (r *EntryRepo) Get(ctx context.Context, userID string, tmdbID int64) (*model.MovieEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.entries[entryKey{userID, tmdbID}]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	e := stored.entry
	return &e, nil
}

// Mutate holds the write lock for the whole fetch-or-create, apply and
// persist-or-delete sequence.
func (r *EntryRepo) Mutate(ctx context.Context, userID string, tmdbID int64, defaults model.MovieDefaults, fn func(*model.MovieEntry)) (*model.MovieEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := entryKey{userID, tmdbID}
	stored, ok := r.entries[key]
	if !ok {
		r.seq++
		stored = storedEntry{
			entry: model.MovieEntry{
				ID:         uuid.NewString(),
				UserID:     userID,
				TMDBID:     tmdbID,
				Title:      defaults.Title,
				PosterPath: defaults.PosterPath,
				Rating:     defaults.Rating,
				AddedAt:    time.Now().UTC(),
			},
			seq: r.seq,
		}
	}

	e := stored.entry
	fn(&e)

	if e.Empty() {
		delete(r.entries, key)
		return &e, true, nil
	}

	stored.entry = e
	r.entries[key] = stored
	out := e
	return &out, false, nil
}

func (r *EntryRepo) ListActive(ctx context.Context, userID string) ([]model.MovieEntry, error) {
	return r.list(userID, func(e *model.MovieEntry) bool { return !e.Empty() }), nil
}

func (r *EntryRepo) ListByUser(ctx context.Context, userID string) ([]model.MovieEntry, error) {
	return r.list(userID, func(*model.MovieEntry) bool { return true }), nil
}

// Count reports how many entries are stored for userID.
func (r *EntryRepo) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for k := range r.entries {
		if k.userID == userID {
			n++
		}
	}
	return n
}

func (r *EntryRepo) list(userID string, keep func(*model.MovieEntry) bool) []model.MovieEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []storedEntry
	for k, stored := range r.entries {
		if k.userID == userID && keep(&stored.entry) {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	entries := make([]model.MovieEntry, len(matched))
	for i, s := range matched {
		entries[i] = s.entry
	}
	return entries
}

// ShareRepo is an in-memory shared list store.
type ShareRepo struct {
	mu     sync.RWMutex
	shares map[string]model.SharedList
	order  []string
}

func NewShareRepo() *ShareRepo {
	return &ShareRepo{shares: make(map[string]model.SharedList)}
}

func (r *ShareRepo) Create(ctx context.Context, userID string) (*model.SharedList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	share := model.SharedList{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	r.shares[share.ID] = share
	r.order = append(r.order, share.ID)
	return &share, nil
}

func (r *ShareRepo) GetByID(ctx context.Context, id string) (*model.SharedList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	share, ok := r.shares[id]
	if !ok {
		return nil, repository.ErrShareNotFound
	}
	return &share, nil
}

func (r *ShareRepo) ListByUser(ctx context.Context, userID string) ([]model.SharedList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var shares []model.SharedList
	for i := len(r.order) - 1; i >= 0; i-- {
		share, ok := r.shares[r.order[i]]
		if ok && share.UserID == userID {
			shares = append(shares, share)
		}
	}
	return shares, nil
}

func (r *ShareRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	share, ok := r.shares[id]
	if !ok || share.UserID != userID {
		return repository.ErrShareNotFound
	}
	delete(r.shares, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
