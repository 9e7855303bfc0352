// Package bookmarks persists the ordered list of bookmarked GitHub users.
//
// The whole list lives in one key-value slot as a JSON array. It is read
// once by Load and rewritten in full on every mutation.
package bookmarks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/artpar/gitfav/internal/core"
	"github.com/artpar/gitfav/internal/kv"
	"github.com/artpar/gitfav/internal/logging"
)

// StorageKey is the slot holding the bookmark list.
const StorageKey = "users"

// Store owns the bookmark list and its persisted copy.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	users []core.BookmarkedUser
}

// NewStore creates a bookmark store on top of a key-value slot store.
// Call Load before reading Users.
func NewStore(slots kv.Store) *Store {
	return &Store{kv: slots}
}

// Load reads the persisted list, replacing the in-memory copy. A missing
// slot yields an empty list.
func (s *Store) Load(ctx context.Context) ([]core.BookmarkedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, core.NewStorageError("read", StorageKey, err)
	}

	users := []core.BookmarkedUser{}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &users); err != nil {
			return nil, core.NewStorageError("decode", StorageKey, err)
		}
	}

	s.users = users
	logging.FromContext(ctx).Debug().Int("count", len(users)).Msg("bookmarks loaded")
	return clone(users), nil
}

// Save overwrites the persisted list with users.
func (s *Store) Save(ctx context.Context, users []core.BookmarkedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(ctx, users); err != nil {
		return err
	}
	s.users = clone(users)
	return nil
}

// Add appends users and persists the new list in a single write.
// Duplicate logins are kept. On a failed write the list is left as it was.
func (s *Store) Add(ctx context.Context, users ...core.BookmarkedUser) ([]core.BookmarkedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.BookmarkedUser, 0, len(s.users)+len(users))
	next = append(next, s.users...)
	next = append(next, users...)

	if err := s.write(ctx, next); err != nil {
		return nil, err
	}
	s.users = next

	log := logging.FromContext(ctx)
	for _, u := range users {
		log.Info().Str("login", u.Login).Int("count", len(next)).Msg("bookmark added")
	}
	return clone(next), nil
}

// Reset deletes every bookmark.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return core.NewStorageError("delete", StorageKey, err)
	}
	s.users = nil
	return nil
}

// Users returns a copy of the in-memory list.
func (s *Store) Users() []core.BookmarkedUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.users)
}

// Contains reports whether login is already bookmarked. GitHub logins are
// case-insensitive.
func (s *Store) Contains(login string) bool {
	login = strings.TrimSpace(login)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Login, login) {
			return true
		}
	}
	return false
}

func (s *Store) write(ctx context.Context, users []core.BookmarkedUser) error {
	if users == nil {
		users = []core.BookmarkedUser{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return core.NewStorageError("encode", StorageKey, err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return core.NewStorageError("write", StorageKey, err)
	}
	return nil
}

func clone(users []core.BookmarkedUser) []core.BookmarkedUser {
	out := make([]core.BookmarkedUser, len(users))
	copy(out, users)
	return out
}
