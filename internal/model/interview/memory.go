package interview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory maps, suitable for running
// without a database and for tests.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews []Interview
	users      map[uuid.UUID]User
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied users.
func NewMemoryStore(users ...User) *MemoryStore {
	byID := make(map[uuid.UUID]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &MemoryStore{users: byID}
}

// AddUser registers a known account.
func (s *MemoryStore) AddUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// InsertInterview assigns an id and appends the record.
func (s *MemoryStore) InsertInterview(_ context.Context, rec *Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.interviews = append(s.interviews, *rec)
	return nil
}

// ListInterviews returns the owner's records, newest first.
func (s *MemoryStore) ListInterviews(_ context.Context, userID uuid.UUID) ([]Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []Interview
	for i := len(s.interviews) - 1; i >= 0; i-- {
		if s.interviews[i].UserID == userID {
			records = append(records, s.interviews[i])
		}
	}
	return records, nil
}

// FindUser looks up a known account by id.
func (s *MemoryStore) FindUser(_ context.Context, id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
