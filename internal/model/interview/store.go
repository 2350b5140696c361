package interview

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// Store exposes interview persistence for the coordinator, the reconciler
// and the query handlers.
type Store interface {
	InsertInterview(ctx context.Context, rec *Interview) error
	ListInterviews(ctx context.Context, userID uuid.UUID) ([]Interview, error)
	FindUser(ctx context.Context, id uuid.UUID) (User, error)
}

// GormStore implements Store on a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the interview and user tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&User{}, &Interview{})
}

// InsertInterview assigns an id and persists the record.
func (s *GormStore) InsertInterview(ctx context.Context, rec *Interview) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// ListInterviews returns the owner's records, newest first.
func (s *GormStore) ListInterviews(ctx context.Context, userID uuid.UUID) ([]Interview, error) {
	var records []Interview
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindUser looks up a known account by id.
func (s *GormStore) FindUser(ctx context.Context, id uuid.UUID) (User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
