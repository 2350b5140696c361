package interview

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Interview is the store-side projection of a transcript document. Rows are
// created once per exported session or reconciled backup file and never
// mutated afterwards.
type Interview struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`
	Transcript      string         `gorm:"type:text;not null" json:"transcript"`
	DurationSeconds int            `gorm:"not null" json:"durationSeconds"`
	RawDocument     datatypes.JSON `gorm:"column:raw_document" json:"rawDocument"`
	CreatedAt       time.Time      `gorm:"not null" json:"createdAt"`
}

func (Interview) TableName() string {
	return "interview"
}

// User is a known account. Accounts are provisioned elsewhere; this service
// only looks them up.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (User) TableName() string {
	return "user"
}
