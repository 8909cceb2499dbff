package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferredFactor is the ranking dimension a user wants recommendations
// ordered by.
type PreferredFactor string

const (
	FactorFee        PreferredFactor = "fee"
	FactorDistance   PreferredFactor = "distance"
	FactorRating     PreferredFactor = "rating"
	FactorCongestion PreferredFactor = "congestion"
)

// ParsePreferredFactor validates a raw string coming from a request body.
func ParsePreferredFactor(s string) (PreferredFactor, error) {
	switch PreferredFactor(s) {
	case FactorFee, FactorDistance, FactorRating, FactorCongestion:
		return PreferredFactor(s), nil
	}
	return "", fmt.Errorf("unknown preferred factor %q", s)
}

type User struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	Nickname        string          `gorm:"uniqueIndex;not null" json:"nickname"`
	Email           string          `gorm:"uniqueIndex;not null" json:"email"`
	Password        string          `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	PreferredFactor PreferredFactor `gorm:"default:'rating';not null" json:"preferred_factor"`
	Role            string          `gorm:"default:'user';not null" json:"role"` // "user" or "admin"
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
