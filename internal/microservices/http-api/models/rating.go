package models

import "time"

// Rating is one user's score for one parking lot. The composite unique index
// enforces the one-rating-per-author-per-lot policy even under concurrent
// inserts.
type Rating struct {
	ID        int64     `json:"rating_id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_author_lot"`
	LotID     int64     `json:"p_id" gorm:"not null;uniqueIndex:idx_ratings_author_lot;index"`
	Score     float64   `json:"score" gorm:"not null;check:score >= 0 AND score <= 5"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Lot  ParkingLot `json:"lot,omitempty" gorm:"foreignKey:LotID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
