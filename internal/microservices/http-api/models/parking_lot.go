package models

import "time"

type ParkingLot struct {
	ID        int64   `json:"p_id" gorm:"primaryKey;autoIncrement"`
	Name      string  `json:"name" gorm:"uniqueIndex;not null"`
	Address   string  `json:"address" gorm:"not null"`
	Fee       float64 `json:"fee" gorm:"not null"` // base fee per hour
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	AvgRating *RatingAggregate `json:"avg_rating,omitempty" gorm:"foreignKey:LotID;constraint:OnDelete:CASCADE;"`
}

func (ParkingLot) TableName() string {
	return "parking_lots"
}
