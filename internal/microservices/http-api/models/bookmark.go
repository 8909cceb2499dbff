package models

import "time"

type Bookmark struct {
	ID        int64     `json:"bookmark_id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_lot"`
	LotID     int64     `json:"p_id" gorm:"not null;uniqueIndex:idx_bookmarks_user_lot"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Lot  ParkingLot `json:"lot,omitempty" gorm:"foreignKey:LotID;constraint:OnDelete:CASCADE;"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
