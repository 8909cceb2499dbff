package models

import "time"

// RatingAggregate is the one-row-per-lot materialized summary of the ratings
// table. It is derived state only: every write is a full snapshot recomputed
// from the rating rows inside the same transaction that mutated them, so the
// row can always be rebuilt by re-aggregation.
type RatingAggregate struct {
	LotID       int64     `json:"p_id" gorm:"primaryKey;autoIncrement:false"`
	TotalScore  float64   `json:"total_score" gorm:"not null;default:0"`
	RatingCount int64     `json:"rating_count" gorm:"not null;default:0"`
	AvgScore    float64   `json:"avg_score" gorm:"not null;default:0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (RatingAggregate) TableName() string {
	return "rating_aggregates"
}
