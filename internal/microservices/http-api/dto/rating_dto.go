package dto

import (
	"time"

	"parkmate/internal/microservices/http-api/models"
)

// CreateRatingDTO for adding a rating to a lot. Score range is re-checked by
// the service so a zero score is not swallowed by `required`.
type CreateRatingDTO struct {
	LotID int64   `json:"p_id" binding:"required"`
	Score float64 `json:"score" binding:"min=0,max=5"`
}

// UpdateRatingDTO for changing the score of an existing rating
type UpdateRatingDTO struct {
	Score float64 `json:"score" binding:"min=0,max=5"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	RatingID  int64     `json:"rating_id"`
	Nickname  string    `json:"nickname"`
	LotName   string    `json:"p_name"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		RatingID:  rating.ID,
		Nickname:  rating.User.Nickname,
		LotName:   rating.Lot.Name,
		Score:     rating.Score,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// AggregateResponse for the per-lot average endpoint
type AggregateResponse struct {
	LotID       int64   `json:"p_id"`
	AvgScore    float64 `json:"avg_score"`
	RatingCount int64   `json:"rating_count"`
}
