package dto

import (
	"time"

	"parkmate/internal/microservices/http-api/models"
)

// ProfileResponse for the my-page view
type ProfileResponse struct {
	UserID          string    `json:"user_id"`
	Nickname        string    `json:"nickname"`
	Email           string    `json:"email"`
	PreferredFactor string    `json:"preferred_factor"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromModelToProfileResponse(user *models.User) *ProfileResponse {
	return &ProfileResponse{
		UserID:          user.ID,
		Nickname:        user.Nickname,
		Email:           user.Email,
		PreferredFactor: string(user.PreferredFactor),
		CreatedAt:       user.CreatedAt,
	}
}

// UpdateProfileRequest: partial update of nickname and/or preferred factor
type UpdateProfileRequest struct {
	Nickname        string `json:"nickname" binding:"omitempty,min=2,max=50"`
	PreferredFactor string `json:"preferred_factor" binding:"omitempty,oneof=fee distance rating congestion"`
}

// ChangePasswordRequest: password change with current-password check
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
