package dto

import "parkmate/internal/microservices/http-api/models"

// CreateBookmarkDTO for adding a bookmark
type CreateBookmarkDTO struct {
	LotID int64 `json:"p_id" binding:"required"`
}

// BookmarkResponse for listing a user's bookmarks
type BookmarkResponse struct {
	BookmarkID int64   `json:"bookmark_id"`
	LotID      int64   `json:"p_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Fee        float64 `json:"fee"`
}

func FromModelToBookmarkResponse(bookmark *models.Bookmark) *BookmarkResponse {
	return &BookmarkResponse{
		BookmarkID: bookmark.ID,
		LotID:      bookmark.LotID,
		Name:       bookmark.Lot.Name,
		Address:    bookmark.Lot.Address,
		Fee:        bookmark.Lot.Fee,
	}
}
