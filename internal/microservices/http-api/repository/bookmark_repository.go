package repository

import (
	"parkmate/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookmarkRepository interface {
	Create(bookmark *models.Bookmark) error
	Delete(bookmark *models.Bookmark) error
	GetByID(id int64) (*models.Bookmark, error)
	GetByUser(userID string) ([]models.Bookmark, error)
	ExistsByUserAndLot(userID string, lotID int64) (bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(bookmark *models.Bookmark) error {
	return r.db.Create(bookmark).Error
}

func (r *bookmarkRepository) Delete(bookmark *models.Bookmark) error {
	return r.db.Delete(bookmark).Error
}

func (r *bookmarkRepository) GetByID(id int64) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	if err := r.db.First(&bookmark, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) GetByUser(userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).
		Preload("Lot").
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) ExistsByUserAndLot(userID string, lotID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND lot_id = ?", userID, lotID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
