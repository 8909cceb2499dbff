package repository

import (
	"parkmate/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RatingRepository defines the interface for rating row operations. Methods
// that participate in an aggregate refresh take the enclosing transaction
// handle so the row mutation and the refresh commit or roll back together.
type RatingRepository interface {
	Create(tx *gorm.DB, rating *models.Rating) error
	Save(tx *gorm.DB, rating *models.Rating) error
	Delete(tx *gorm.DB, rating *models.Rating) error
	GetByID(id int64) (*models.Rating, error)
	GetByUser(userID string) ([]models.Rating, error)
	ListAll() ([]models.Rating, error)
	ExistsByAuthorAndLot(userID string, lotID int64) (bool, error)
	// SumForLot re-aggregates total and count directly from the rating rows
	// visible to tx. Every aggregate refresh goes through this full recompute
	// rather than a delta on the previous aggregate row.
	SumForLot(tx *gorm.DB, lotID int64) (total float64, count int64, err error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(tx *gorm.DB, rating *models.Rating) error {
	return tx.Create(rating).Error
}

func (r *ratingRepository) Save(tx *gorm.DB, rating *models.Rating) error {
	return tx.Save(rating).Error
}

func (r *ratingRepository) Delete(tx *gorm.DB, rating *models.Rating) error {
	return tx.Delete(rating).Error
}

func (r *ratingRepository) GetByID(id int64) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByUser(userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Preload("Lot").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) ListAll() ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Preload("User").
		Preload("Lot").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) ExistsByAuthorAndLot(userID string, lotID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).
		Where("user_id = ? AND lot_id = ?", userID, lotID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ratingRepository) SumForLot(tx *gorm.DB, lotID int64) (float64, int64, error) {
	var agg struct {
		Total float64
		Count int64
	}
	err := tx.Model(&models.Rating{}).
		Select("COALESCE(SUM(score), 0) as total, COUNT(*) as count").
		Where("lot_id = ?", lotID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Total, agg.Count, nil
}
