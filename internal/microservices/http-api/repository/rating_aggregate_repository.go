package repository

import (
	"errors"

	"parkmate/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AggregateRepository is the store for the per-lot rating summary. Writers
// must supply a fully recomputed snapshot; no delta mutation is exposed.
type AggregateRepository interface {
	// Get returns the aggregate for a lot, or the zero-state (count 0,
	// average 0) when the lot has never been rated. A missing row is not an
	// error.
	Get(lotID int64) (*models.RatingAggregate, error)
	// Upsert idempotently writes the full aggregate row inside tx, creating
	// it if absent.
	Upsert(tx *gorm.DB, lotID int64, total float64, count int64, average float64) error
}

type aggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &aggregateRepository{db: db}
}

func (r *aggregateRepository) Get(lotID int64) (*models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := r.db.First(&agg, "lot_id = ?", lotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.RatingAggregate{LotID: lotID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *aggregateRepository) Upsert(tx *gorm.DB, lotID int64, total float64, count int64, average float64) error {
	agg := models.RatingAggregate{
		LotID:       lotID,
		TotalScore:  total,
		RatingCount: count,
		AvgScore:    average,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lot_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_score", "rating_count", "avg_score", "updated_at"}),
	}).Create(&agg).Error
}
