package repository

import (
	"parkmate/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NearbyLot is a radius-search candidate: a lot row joined with its current
// average rating and its great-circle distance from the query point.
type NearbyLot struct {
	ID        int64   `json:"p_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Fee       float64 `json:"fee"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AvgScore  float64 `json:"avg_score"`
	DistanceM float64 `json:"distance_m"`
}

type ParkingLotRepository interface {
	Create(lot *models.ParkingLot) error
	Save(lot *models.ParkingLot) error
	Delete(lot *models.ParkingLot) error
	GetByID(id int64) (*models.ParkingLot, error)
	ExistsByName(name string) (bool, error)
	Search(keyword string) ([]models.ParkingLot, error)
	ListAll() ([]models.ParkingLot, error)
	FindWithinRadius(lat, lon, radiusMeters float64) ([]NearbyLot, error)
	// LockByID takes a row-level write lock on the lot inside tx, serializing
	// concurrent aggregate refreshes for the same lot.
	LockByID(tx *gorm.DB, id int64) (*models.ParkingLot, error)
}

type parkingLotRepository struct {
	db *gorm.DB
}

func NewParkingLotRepository(db *gorm.DB) ParkingLotRepository {
	return &parkingLotRepository{db: db}
}

func (r *parkingLotRepository) Create(lot *models.ParkingLot) error {
	return r.db.Create(lot).Error
}

func (r *parkingLotRepository) Save(lot *models.ParkingLot) error {
	return r.db.Save(lot).Error
}

func (r *parkingLotRepository) Delete(lot *models.ParkingLot) error {
	return r.db.Delete(lot).Error
}

func (r *parkingLotRepository) GetByID(id int64) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	if err := r.db.First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *parkingLotRepository) ExistsByName(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ParkingLot{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *parkingLotRepository) Search(keyword string) ([]models.ParkingLot, error) {
	var lots []models.ParkingLot
	pattern := "%" + keyword + "%"
	err := r.db.Where("name LIKE ? OR address LIKE ?", pattern, pattern).
		Preload("AvgRating").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *parkingLotRepository) ListAll() ([]models.ParkingLot, error) {
	var lots []models.ParkingLot
	if err := r.db.Preload("AvgRating").Order("id ASC").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindWithinRadius returns every lot within radiusMeters of the query point,
// nearest first. Distance is haversine over geographic coordinates, computed
// in SQL so Postgres does the filtering. An unrated lot carries avg_score 0.
func (r *parkingLotRepository) FindWithinRadius(lat, lon, radiusMeters float64) ([]NearbyLot, error) {
	var candidates []NearbyLot
	err := r.db.Raw(`
		SELECT p.id, p.name, p.address, p.fee, p.latitude, p.longitude,
		       COALESCE(a.avg_score, 0) AS avg_score,
		       d.distance_m
		FROM parking_lots p
		LEFT JOIN rating_aggregates a ON a.lot_id = p.id
		CROSS JOIN LATERAL (
			SELECT 2 * 6371000 * asin(sqrt(
				pow(sin(radians(p.latitude - ?) / 2), 2) +
				cos(radians(?)) * cos(radians(p.latitude)) *
				pow(sin(radians(p.longitude - ?) / 2), 2)
			)) AS distance_m
		) d
		WHERE d.distance_m <= ?
		ORDER BY d.distance_m ASC`,
		lat, lat, lon, radiusMeters,
	).Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *parkingLotRepository) LockByID(tx *gorm.DB, id int64) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lot, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}
