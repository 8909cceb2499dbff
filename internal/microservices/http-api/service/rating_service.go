package service

import (
	"context"
	"database/sql"
	"errors"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/models"
	"parkmate/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Score bounds for a rating.
const (
	MinScore = 0.0
	MaxScore = 5.0
)

// TxRunner abstracts gorm's transaction entry point so the service can be
// unit tested without a live database. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// AggregateCache is the cache invalidated after a committed rating mutation.
// *cache.AggregateCache satisfies it.
type AggregateCache interface {
	Get(ctx context.Context, lotID int64) (*models.RatingAggregate, error)
	Set(ctx context.Context, agg *models.RatingAggregate) error
	Invalidate(ctx context.Context, lotID int64) error
}

// RatingService orchestrates rating mutations. Every mutation and its
// aggregate refresh run as one transaction: lock the lot row, mutate the
// rating row, recompute total/count from the rating rows, upsert the
// aggregate snapshot. Readers never observe a rating row without its
// aggregate reflecting it.
type RatingService interface {
	AddRating(ctx context.Context, authorID string, lotID int64, score float64) (int64, error)
	UpdateRating(ctx context.Context, ratingID int64, requesterID string, newScore float64) error
	DeleteRating(ctx context.Context, ratingID int64, requesterID string) error
	// DeleteRatingAsAdmin removes any rating without an ownership check but
	// with the same transactional aggregate refresh.
	DeleteRatingAsAdmin(ctx context.Context, ratingID int64) error
	GetRatingsForUser(ctx context.Context, userID string) ([]dto.RatingResponse, error)
	GetAggregate(ctx context.Context, lotID int64) (*dto.AggregateResponse, error)
}

type ratingService struct {
	db         TxRunner
	userRepo   repository.UserRepository
	lotRepo    repository.ParkingLotRepository
	ratingRepo repository.RatingRepository
	aggRepo    repository.AggregateRepository
	cache      AggregateCache
}

func NewRatingService(
	db TxRunner,
	userRepo repository.UserRepository,
	lotRepo repository.ParkingLotRepository,
	ratingRepo repository.RatingRepository,
	aggRepo repository.AggregateRepository,
	cache AggregateCache,
) RatingService {
	return &ratingService{
		db:         db,
		userRepo:   userRepo,
		lotRepo:    lotRepo,
		ratingRepo: ratingRepo,
		aggRepo:    aggRepo,
		cache:      cache,
	}
}

// AddRating inserts a rating row and refreshes the lot's aggregate
// atomically, returning the created rating id.
func (s *ratingService) AddRating(ctx context.Context, authorID string, lotID int64, score float64) (int64, error) {
	if score < MinScore || score > MaxScore {
		return 0, ErrInvalidScore
	}

	if _, err := s.userRepo.FindByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	if _, err := s.lotRepo.GetByID(lotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrLotNotFound
		}
		return 0, err
	}

	// Early duplicate check for a clean error; the composite unique index on
	// (user_id, lot_id) enforces the policy under concurrent inserts.
	exists, err := s.ratingRepo.ExistsByAuthorAndLot(authorID, lotID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicateRating
	}

	var ratingID int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.lotRepo.LockByID(tx, lotID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLotNotFound
			}
			return err
		}

		rating := &models.Rating{UserID: authorID, LotID: lotID, Score: score}
		if err := s.ratingRepo.Create(tx, rating); err != nil {
			// A concurrent insert can slip past the existence check and
			// hit the unique index on (user_id, lot_id).
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRating
			}
			return err
		}
		ratingID = rating.ID

		return s.refreshAggregate(tx, lotID)
	})
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate(ctx, lotID)
	return ratingID, nil
}

// UpdateRating changes the score of the requester's own rating and refreshes
// the aggregate atomically.
func (s *ratingService) UpdateRating(ctx context.Context, ratingID int64, requesterID string, newScore float64) error {
	if newScore < MinScore || newScore > MaxScore {
		return ErrInvalidScore
	}

	rating, err := s.ratingRepo.GetByID(ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}
	if rating.UserID != requesterID {
		return ErrNotRatingAuthor
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.lotRepo.LockByID(tx, rating.LotID); err != nil {
			return err
		}

		rating.Score = newScore
		if err := s.ratingRepo.Save(tx, rating); err != nil {
			return err
		}

		return s.refreshAggregate(tx, rating.LotID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, rating.LotID)
	return nil
}

// DeleteRating removes the requester's own rating. Deleting the lot's last
// rating resets the aggregate to the zero-state (count 0, average 0).
func (s *ratingService) DeleteRating(ctx context.Context, ratingID int64, requesterID string) error {
	rating, err := s.ratingRepo.GetByID(ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}
	if rating.UserID != requesterID {
		return ErrNotRatingAuthor
	}

	return s.deleteAndRefresh(ctx, rating)
}

func (s *ratingService) DeleteRatingAsAdmin(ctx context.Context, ratingID int64) error {
	rating, err := s.ratingRepo.GetByID(ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}

	return s.deleteAndRefresh(ctx, rating)
}

func (s *ratingService) deleteAndRefresh(ctx context.Context, rating *models.Rating) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.lotRepo.LockByID(tx, rating.LotID); err != nil {
			return err
		}

		if err := s.ratingRepo.Delete(tx, rating); err != nil {
			return err
		}

		return s.refreshAggregate(tx, rating.LotID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, rating.LotID)
	return nil
}

// refreshAggregate writes a full snapshot recomputed from the rating rows
// visible to tx. Recomputing from source rows instead of applying a delta
// keeps the aggregate immune to drift and lost updates.
func (s *ratingService) refreshAggregate(tx *gorm.DB, lotID int64) error {
	total, count, err := s.ratingRepo.SumForLot(tx, lotID)
	if err != nil {
		return err
	}

	average := 0.0
	if count > 0 {
		average = total / float64(count)
	}

	return s.aggRepo.Upsert(tx, lotID, total, count, average)
}

// GetRatingsForUser returns the user's rating history, newest first.
func (s *ratingService) GetRatingsForUser(ctx context.Context, userID string) ([]dto.RatingResponse, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ratings, err := s.ratingRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return responses, nil
}

// GetAggregate reads a lot's aggregate through the cache. A lot with no
// ratings yields the zero-state, never an error.
func (s *ratingService) GetAggregate(ctx context.Context, lotID int64) (*dto.AggregateResponse, error) {
	if _, err := s.lotRepo.GetByID(lotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}

	agg, err := s.cache.Get(ctx, lotID)
	if err != nil || agg == nil {
		// cache miss or cache failure: fall back to the store
		agg, err = s.aggRepo.Get(lotID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, agg)
	}

	return &dto.AggregateResponse{
		LotID:       lotID,
		AvgScore:    agg.AvgScore,
		RatingCount: agg.RatingCount,
	}, nil
}
