package service

import (
	"context"
	"testing"

	"parkmate/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type ratingServiceFixture struct {
	tx         *mockTxRunner
	userRepo   *MockUserRepository
	lotRepo    *MockParkingLotRepository
	ratingRepo *MockRatingRepository
	aggRepo    *MockAggregateRepository
	cache      *MockAggregateCache
	svc        RatingService
}

func newRatingServiceFixture() *ratingServiceFixture {
	f := &ratingServiceFixture{
		tx:         &mockTxRunner{},
		userRepo:   new(MockUserRepository),
		lotRepo:    new(MockParkingLotRepository),
		ratingRepo: new(MockRatingRepository),
		aggRepo:    new(MockAggregateRepository),
		cache:      new(MockAggregateCache),
	}
	f.svc = NewRatingService(f.tx, f.userRepo, f.lotRepo, f.ratingRepo, f.aggRepo, f.cache)
	return f
}

func TestAddRating(t *testing.T) {
	t.Run("FirstRatingWritesFullSnapshot", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1"}, nil)
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("ExistsByAuthorAndLot", "user-1", int64(7)).Return(false, nil)
		f.lotRepo.On("LockByID", mock.Anything, int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Rating")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Rating).ID = 42
			}).Return(nil)
		f.ratingRepo.On("SumForLot", mock.Anything, int64(7)).Return(4.0, int64(1), nil)
		f.aggRepo.On("Upsert", mock.Anything, int64(7), 4.0, int64(1), 4.0).Return(nil)
		f.cache.On("Invalidate", mock.Anything, int64(7)).Return(nil)

		ratingID, err := f.svc.AddRating(context.Background(), "user-1", 7, 4.0)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), ratingID)
		assert.Equal(t, 1, f.tx.calls)
		f.aggRepo.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("SecondRatingRecomputesAverage", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.userRepo.On("FindByID", "user-2").Return(&models.User{ID: "user-2"}, nil)
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("ExistsByAuthorAndLot", "user-2", int64(7)).Return(false, nil)
		f.lotRepo.On("LockByID", mock.Anything, int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		// row state after insert: 4.0 + 2.0
		f.ratingRepo.On("SumForLot", mock.Anything, int64(7)).Return(6.0, int64(2), nil)
		f.aggRepo.On("Upsert", mock.Anything, int64(7), 6.0, int64(2), 3.0).Return(nil)
		f.cache.On("Invalidate", mock.Anything, int64(7)).Return(nil)

		_, err := f.svc.AddRating(context.Background(), "user-2", 7, 2.0)

		assert.NoError(t, err)
		f.aggRepo.AssertExpectations(t)
	})

	t.Run("ScoreOutOfRange", func(t *testing.T) {
		f := newRatingServiceFixture()

		_, err := f.svc.AddRating(context.Background(), "user-1", 7, 5.5)

		assert.ErrorIs(t, err, ErrInvalidScore)
		assert.Equal(t, 0, f.tx.calls)
		f.userRepo.AssertNotCalled(t, "FindByID", mock.Anything)
	})

	t.Run("DuplicateRatingRejected", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1"}, nil)
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("ExistsByAuthorAndLot", "user-1", int64(7)).Return(true, nil)

		_, err := f.svc.AddRating(context.Background(), "user-1", 7, 3.0)

		assert.ErrorIs(t, err, ErrDuplicateRating)
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("ConcurrentDuplicateMapsUniqueViolation", func(t *testing.T) {
		// the existence check passes but a concurrent insert wins the race,
		// so Create trips the unique index on (user_id, lot_id)
		f := newRatingServiceFixture()
		f.userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1"}, nil)
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("ExistsByAuthorAndLot", "user-1", int64(7)).Return(false, nil)
		f.lotRepo.On("LockByID", mock.Anything, int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := f.svc.AddRating(context.Background(), "user-1", 7, 3.0)

		assert.ErrorIs(t, err, ErrDuplicateRating)
		f.aggRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("LotNotFound", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1"}, nil)
		f.lotRepo.On("GetByID", int64(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.AddRating(context.Background(), "user-1", 99, 3.0)

		assert.ErrorIs(t, err, ErrLotNotFound)
	})

	t.Run("FailedTransactionSkipsCacheInvalidation", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.tx.err = gorm.ErrInvalidTransaction
		f.userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1"}, nil)
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("ExistsByAuthorAndLot", "user-1", int64(7)).Return(false, nil)

		_, err := f.svc.AddRating(context.Background(), "user-1", 7, 3.0)

		assert.Error(t, err)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestUpdateRating(t *testing.T) {
	t.Run("RecomputesFromRows", func(t *testing.T) {
		f := newRatingServiceFixture()
		rating := &models.Rating{ID: 42, UserID: "user-1", LotID: 7, Score: 4.0}
		f.ratingRepo.On("GetByID", int64(42)).Return(rating, nil)
		f.lotRepo.On("LockByID", mock.Anything, int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("Save", mock.Anything, rating).Return(nil)
		// two ratings total, the updated one dropped from 4.0 to 0.0
		f.ratingRepo.On("SumForLot", mock.Anything, int64(7)).Return(4.0, int64(2), nil)
		f.aggRepo.On("Upsert", mock.Anything, int64(7), 4.0, int64(2), 2.0).Return(nil)
		f.cache.On("Invalidate", mock.Anything, int64(7)).Return(nil)

		err := f.svc.UpdateRating(context.Background(), 42, "user-1", 0.0)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, rating.Score)
		f.aggRepo.AssertExpectations(t)
	})

	t.Run("NotAuthor", func(t *testing.T) {
		f := newRatingServiceFixture()
		rating := &models.Rating{ID: 42, UserID: "user-1", LotID: 7, Score: 4.0}
		f.ratingRepo.On("GetByID", int64(42)).Return(rating, nil)

		err := f.svc.UpdateRating(context.Background(), 42, "someone-else", 1.0)

		assert.ErrorIs(t, err, ErrNotRatingAuthor)
		assert.Equal(t, 0, f.tx.calls)
		assert.Equal(t, 4.0, rating.Score)
	})

	t.Run("RatingNotFound", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.ratingRepo.On("GetByID", int64(404)).Return(nil, gorm.ErrRecordNotFound)

		err := f.svc.UpdateRating(context.Background(), 404, "user-1", 1.0)

		assert.ErrorIs(t, err, ErrRatingNotFound)
	})

	t.Run("ScoreOutOfRange", func(t *testing.T) {
		f := newRatingServiceFixture()

		err := f.svc.UpdateRating(context.Background(), 42, "user-1", -0.1)

		assert.ErrorIs(t, err, ErrInvalidScore)
		f.ratingRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}

func TestDeleteRating(t *testing.T) {
	t.Run("LastRatingResetsAggregate", func(t *testing.T) {
		f := newRatingServiceFixture()
		rating := &models.Rating{ID: 42, UserID: "user-1", LotID: 7, Score: 2.0}
		f.ratingRepo.On("GetByID", int64(42)).Return(rating, nil)
		f.lotRepo.On("LockByID", mock.Anything, int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("Delete", mock.Anything, rating).Return(nil)
		f.ratingRepo.On("SumForLot", mock.Anything, int64(7)).Return(0.0, int64(0), nil)
		f.aggRepo.On("Upsert", mock.Anything, int64(7), 0.0, int64(0), 0.0).Return(nil)
		f.cache.On("Invalidate", mock.Anything, int64(7)).Return(nil)

		err := f.svc.DeleteRating(context.Background(), 42, "user-1")

		assert.NoError(t, err)
		f.aggRepo.AssertExpectations(t)
	})

	t.Run("NotAuthor", func(t *testing.T) {
		f := newRatingServiceFixture()
		rating := &models.Rating{ID: 42, UserID: "user-1", LotID: 7}
		f.ratingRepo.On("GetByID", int64(42)).Return(rating, nil)

		err := f.svc.DeleteRating(context.Background(), 42, "someone-else")

		assert.ErrorIs(t, err, ErrNotRatingAuthor)
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("AdminSkipsOwnershipButRefreshes", func(t *testing.T) {
		f := newRatingServiceFixture()
		rating := &models.Rating{ID: 42, UserID: "user-1", LotID: 7, Score: 2.0}
		f.ratingRepo.On("GetByID", int64(42)).Return(rating, nil)
		f.lotRepo.On("LockByID", mock.Anything, int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.ratingRepo.On("Delete", mock.Anything, rating).Return(nil)
		f.ratingRepo.On("SumForLot", mock.Anything, int64(7)).Return(4.0, int64(1), nil)
		f.aggRepo.On("Upsert", mock.Anything, int64(7), 4.0, int64(1), 4.0).Return(nil)
		f.cache.On("Invalidate", mock.Anything, int64(7)).Return(nil)

		err := f.svc.DeleteRatingAsAdmin(context.Background(), 42)

		assert.NoError(t, err)
		f.aggRepo.AssertExpectations(t)
	})
}

func TestGetAggregate(t *testing.T) {
	t.Run("CacheHit", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.cache.On("Get", mock.Anything, int64(7)).
			Return(&models.RatingAggregate{LotID: 7, TotalScore: 6.0, RatingCount: 2, AvgScore: 3.0}, nil)

		resp, err := f.svc.GetAggregate(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, 3.0, resp.AvgScore)
		assert.Equal(t, int64(2), resp.RatingCount)
		f.aggRepo.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("CacheMissFallsBackToStore", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.lotRepo.On("GetByID", int64(7)).Return(&models.ParkingLot{ID: 7}, nil)
		f.cache.On("Get", mock.Anything, int64(7)).Return(nil, nil)
		agg := &models.RatingAggregate{LotID: 7, TotalScore: 4.0, RatingCount: 1, AvgScore: 4.0}
		f.aggRepo.On("Get", int64(7)).Return(agg, nil)
		f.cache.On("Set", mock.Anything, agg).Return(nil)

		resp, err := f.svc.GetAggregate(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, 4.0, resp.AvgScore)
		f.cache.AssertExpectations(t)
	})

	t.Run("UnratedLotYieldsZeroState", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.lotRepo.On("GetByID", int64(9)).Return(&models.ParkingLot{ID: 9}, nil)
		f.cache.On("Get", mock.Anything, int64(9)).Return(nil, nil)
		f.aggRepo.On("Get", int64(9)).Return(&models.RatingAggregate{LotID: 9}, nil)
		f.cache.On("Set", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.GetAggregate(context.Background(), 9)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, resp.AvgScore)
		assert.Equal(t, int64(0), resp.RatingCount)
	})

	t.Run("LotNotFound", func(t *testing.T) {
		f := newRatingServiceFixture()
		f.lotRepo.On("GetByID", int64(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.GetAggregate(context.Background(), 99)

		assert.ErrorIs(t, err, ErrLotNotFound)
	})
}
