package service

import (
	"context"
	"database/sql"

	"parkmate/internal/microservices/http-api/models"
	"parkmate/internal/microservices/http-api/repository"
	"parkmate/internal/scoring"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// mockTxRunner runs the transaction body directly with a nil tx. The repo
// mocks accept mock.Anything for the tx argument, so no database is needed.
type mockTxRunner struct {
	calls int
	err   error // returned without running the body when set
}

func (m *mockTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fc(nil)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByNickname(nickname string) (*models.User, error) {
	args := m.Called(nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockParkingLotRepository mocks the ParkingLotRepository interface
type MockParkingLotRepository struct {
	mock.Mock
}

func (m *MockParkingLotRepository) Create(lot *models.ParkingLot) error {
	args := m.Called(lot)
	return args.Error(0)
}

func (m *MockParkingLotRepository) Save(lot *models.ParkingLot) error {
	args := m.Called(lot)
	return args.Error(0)
}

func (m *MockParkingLotRepository) Delete(lot *models.ParkingLot) error {
	args := m.Called(lot)
	return args.Error(0)
}

func (m *MockParkingLotRepository) GetByID(id int64) (*models.ParkingLot, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParkingLot), args.Error(1)
}

func (m *MockParkingLotRepository) ExistsByName(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockParkingLotRepository) Search(keyword string) ([]models.ParkingLot, error) {
	args := m.Called(keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ParkingLot), args.Error(1)
}

func (m *MockParkingLotRepository) ListAll() ([]models.ParkingLot, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ParkingLot), args.Error(1)
}

func (m *MockParkingLotRepository) FindWithinRadius(lat, lon, radiusMeters float64) ([]repository.NearbyLot, error) {
	args := m.Called(lat, lon, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.NearbyLot), args.Error(1)
}

func (m *MockParkingLotRepository) LockByID(tx *gorm.DB, id int64) (*models.ParkingLot, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParkingLot), args.Error(1)
}

// MockRatingRepository mocks the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(tx *gorm.DB, rating *models.Rating) error {
	args := m.Called(tx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Save(tx *gorm.DB, rating *models.Rating) error {
	args := m.Called(tx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(tx *gorm.DB, rating *models.Rating) error {
	args := m.Called(tx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(id int64) (*models.Rating, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUser(userID string) ([]models.Rating, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListAll() ([]models.Rating, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ExistsByAuthorAndLot(userID string, lotID int64) (bool, error) {
	args := m.Called(userID, lotID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepository) SumForLot(tx *gorm.DB, lotID int64) (float64, int64, error) {
	args := m.Called(tx, lotID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

// MockAggregateRepository mocks the AggregateRepository interface
type MockAggregateRepository struct {
	mock.Mock
}

func (m *MockAggregateRepository) Get(lotID int64) (*models.RatingAggregate, error) {
	args := m.Called(lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingAggregate), args.Error(1)
}

func (m *MockAggregateRepository) Upsert(tx *gorm.DB, lotID int64, total float64, count int64, average float64) error {
	args := m.Called(tx, lotID, total, count, average)
	return args.Error(0)
}

// MockBookmarkRepository mocks the BookmarkRepository interface
type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) Create(bookmark *models.Bookmark) error {
	args := m.Called(bookmark)
	return args.Error(0)
}

func (m *MockBookmarkRepository) Delete(bookmark *models.Bookmark) error {
	args := m.Called(bookmark)
	return args.Error(0)
}

func (m *MockBookmarkRepository) GetByID(id int64) (*models.Bookmark, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepository) GetByUser(userID string) ([]models.Bookmark, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepository) ExistsByUserAndLot(userID string, lotID int64) (bool, error) {
	args := m.Called(userID, lotID)
	return args.Bool(0), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired() error {
	args := m.Called()
	return args.Error(0)
}

// MockAggregateCache mocks the AggregateCache interface
type MockAggregateCache struct {
	mock.Mock
}

func (m *MockAggregateCache) Get(ctx context.Context, lotID int64) (*models.RatingAggregate, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingAggregate), args.Error(1)
}

func (m *MockAggregateCache) Set(ctx context.Context, agg *models.RatingAggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *MockAggregateCache) Invalidate(ctx context.Context, lotID int64) error {
	args := m.Called(ctx, lotID)
	return args.Error(0)
}

// MockScoringGateway mocks the scoring.Gateway interface
type MockScoringGateway struct {
	mock.Mock
}

func (m *MockScoringGateway) Score(ctx context.Context, req scoring.ScoreRequest) ([]scoring.LotScores, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scoring.LotScores), args.Error(1)
}
