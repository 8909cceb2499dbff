package service

import (
	"context"
	"errors"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/models"
	"parkmate/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// AdminService covers the management screens: user and lot administration
// plus the global rating list. Rating deletion is delegated to the rating
// service so the aggregate refresh stays transactional.
type AdminService interface {
	ListUsers() ([]dto.ProfileResponse, error)
	DeleteUser(ctx context.Context, userID string) error
	ListParkingLots() ([]dto.LotResponse, error)
	RegisterParkingLot(req *dto.LotRequest) (int64, error)
	UpdateParkingLot(lotID int64, req *dto.LotRequest) error
	DeleteParkingLot(lotID int64) error
	ListRatings() ([]dto.RatingResponse, error)
}

type adminService struct {
	userRepo      repository.UserRepository
	lotRepo       repository.ParkingLotRepository
	ratingRepo    repository.RatingRepository
	ratingService RatingService
}

func NewAdminService(
	userRepo repository.UserRepository,
	lotRepo repository.ParkingLotRepository,
	ratingRepo repository.RatingRepository,
	ratingService RatingService,
) AdminService {
	return &adminService{
		userRepo:      userRepo,
		lotRepo:       lotRepo,
		ratingRepo:    ratingRepo,
		ratingService: ratingService,
	}
}

func (s *adminService) ListUsers() ([]dto.ProfileResponse, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToProfileResponse(&users[i]))
	}
	return responses, nil
}

// DeleteUser removes the user's ratings through the transactional delete
// path first, so every rated lot gets its aggregate recomputed and its
// cache entry dropped, then deletes the user row itself.
func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	ratings, err := s.ratingRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	for i := range ratings {
		if err := s.ratingService.DeleteRatingAsAdmin(ctx, ratings[i].ID); err != nil {
			return err
		}
	}

	return s.userRepo.Delete(user)
}

func (s *adminService) ListParkingLots() ([]dto.LotResponse, error) {
	lots, err := s.lotRepo.ListAll()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		responses = append(responses, *dto.FromModelToLotResponse(&lots[i]))
	}
	return responses, nil
}

// RegisterParkingLot refuses duplicate lot names and returns the new lot id.
func (s *adminService) RegisterParkingLot(req *dto.LotRequest) (int64, error) {
	exists, err := s.lotRepo.ExistsByName(req.Name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrLotNameInUse
	}

	lot := &models.ParkingLot{
		Name:      req.Name,
		Address:   req.Address,
		Fee:       req.Fee,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.lotRepo.Create(lot); err != nil {
		return 0, err
	}
	return lot.ID, nil
}

func (s *adminService) UpdateParkingLot(lotID int64, req *dto.LotRequest) error {
	lot, err := s.lotRepo.GetByID(lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLotNotFound
		}
		return err
	}

	lot.Name = req.Name
	lot.Address = req.Address
	lot.Fee = req.Fee
	lot.Latitude = req.Latitude
	lot.Longitude = req.Longitude
	return s.lotRepo.Save(lot)
}

func (s *adminService) DeleteParkingLot(lotID int64) error {
	lot, err := s.lotRepo.GetByID(lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLotNotFound
		}
		return err
	}
	// rating rows and the aggregate cascade with the lot
	return s.lotRepo.Delete(lot)
}

func (s *adminService) ListRatings() ([]dto.RatingResponse, error) {
	ratings, err := s.ratingRepo.ListAll()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return responses, nil
}
