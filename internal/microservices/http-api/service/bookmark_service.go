package service

import (
	"errors"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/models"
	"parkmate/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type BookmarkService interface {
	GetBookmarks(userID string) ([]dto.BookmarkResponse, error)
	AddBookmark(userID string, lotID int64) error
	DeleteBookmark(bookmarkID int64, requesterID string) error
}

type bookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	userRepo     repository.UserRepository
	lotRepo      repository.ParkingLotRepository
}

func NewBookmarkService(
	bookmarkRepo repository.BookmarkRepository,
	userRepo repository.UserRepository,
	lotRepo repository.ParkingLotRepository,
) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		userRepo:     userRepo,
		lotRepo:      lotRepo,
	}
}

func (s *bookmarkService) GetBookmarks(userID string) ([]dto.BookmarkResponse, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	bookmarks, err := s.bookmarkRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BookmarkResponse, 0, len(bookmarks))
	for i := range bookmarks {
		responses = append(responses, *dto.FromModelToBookmarkResponse(&bookmarks[i]))
	}
	return responses, nil
}

// AddBookmark refuses a second bookmark for the same lot by the same user.
func (s *bookmarkService) AddBookmark(userID string, lotID int64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.lotRepo.GetByID(lotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLotNotFound
		}
		return err
	}

	exists, err := s.bookmarkRepo.ExistsByUserAndLot(userID, lotID)
	if err != nil {
		return err
	}
	if exists {
		return ErrBookmarkExists
	}

	return s.bookmarkRepo.Create(&models.Bookmark{UserID: userID, LotID: lotID})
}

func (s *bookmarkService) DeleteBookmark(bookmarkID int64, requesterID string) error {
	bookmark, err := s.bookmarkRepo.GetByID(bookmarkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookmarkNotFound
		}
		return err
	}
	if bookmark.UserID != requesterID {
		return ErrNotBookmarkOwner
	}

	return s.bookmarkRepo.Delete(bookmark)
}
