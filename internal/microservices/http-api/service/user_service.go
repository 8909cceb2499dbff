package service

import (
	"errors"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/models"
	"parkmate/internal/microservices/http-api/repository"
	"parkmate/internal/middleware/auth"

	"gorm.io/gorm"
)

// UserService covers the my-page operations: profile read/update and
// password change.
type UserService interface {
	Profile(userID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID, nickname, preferredFactor string) (*dto.ProfileResponse, error)
	ChangePassword(userID, currentPassword, newPassword string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Profile(userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToProfileResponse(user), nil
}

// UpdateProfile applies the non-empty fields. An unknown preferred factor is
// rejected rather than stored.
func (s *userService) UpdateProfile(userID, nickname, preferredFactor string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if nickname != "" && nickname != user.Nickname {
		if _, err := s.userRepo.FindByNickname(nickname); err == nil {
			return nil, ErrNicknameInUse
		}
		user.Nickname = nickname
	}

	if preferredFactor != "" {
		factor, err := models.ParsePreferredFactor(preferredFactor)
		if err != nil {
			return nil, ErrInvalidPreference
		}
		user.PreferredFactor = factor
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return dto.FromModelToProfileResponse(user), nil
}

func (s *userService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := auth.VerifyPassword(user.Password, currentPassword); err != nil {
		return ErrPasswordMismatch
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Save(user)
}
