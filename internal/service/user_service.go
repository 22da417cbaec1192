package service

import (
	"context"

	"rentmarket/internal/config"
	"rentmarket/internal/models"
	"rentmarket/internal/repository"
)

// UpdateProfileRequest - частичное обновление профиля: nil-поле не трогает
// хранимое значение. Username намеренно отсутствует: публичное имя
// фиксируется при регистрации.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=10"`
	Address     *string `json:"address"`
	Image       *string `json:"image"`
	UserType    *string `json:"userType" validate:"omitempty,oneof=personal business"`
	Description *string `json:"description"`
	Instagram   *string `json:"instagram"`
	LinkedIn    *string `json:"linkedIn"`
	Facebook    *string `json:"facebook"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.UserType != nil {
		user.UserType = *req.UserType
	}
	if req.Description != nil {
		user.Description = *req.Description
	}
	if req.Instagram != nil {
		user.Instagram = *req.Instagram
	}
	if req.LinkedIn != nil {
		user.LinkedIn = *req.LinkedIn
	}
	if req.Facebook != nil {
		user.Facebook = *req.Facebook
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
