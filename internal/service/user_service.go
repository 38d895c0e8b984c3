package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"
)

type UserService interface {
	// Upsert creates the profile on first sign-in and refreshes it afterwards.
	Upsert(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	if u.Role == "" {
		u.Role = "student"
	}
	if err := s.userRepo.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
