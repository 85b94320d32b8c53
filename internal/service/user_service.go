package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"modqueue/internal/cache"
	apperrors "modqueue/internal/errors"
	"modqueue/internal/model"
	"modqueue/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes read access to user profiles.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*model.UserSummary, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetProfile returns the public profile of a user, reading through the cache.
// Users are never updated, so cached profiles need no invalidation.
func (s *userService) GetProfile(ctx context.Context, id uint) (*model.UserSummary, error) {
	var cached model.UserSummary
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.PersistenceError("Failed to load user", err)
	}

	summary := user.Summary()
	s.cache.SetJSON(ctx, s.cacheKey(id), summary, userCacheTTL)
	return &summary, nil
}
