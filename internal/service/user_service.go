package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/sports-library/internal/domain"
)

var ErrInvalidProfile = errors.New("invalid profile data")

// UserUpdate carries the profile fields to change; nil fields are left as they are.
type UserUpdate struct {
	FirstName     *string
	LastName      *string
	EmailAddress  *string
	Gender        *domain.Gender
	TrainingLevel *domain.TrainingLevel
	Birthday      *time.Time
	MaxPulse      *int
}

type UserService interface {
	GetMe(ctx context.Context) (*domain.User, error)
	UpdateMe(ctx context.Context, update UserUpdate) (*domain.User, error)
}

type userService struct {
	lib *Library
}

func NewUserService(lib *Library) UserService {
	return &userService{lib: lib}
}

// GetMe returns the app user, creating it on first access.
func (s *userService) GetMe(ctx context.Context) (*domain.User, error) {
	return s.lib.AppUser(ctx)
}

func (s *userService) UpdateMe(ctx context.Context, update UserUpdate) (*domain.User, error) {
	if update.MaxPulse != nil && *update.MaxPulse < 0 {
		return nil, ErrInvalidProfile
	}
	if update.EmailAddress != nil && *update.EmailAddress != "" && !strings.Contains(*update.EmailAddress, "@") {
		return nil, ErrInvalidProfile
	}

	user, err := s.lib.AppUser(ctx)
	if err != nil {
		return nil, err
	}
	if update.FirstName != nil {
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.EmailAddress != nil {
		user.EmailAddress = strings.TrimSpace(*update.EmailAddress)
	}
	if update.Gender != nil {
		user.Gender = *update.Gender
	}
	if update.TrainingLevel != nil {
		user.TrainingLevel = *update.TrainingLevel
	}
	if update.Birthday != nil {
		birthday := *update.Birthday
		user.Birthday = &birthday
	}
	if update.MaxPulse != nil {
		user.MaxPulse = *update.MaxPulse
	}
	if err := s.lib.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
