package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	users    *repository.UserRepository
	bookings *repository.BookingRepository
}

func NewUserService(users *repository.UserRepository, bookings *repository.BookingRepository) *UserService {
	return &UserService{users: users, bookings: bookings}
}

type UserWithStats struct {
	models.User
	models.UserStats
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

// List returns users with booking statistics derived from the bookings
// table at read time.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]UserWithStats, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	stats, err := s.bookings.StatsByUser(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]UserWithStats, len(users))
	for i, u := range users {
		out[i] = UserWithStats{User: u, UserStats: stats[u.ID]}
	}
	return out, nil
}

type UserUpdate struct {
	Name   *string
	Phone  *string
	Role   *models.Role
	Status *models.UserStatus
}

// Update changes a user on behalf of an admin. Admins cannot change their own
// role or status, so the last admin cannot lock everyone out.
func (s *UserService) Update(ctx context.Context, actorID, id uint, in UserUpdate) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		if actorID == id && *in.Role != u.Role {
			return nil, ErrSelfDemotion
		}
		u.Role = *in.Role
	}
	if in.Status != nil {
		if !models.ValidUserStatus(*in.Status) {
			return nil, ErrInvalidRole
		}
		if actorID == id && *in.Status != u.Status {
			return nil, ErrSelfDemotion
		}
		u.Status = *in.Status
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	u.Normalize()

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user": id, "actor": actorID, "role": u.Role, "status": u.Status}).Info("User updated")
	return u, nil
}

// CreateAPIKey returns the clear-text key once; only its hash is stored.
func (s *UserService) CreateAPIKey(ctx context.Context, userID uint, name string, expiresAt *time.Time) (string, *models.APIKey, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", nil, err
	}
	key := hex.EncodeToString(keyBytes)

	apiKey := &models.APIKey{
		UserID:    userID,
		KeyHash:   models.HashAPIKey(key),
		Last4:     key[len(key)-4:],
		Name:      strings.TrimSpace(name),
		ExpiresAt: expiresAt,
	}
	if err := s.users.CreateAPIKey(ctx, apiKey); err != nil {
		return "", nil, err
	}
	return key, apiKey, nil
}

func (s *UserService) ListAPIKeys(ctx context.Context, userID uint) ([]models.APIKey, error) {
	return s.users.ListAPIKeys(ctx, userID)
}

func (s *UserService) DeleteAPIKey(ctx context.Context, userID, keyID uint) error {
	err := s.users.DeleteAPIKey(ctx, userID, keyID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
