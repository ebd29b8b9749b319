package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"gorm.io/gorm"
)

type UserFilter struct {
	Role   models.Role
	Status models.UserStatus
	Search string
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the user on first login and refreshes the profile fields the
// identity provider owns on later ones. Role and status are never touched
// unless promote is set.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User, promote bool) (*models.User, error) {
	u.Normalize()
	var existing models.User
	err := r.db.WithContext(ctx).Where("identity_id = ?", u.IdentityID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if promote {
			u.Role = models.RoleAdmin
		}
		if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
			return nil, err
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}

	existing.Email = u.Email
	existing.Name = u.Name
	existing.Avatar = u.Avatar
	if promote {
		existing.Role = models.RoleAdmin
	}
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *UserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var users []models.User
	err := q.Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// CreateAPIKey stores a key row; the caller keeps the clear-text key.
func (r *UserRepository) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *UserRepository) ListAPIKeys(ctx context.Context, userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&keys).Error
	return keys, err
}

func (r *UserRepository) DeleteAPIKey(ctx context.Context, userID, keyID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", keyID, userID).Delete(&models.APIKey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByAPIKey resolves a clear-text key to its owner and stamps LastUsedAt.
// Expired keys are reported as not found.
func (r *UserRepository) FindByAPIKey(ctx context.Context, key string, now time.Time) (*models.User, error) {
	var apiKey models.APIKey
	err := r.db.WithContext(ctx).Preload("User").Where("key_hash = ?", models.HashAPIKey(key)).First(&apiKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if apiKey.ExpiresAt != nil && now.After(*apiKey.ExpiresAt) {
		return nil, ErrNotFound
	}

	r.db.WithContext(ctx).Model(&apiKey).UpdateColumn("last_used_at", now)
	return &apiKey.User, nil
}
