package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

const propertyListKey = "properties:all"

func propertyKey(id uint) string {
	return fmt.Sprintf("property:%d", id)
}

type PropertyRepository struct {
	db    *gorm.DB
	cache Cache
}

func NewPropertyRepository(db *gorm.DB, cache Cache) *PropertyRepository {
	if cache == nil {
		cache = NewMemoryCache(0)
	}
	return &PropertyRepository{db: db, cache: cache}
}

// List returns all properties without their overrides, ordered by name.
func (r *PropertyRepository) List(ctx context.Context, propertyType models.PropertyType) ([]models.Property, error) {
	var all []models.Property
	if !r.cache.Get(ctx, propertyListKey, &all) {
		if err := r.db.WithContext(ctx).Order("name asc").Find(&all).Error; err != nil {
			return nil, err
		}
		r.cache.Set(ctx, propertyListKey, all)
	}

	if propertyType == "" {
		return all, nil
	}
	filtered := make([]models.Property, 0, len(all))
	for _, p := range all {
		if p.Type == propertyType {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Get loads a property together with its date overrides.
func (r *PropertyRepository) Get(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if r.cache.Get(ctx, propertyKey(id), &p) {
		return &p, nil
	}

	err := r.db.WithContext(ctx).Preload("Overrides", func(db *gorm.DB) *gorm.DB {
		return db.Order("date asc")
	}).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, propertyKey(id), p)
	return &p, nil
}

// SlugTaken ignores exceptID so a property can keep its own slug. Deleted
// properties still hold theirs in the unique index.
func (r *PropertyRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Property{}).Where("slug = ? AND id <> ?", slug, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	if err := r.db.WithContext(ctx).Omit("Overrides").Create(p).Error; err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	if err := r.db.WithContext(ctx).Omit("Overrides").Save(p).Error; err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Property{}, id)
	if res.Error != nil {
		return res.Error
	}
	r.invalidate(ctx, id)
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertOverrides writes the given prices in one transaction.
func (r *PropertyRepository) UpsertOverrides(ctx context.Context, propertyID uint, prices map[calendar.Date]int64) error {
	if len(prices) == 0 {
		return nil
	}
	rows := make([]models.DateOverride, 0, len(prices))
	for d, price := range prices {
		rows = append(rows, models.DateOverride{PropertyID: propertyID, Date: d, Price: price})
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}
	r.invalidate(ctx, propertyID)
	return nil
}

func (r *PropertyRepository) DeleteOverride(ctx context.Context, propertyID uint, d calendar.Date) error {
	res := r.db.WithContext(ctx).Where("property_id = ? AND date = ?", propertyID, d).Delete(&models.DateOverride{})
	if res.Error != nil {
		return res.Error
	}
	r.invalidate(ctx, propertyID)
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) invalidate(ctx context.Context, id uint) {
	r.cache.Delete(ctx, propertyListKey, propertyKey(id))
}
