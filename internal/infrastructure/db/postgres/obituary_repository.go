package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

type ObituaryRepository struct {
	db *gorm.DB
}

func NewObituaryRepository(db *gorm.DB) *ObituaryRepository {
	return &ObituaryRepository{db: db}
}

// Create inserts a new row and fills in the store-assigned id.
func (r *ObituaryRepository) Create(ctx context.Context, o *domain.Obituary) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := toModel(o)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert obituary: %w", err)
	}
	o.ID = m.ID
	return nil
}

func (r *ObituaryRepository) FindByID(ctx context.Context, id int64) (*domain.Obituary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m obituaryModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrObituaryNotFound
		}
		return nil, fmt.Errorf("find obituary: %w", err)
	}
	return toDomain(&m), nil
}

// List applies the substring and creator filters, orders by created_at
// descending and pages with offset/limit. The filter arrives pre-clamped
// from the service.
func (r *ObituaryRepository) List(ctx context.Context, filter ports.ListObituariesFilter) ([]*domain.Obituary, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&obituaryModel{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(full_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.CreatorID != "" {
		q = q.Where("creator_id = ?", filter.CreatorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count obituaries: %w", err)
	}

	var models []obituaryModel
	err := q.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list obituaries: %w", err)
	}

	items := make([]*domain.Obituary, 0, len(models))
	for i := range models {
		items = append(items, toDomain(&models[i]))
	}
	return items, total, nil
}

// Update overwrites the mutable columns. Select forces writes even for zero
// values, so clearing the photo url or biography actually persists.
func (r *ObituaryRepository) Update(ctx context.Context, o *domain.Obituary) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&obituaryModel{ID: o.ID}).
		Select("full_name", "date_of_birth", "date_of_death", "biography", "photo_url", "updated_at").
		Updates(toModel(o))
	if res.Error != nil {
		return fmt.Errorf("update obituary: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrObituaryNotFound
	}
	return nil
}

func (r *ObituaryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&obituaryModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete obituary: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrObituaryNotFound
	}
	return nil
}

func toModel(o *domain.Obituary) *obituaryModel {
	return &obituaryModel{
		ID:          o.ID,
		FullName:    o.FullName,
		DateOfBirth: o.DateOfBirth,
		DateOfDeath: o.DateOfDeath,
		Biography:   o.Biography,
		PhotoURL:    o.PhotoURL,
		CreatorID:   o.CreatorID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toDomain(m *obituaryModel) *domain.Obituary {
	return &domain.Obituary{
		ID:          m.ID,
		FullName:    m.FullName,
		DateOfBirth: m.DateOfBirth,
		DateOfDeath: m.DateOfDeath,
		Biography:   m.Biography,
		PhotoURL:    m.PhotoURL,
		CreatorID:   m.CreatorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
