package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/obituaryapp/obituary-api/internal/api/metrics"
	"github.com/obituaryapp/obituary-api/internal/core/domain"
	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ObituaryService implements CRUD over obituary records, including ownership
// authorization and best-effort photo file cleanup.
type ObituaryService struct {
	repo   ports.ObituaryRepository
	photos ports.PhotoStore
	logger zerolog.Logger
}

func NewObituaryService(repo ports.ObituaryRepository, photos ports.PhotoStore, logger zerolog.Logger) *ObituaryService {
	return &ObituaryService{repo: repo, photos: photos, logger: logger}
}

// Create persists a new record. The creation timestamp is set server-side;
// the date-ordering invariant is enforced here so create and update share it.
func (s *ObituaryService) Create(ctx context.Context, input ports.CreateObituaryInput) (*domain.Obituary, error) {
	o := &domain.Obituary{
		FullName:    input.FullName,
		DateOfBirth: input.DateOfBirth,
		DateOfDeath: input.DateOfDeath,
		Biography:   input.Biography,
		PhotoURL:    input.PhotoURL,
		CreatorID:   input.CreatorID,
		CreatedAt:   time.Now().UTC(),
	}
	if !o.DatesOrdered() {
		return nil, domain.ErrInvalidDateRange
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error().Err(err).Msg("failed to create obituary")
		return nil, err
	}

	metrics.ObituariesCreatedTotal.Inc()
	s.logger.Info().Int64("obituary_id", o.ID).Str("creator_id", o.CreatorID).Msg("obituary created")
	return o, nil
}

func (s *ObituaryService) GetByID(ctx context.Context, id int64) (*domain.Obituary, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of records, most recent first. Caller-supplied bounds
// are clamped: page < 1 becomes 1, page size defaults to 20 and is capped at
// 100 to avoid unbounded result sets.
func (s *ObituaryService) List(ctx context.Context, filter ports.ListObituariesFilter) (*ports.ListObituariesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list obituaries")
		return nil, err
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize != 0 {
		totalPages++
	}

	return &ports.ListObituariesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update overwrites the mutable fields of an existing record. Not-found is
// checked before authorization, so a missing record yields not-found
// regardless of the caller's identity. When the photo reference changes, the
// old file is removed best effort.
func (s *ObituaryService) Update(ctx context.Context, requester ports.Requester, input ports.UpdateObituaryInput) error {
	existing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && existing.CreatorID != requester.ID {
		return domain.ErrForbidden
	}

	updated := &domain.Obituary{
		ID:          existing.ID,
		FullName:    input.FullName,
		DateOfBirth: input.DateOfBirth,
		DateOfDeath: input.DateOfDeath,
		Biography:   input.Biography,
		PhotoURL:    input.PhotoURL,
		CreatorID:   existing.CreatorID,
		CreatedAt:   existing.CreatedAt,
	}
	if !updated.DatesOrdered() {
		return domain.ErrInvalidDateRange
	}
	now := time.Now().UTC()
	updated.UpdatedAt = &now

	if existing.PhotoURL != "" && existing.PhotoURL != input.PhotoURL {
		s.removePhoto(ctx, existing.ID, existing.PhotoURL)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error().Err(err).Int64("obituary_id", input.ID).Msg("failed to update obituary")
		return err
	}

	s.logger.Info().Int64("obituary_id", input.ID).Str("requester_id", requester.ID).Msg("obituary updated")
	return nil
}

// Delete removes a record permanently. Any associated photo file is removed
// best effort; a failed file removal never blocks record deletion.
func (s *ObituaryService) Delete(ctx context.Context, requester ports.Requester, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && existing.CreatorID != requester.ID {
		return domain.ErrForbidden
	}

	if existing.PhotoURL != "" {
		s.removePhoto(ctx, existing.ID, existing.PhotoURL)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("obituary_id", id).Msg("failed to delete obituary")
		return err
	}

	s.logger.Info().Int64("obituary_id", id).Str("requester_id", requester.ID).Msg("obituary deleted")
	return nil
}

// removePhoto deletes an uploaded file, surfacing failures only through the
// log and the cleanup-failure counter.
func (s *ObituaryService) removePhoto(ctx context.Context, id int64, photoURL string) {
	if err := s.photos.Remove(ctx, photoURL); err != nil {
		metrics.PhotoCleanupFailuresTotal.Inc()
		s.logger.Warn().Err(err).
			Int64("obituary_id", id).
			Str("photo_url", photoURL).
			Msg("photo cleanup failed")
	}
}
