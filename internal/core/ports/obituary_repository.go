package ports

import (
	"context"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

// ListObituariesFilter carries all query parameters for listing obituaries.
// Page and PageSize arrive unclamped from the transport layer; the service
// normalizes them before the repository sees them.
type ListObituariesFilter struct {
	Search    string // optional: case-insensitive substring match on full_name
	CreatorID string // optional: restrict to records created by this account
	Page      int    // 1-based
	PageSize  int    // rows per page
}

// ObituaryRepository defines persistence operations for obituary records.
type ObituaryRepository interface {
	// Create persists a new record and fills in the store-assigned id.
	Create(ctx context.Context, o *domain.Obituary) error
	// FindByID returns domain.ErrObituaryNotFound when no record exists.
	FindByID(ctx context.Context, id int64) (*domain.Obituary, error)
	// List returns a page of records ordered by created_at descending,
	// plus the total count of records matching the filter.
	List(ctx context.Context, filter ListObituariesFilter) ([]*domain.Obituary, int64, error)
	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, o *domain.Obituary) error
	// Delete removes the record permanently. No soft delete.
	Delete(ctx context.Context, id int64) error
}
