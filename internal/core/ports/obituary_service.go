package ports

import (
	"context"
	"time"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

// Requester identifies the authenticated caller of a mutating operation.
// ID comes from the token's subject claim (or the session's user id); Roles
// carries one entry per role membership.
type Requester struct {
	ID    string
	Roles []string
}

// IsAdmin reports whether the requester holds the admin role.
func (r Requester) IsAdmin() bool {
	for _, role := range r.Roles {
		if role == domain.RoleAdmin {
			return true
		}
	}
	return false
}

// CreateObituaryInput carries all data needed to create a new record.
// PhotoURL is the public path of an already-validated upload, or empty.
type CreateObituaryInput struct {
	FullName    string
	DateOfBirth time.Time
	DateOfDeath time.Time
	Biography   string
	PhotoURL    string
	CreatorID   string
}

// UpdateObituaryInput carries the mutable fields of an existing record.
type UpdateObituaryInput struct {
	ID          int64
	FullName    string
	DateOfBirth time.Time
	DateOfDeath time.Time
	Biography   string
	PhotoURL    string
}

// ListObituariesResult is returned by List.
type ListObituariesResult struct {
	Items      []*domain.Obituary
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ObituaryService defines use-case operations for obituary records.
type ObituaryService interface {
	// Create persists a new record with a server-side creation timestamp.
	Create(ctx context.Context, input CreateObituaryInput) (*domain.Obituary, error)
	// GetByID returns domain.ErrObituaryNotFound when no record exists.
	GetByID(ctx context.Context, id int64) (*domain.Obituary, error)
	// List returns a page of records, most recent first. Page and page size
	// are clamped to sane bounds.
	List(ctx context.Context, filter ListObituariesFilter) (*ListObituariesResult, error)
	// Update overwrites an existing record. Only the creator or an admin may
	// update; a missing record reports not-found before authorization.
	Update(ctx context.Context, requester Requester, input UpdateObituaryInput) error
	// Delete removes a record and, best effort, its photo file. Same
	// authorization rule and not-found ordering as Update.
	Delete(ctx context.Context, requester Requester, id int64) error
}
