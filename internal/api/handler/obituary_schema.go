package handler

import (
	"time"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// createObituaryForm mirrors the multipart form fields of POST /api/obituaries.
// The photo file is read separately from the multipart payload.
type createObituaryForm struct {
	FullName    string `form:"FullName"    validate:"required"`
	DateOfBirth string `form:"DateOfBirth" validate:"required,datetime=2006-01-02"`
	DateOfDeath string `form:"DateOfDeath" validate:"required,datetime=2006-01-02"`
	Biography   string `form:"Biography"   validate:"required"`
}

// updateObituaryRequest is the JSON body of PUT /api/obituaries/:id. PhotoURL
// is a pre-validated reference, not re-uploaded bytes.
type updateObituaryRequest struct {
	FullName    string `json:"full_name"     validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	DateOfDeath string `json:"date_of_death" validate:"required,datetime=2006-01-02"`
	Biography   string `json:"biography"     validate:"required"`
	PhotoURL    string `json:"photo_url"`
}

type obituaryResponse struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	DateOfDeath string `json:"date_of_death"`
	Biography   string `json:"biography"`
	PhotoURL    string `json:"photo_url,omitempty"`
	CreatorID   string `json:"creator_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type listObituariesResponse struct {
	Items      []obituaryResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func toObituaryResponse(o *domain.Obituary) obituaryResponse {
	resp := obituaryResponse{
		ID:          o.ID,
		FullName:    o.FullName,
		DateOfBirth: o.DateOfBirth.Format(dateLayout),
		DateOfDeath: o.DateOfDeath.Format(dateLayout),
		Biography:   o.Biography,
		PhotoURL:    o.PhotoURL,
		CreatorID:   o.CreatorID,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.UpdatedAt != nil {
		resp.UpdatedAt = o.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
