package domain

import (
	"errors"
	"time"
)

var ErrObituaryNotFound = errors.New("obituary not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidDateRange = errors.New("date of birth must be before or equal to date of death")
var ErrImageTooLarge = errors.New("image size must be 5 MiB or less")
var ErrUnsupportedImage = errors.New("only JPEG and PNG images are allowed")

// Obituary is the core aggregate root: one published record.
type Obituary struct {
	ID          int64      `json:"id"`
	FullName    string     `json:"full_name"`
	DateOfBirth time.Time  `json:"date_of_birth"`
	DateOfDeath time.Time  `json:"date_of_death"`
	Biography   string     `json:"biography"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	CreatorID   string     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DatesOrdered reports whether the birth date is on or before the death date.
func (o *Obituary) DatesOrdered() bool {
	return !o.DateOfBirth.After(o.DateOfDeath)
}
