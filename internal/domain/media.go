package domain

import (
	"fmt"
	"time"
)

// Rating bounds, inclusive.
const (
	RatingMin = 0
	RatingMax = 20
)

// Media is a tracked show, book, game or anything else the user follows.
// Category and Status are free text ("anime", "in progress").
type Media struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"`
	Rating     *int      `json:"rating"`
	LastEdited time.Time `json:"last_edited"`
	OwnerID    int64     `json:"user_id"`
	Tags       []*Tag    `json:"tags"`
}

// MediaChanges is the set of fields an owner may change on a media record.
type MediaChanges struct {
	Name     string
	Category string
	Status   string
	Progress int
	Rating   *int
}

// Apply copies the mutable fields onto m. LastEdited moves to now only when
// the progress counter actually changes; renames and status changes leave it
// alone. Returns whether progress changed.
func (m *Media) Apply(c MediaChanges, now time.Time) bool {
	progressChanged := m.Progress != c.Progress

	m.Name = c.Name
	m.Category = c.Category
	m.Status = c.Status
	m.Progress = c.Progress
	m.Rating = c.Rating

	if progressChanged {
		m.LastEdited = now
	}
	return progressChanged
}

// ValidateRating checks an optional rating against [RatingMin, RatingMax].
func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < RatingMin || *rating > RatingMax {
		return fmt.Errorf("rating must be between %d and %d, got %d", RatingMin, RatingMax, *rating)
	}
	return nil
}

// MediaFilter narrows a media listing. Empty fields match everything.
type MediaFilter struct {
	Category string
	Status   string
}
