package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestMedia_Apply_ProgressMovesLastEdited(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	m := &Media{Name: "Show A", Category: "anime", Status: "watching", Progress: 3, LastEdited: created}

	changed := m.Apply(MediaChanges{Name: "Show A", Category: "anime", Status: "watching", Progress: 4}, later)

	assert.True(t, changed)
	assert.Equal(t, 4, m.Progress)
	assert.Equal(t, later, m.LastEdited)
}

func TestMedia_Apply_OtherFieldsKeepLastEdited(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	m := &Media{Name: "Show A", Category: "anime", Status: "watching", Progress: 3, LastEdited: created}

	changed := m.Apply(MediaChanges{
		Name:     "Show A (2024)",
		Category: "series",
		Status:   "completed",
		Progress: 3,
		Rating:   intPtr(18),
	}, later)

	assert.False(t, changed)
	assert.Equal(t, created, m.LastEdited)
	assert.Equal(t, "Show A (2024)", m.Name)
	assert.Equal(t, "series", m.Category)
	assert.Equal(t, "completed", m.Status)
	assert.Equal(t, 18, *m.Rating)
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		name    string
		rating  *int
		wantErr bool
	}{
		{"nil", nil, false},
		{"min", intPtr(0), false},
		{"max", intPtr(20), false},
		{"below", intPtr(-1), true},
		{"above", intPtr(21), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRating(tt.rating)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
