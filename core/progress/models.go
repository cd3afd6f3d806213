package progress

import (
	"context"
	"time"
)

type (
	// ActivityProgress is one user's state for one activity.
	ActivityProgress struct {
		Progress  int  `json:"progress"`
		Completed bool `json:"completed"`
		Started   bool `json:"started"`
		// Score is the last reported score; overwritten, never accumulated.
		Score    *int `json:"score,omitempty"`
		Attempts int  `json:"attempts"`
		// TimeSpent is seconds, as reported by the client.
		TimeSpent    *int      `json:"time_spent,omitempty"`
		LastAccessed time.Time `json:"last_accessed"`
	}

	// UserProgress is the whole per-user record. Activities is keyed by the
	// activity id rendered as a string (the persisted JSON document shape).
	UserProgress struct {
		UserID          string                      `json:"user_id"`
		CurrentActivity int                         `json:"current_activity"`
		Activities      map[string]ActivityProgress `json:"activities"`
		TotalProgress   int                         `json:"total_progress"`
		LastAccessed    time.Time                   `json:"last_accessed"`
		CreatedAt       time.Time                   `json:"created_at"`
	}

	// Delta is a partial update to one activity's progress. Every non-nil
	// field overwrites the stored value (last-write-wins); nil fields are
	// left untouched. Attempts included: the caller sends the new total,
	// not an increment. Unknown fields are rejected at the API boundary.
	Delta struct {
		Progress  *int  `json:"progress"`
		Completed *bool `json:"completed"`
		Started   *bool `json:"started"`
		Score     *int  `json:"score"`
		Attempts  *int  `json:"attempts"`
		TimeSpent *int  `json:"time_spent"`
	}

	// Store is durable whole-document persistence of the user→record mapping.
	// LoadAll returns an empty mapping (not an error) when nothing has been
	// persisted yet; SaveAll replaces the entire document.
	Store interface {
		LoadAll(ctx context.Context) (map[string]UserProgress, error)
		SaveAll(ctx context.Context, all map[string]UserProgress) error
	}
)

// IsEmpty reports whether the delta carries no fields at all.
func (d Delta) IsEmpty() bool {
	return d.Progress == nil && d.Completed == nil && d.Started == nil &&
		d.Score == nil && d.Attempts == nil && d.TimeSpent == nil
}
