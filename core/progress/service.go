// Package progress implements the progress-tracking and activity-unlocking
// subsystem: per-activity merge updates, the aggregate completion percentage
// and the strict linear unlock chain over the activity catalog.
package progress

import (
	"context"
	goerrors "errors"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/activity"
)

// Activity statuses, derived per user from the record and the unlock chain.
const (
	StatusLocked     = "locked"
	StatusAvailable  = "available"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

var (
	errBadActivityID = goerrors.New("activity id out of range")
	errBadProgress   = goerrors.New("progress must be between 0 and 100")
)

type (
	ServiceInterface interface {
		Initialize(ctx context.Context, userID string) (UserProgress, error)
		GetOrInit(ctx context.Context, userID string) (UserProgress, error)
		Update(ctx context.Context, userID string, activityID int, delta Delta) (UserProgress, error)
		Reset(ctx context.Context, userID string) (UserProgress, error)
		All(ctx context.Context) (map[string]UserProgress, error)
	}

	// Service holds all business logic around a single user's progress.
	// A single mutex serializes load→merge→save so updates within this
	// process cannot trample each other; cross-process writers are out of
	// scope (single-writer assumption).
	Service struct {
		store Store
		total int

		mu      sync.Mutex
		nowFunc func() time.Time // mockable
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(store Store) *Service {
	return &Service{
		store:   store,
		total:   activity.Count(),
		nowFunc: time.Now,
	}
}

// Initialize constructs a fresh record for the user, persists it and returns it.
// Any existing record is overwritten. Callers should prefer GetOrInit.
func (svc *Service) Initialize(ctx context.Context, userID string) (UserProgress, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.initialize(ctx, userID)
}

// GetOrInit returns the user's record, lazily creating it on first access.
// Absence of a record is never an error here.
func (svc *Service) GetOrInit(ctx context.Context, userID string) (UserProgress, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.store.LoadAll(ctx)
	if err != nil {
		return UserProgress{}, errors.Wrap(err, "loading progress")
	}
	if up, ok := all[userID]; ok {
		return up, nil
	}
	return svc.initialize(ctx, userID)
}

// Update merges the delta into the named activity's sub-record, normalizes
// completion, recomputes the aggregates and persists the whole mapping.
// The merged record is returned. The sequence is transactional at the call
// boundary: a failed save leaves nothing partially written.
func (svc *Service) Update(ctx context.Context, userID string, activityID int, delta Delta) (UserProgress, error) {
	if activityID < 1 || activityID > svc.total {
		return UserProgress{}, core.NewValidationError(errBadActivityID,
			core.FieldError{Field: "activity_id", Error: errBadActivityID.Error()})
	}
	if delta.Progress != nil && (*delta.Progress < 0 || *delta.Progress > 100) {
		return UserProgress{}, core.NewValidationError(errBadProgress,
			core.FieldError{Field: "progress", Error: errBadProgress.Error()})
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.store.LoadAll(ctx)
	if err != nil {
		return UserProgress{}, errors.Wrap(err, "loading progress")
	}
	up, ok := all[userID]
	if !ok {
		up = svc.newRecord(userID)
	}
	if up.Activities == nil {
		up.Activities = map[string]ActivityProgress{}
	}

	key := strconv.Itoa(activityID)
	ap := up.Activities[key] // zero value is the lazily-initialized sub-record

	// merge: last-write-wins per field
	if delta.Progress != nil {
		ap.Progress = *delta.Progress
	}
	if delta.Completed != nil {
		ap.Completed = ap.Completed || *delta.Completed // monotonic
	}
	if delta.Started != nil {
		ap.Started = *delta.Started
	}
	if delta.Score != nil {
		score := *delta.Score
		ap.Score = &score
	}
	if delta.Attempts != nil {
		ap.Attempts = *delta.Attempts
	}
	if delta.TimeSpent != nil {
		spent := *delta.TimeSpent
		ap.TimeSpent = &spent
	}

	// completion is the stronger signal: asserting either side forces both
	if ap.Progress == 100 || ap.Completed {
		ap.Completed = true
		ap.Progress = 100
	}

	now := svc.nowFunc().UTC()
	ap.LastAccessed = now
	up.Activities[key] = ap
	up.LastAccessed = now
	up.TotalProgress = svc.totalProgress(up)
	up.CurrentActivity = svc.currentActivity(up)

	all[userID] = up
	if err := svc.store.SaveAll(ctx, all); err != nil {
		return UserProgress{}, errors.Wrap(err, "saving progress")
	}
	return up, nil
}

// Reset discards the user's record and recreates it from scratch.
func (svc *Service) Reset(ctx context.Context, userID string) (UserProgress, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.initialize(ctx, userID)
}

// All returns every user's record; feeds the teacher dashboard and CSV export.
func (svc *Service) All(ctx context.Context) (map[string]UserProgress, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.store.LoadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading progress")
	}
	return all, nil
}

// initialize must be called with the mutex held.
func (svc *Service) initialize(ctx context.Context, userID string) (UserProgress, error) {
	up := svc.newRecord(userID)

	all, err := svc.store.LoadAll(ctx)
	if err != nil {
		return UserProgress{}, errors.Wrap(err, "loading progress")
	}
	all[userID] = up
	if err := svc.store.SaveAll(ctx, all); err != nil {
		return UserProgress{}, errors.Wrap(err, "saving progress")
	}
	return up, nil
}

func (svc *Service) newRecord(userID string) UserProgress {
	now := svc.nowFunc().UTC()
	return UserProgress{
		UserID:          userID,
		CurrentActivity: 1,
		Activities:      map[string]ActivityProgress{},
		TotalProgress:   0,
		LastAccessed:    now,
		CreatedAt:       now,
	}
}

// totalProgress is round(100 * completedCount / totalActivityCount).
func (svc *Service) totalProgress(up UserProgress) int {
	var completed int
	for _, ap := range up.Activities {
		if ap.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(svc.total) * 100))
}

// currentActivity is the smallest uncompleted id, or the last id when the
// whole curriculum is completed.
func (svc *Service) currentActivity(up UserProgress) int {
	for id := 1; id <= svc.total; id++ {
		if !up.Activities[strconv.Itoa(id)].Completed {
			return id
		}
	}
	return svc.total
}

// IsUnlocked implements the strict linear-chain unlock policy: activity 1 is
// always unlocked; activity k>1 is unlocked iff activity k-1 is completed.
// Pure and side-effect free.
func IsUnlocked(up UserProgress, activityID int) bool {
	if activityID == 1 {
		return true
	}
	return up.Activities[strconv.Itoa(activityID-1)].Completed
}

// StatusOf derives the activity's status for this user.
func StatusOf(up UserProgress, activityID int) string {
	if !IsUnlocked(up, activityID) {
		return StatusLocked
	}
	ap, ok := up.Activities[strconv.Itoa(activityID)]
	if !ok {
		return StatusAvailable
	}
	if ap.Completed {
		return StatusCompleted
	}
	if ap.Started || ap.Progress > 0 {
		return StatusInProgress
	}
	return StatusAvailable
}
