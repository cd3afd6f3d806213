package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/activity"
)

// fakeStore keeps everything in memory; LoadErr/SaveErr inject faults.
type fakeStore struct {
	all     map[string]UserProgress
	LoadErr error
	SaveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{all: map[string]UserProgress{}}
}

func (s *fakeStore) LoadAll(_ context.Context) (map[string]UserProgress, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	out := make(map[string]UserProgress, len(s.all))
	for k, v := range s.all {
		acts := make(map[string]ActivityProgress, len(v.Activities))
		for ak, av := range v.Activities {
			acts[ak] = av
		}
		v.Activities = acts
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) SaveAll(_ context.Context, all map[string]UserProgress) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.all = all
	s.saves++
	return nil
}

func newTestService(store Store) *Service {
	svc := NewService(store)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return svc
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestInitialize(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	up, err := svc.Initialize(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", up.UserID)
	assert.Equal(t, 1, up.CurrentActivity)
	assert.Equal(t, 0, up.TotalProgress)
	assert.Empty(t, up.Activities)
	assert.False(t, up.CreatedAt.IsZero())
}

func TestGetOrInit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	// first access creates and persists the record
	up, err := svc.GetOrInit(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	// second access returns the same record without saving again
	again, err := svc.GetOrInit(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, up, again)
	assert.Equal(t, 1, store.saves)
}

func TestUpdate_validation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	tests := []struct {
		name       string
		activityID int
		delta      Delta
	}{
		{"activity id zero", 0, Delta{}},
		{"activity id negative", -3, Delta{}},
		{"activity id too large", activity.Count() + 1, Delta{}},
		{"progress negative", 1, Delta{Progress: intPtr(-1)}},
		{"progress above 100", 1, Delta{Progress: intPtr(101)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "u1", tt.activityID, tt.delta)
			var vErr *core.ValidationError
			assert.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
		})
	}
}

func TestUpdate_mergeLastWriteWins(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	up, err := svc.Update(ctx, "u1", 1, Delta{
		Progress:  intPtr(40),
		Started:   boolPtr(true),
		Score:     intPtr(60),
		Attempts:  intPtr(1),
		TimeSpent: intPtr(120),
	})
	require.NoError(t, err)

	ap := up.Activities["1"]
	assert.Equal(t, 40, ap.Progress)
	assert.True(t, ap.Started)
	assert.Equal(t, 60, *ap.Score)
	assert.Equal(t, 1, ap.Attempts)
	assert.Equal(t, 120, *ap.TimeSpent)

	// omitted fields survive the next update untouched
	up, err = svc.Update(ctx, "u1", 1, Delta{Progress: intPtr(70)})
	require.NoError(t, err)
	ap = up.Activities["1"]
	assert.Equal(t, 70, ap.Progress)
	assert.True(t, ap.Started)
	assert.Equal(t, 60, *ap.Score)
	assert.Equal(t, 1, ap.Attempts)
}

// Attempts carries the caller's new total, never an increment.
func TestUpdate_attemptsOverwrite(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", 9, Delta{Attempts: intPtr(1)})
	require.NoError(t, err)
	up, err := svc.Update(ctx, "u1", 9, Delta{Attempts: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, up.Activities["9"].Attempts)
}

func TestUpdate_completionNormalization(t *testing.T) {
	ctx := context.Background()

	t.Run("progress 100 forces completed", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		up, err := svc.Update(ctx, "u1", 1, Delta{Progress: intPtr(100)})
		require.NoError(t, err)
		assert.True(t, up.Activities["1"].Completed)
	})

	t.Run("completed forces progress 100", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		up, err := svc.Update(ctx, "u1", 1, Delta{Completed: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, 100, up.Activities["1"].Progress)
	})

	t.Run("completion is monotonic", func(t *testing.T) {
		svc := newTestService(newFakeStore())
		_, err := svc.Update(ctx, "u1", 1, Delta{Completed: boolPtr(true)})
		require.NoError(t, err)

		// completed=false cannot revoke completion
		up, err := svc.Update(ctx, "u1", 1, Delta{Completed: boolPtr(false)})
		require.NoError(t, err)
		assert.True(t, up.Activities["1"].Completed)
		assert.Equal(t, 100, up.Activities["1"].Progress)
	})
}

func TestUpdate_aggregates(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()
	total := activity.Count()

	// fresh record: everything at the start
	up, err := svc.Update(ctx, "u1", 1, Delta{Started: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 0, up.TotalProgress)
	assert.Equal(t, 1, up.CurrentActivity)

	// completing 1 moves the cursor to 2; 1/10 rounds to 10%
	up, err = svc.Update(ctx, "u1", 1, Delta{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 10, up.TotalProgress)
	assert.Equal(t, 2, up.CurrentActivity)

	// completing out of order: cursor stays at the first gap
	up, err = svc.Update(ctx, "u1", 5, Delta{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 20, up.TotalProgress)
	assert.Equal(t, 2, up.CurrentActivity)

	// complete everything: 100%, cursor parks on the last activity
	for id := 1; id <= total; id++ {
		up, err = svc.Update(ctx, "u1", id, Delta{Completed: boolPtr(true)})
		require.NoError(t, err)
	}
	assert.Equal(t, 100, up.TotalProgress)
	assert.Equal(t, total, up.CurrentActivity)
}

func TestUpdate_idempotent(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	delta := Delta{Progress: intPtr(100), Score: intPtr(85)}
	first, err := svc.Update(ctx, "u1", 3, delta)
	require.NoError(t, err)
	second, err := svc.Update(ctx, "u1", 3, delta)
	require.NoError(t, err)

	// timestamps move, the merged state does not
	assert.Equal(t, first.TotalProgress, second.TotalProgress)
	assert.Equal(t, first.CurrentActivity, second.CurrentActivity)
	assert.Equal(t, first.Activities["3"].Progress, second.Activities["3"].Progress)
	assert.Equal(t, first.Activities["3"].Completed, second.Activities["3"].Completed)
	assert.Equal(t, *first.Activities["3"].Score, *second.Activities["3"].Score)
}

func TestUpdate_lazyInit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	// updating without prior initialization creates the record on the fly
	up, err := svc.Update(ctx, "newcomer", 1, Delta{Started: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "newcomer", up.UserID)
	_, ok := store.all["newcomer"]
	assert.True(t, ok)
}

func TestUpdate_storageFaults(t *testing.T) {
	ctx := context.Background()

	t.Run("load failure", func(t *testing.T) {
		store := newFakeStore()
		store.LoadErr = core.NewStorageReadError(errors.New("disk gone"))
		svc := newTestService(store)

		_, err := svc.Update(ctx, "u1", 1, Delta{Started: boolPtr(true)})
		assert.True(t, core.IsStorageError(err))
	})

	t.Run("save failure leaves nothing behind", func(t *testing.T) {
		store := newFakeStore()
		store.SaveErr = core.NewStorageWriteError(errors.New("disk full"))
		svc := newTestService(store)

		_, err := svc.Update(ctx, "u1", 1, Delta{Started: boolPtr(true)})
		assert.True(t, core.IsStorageError(err))
		assert.Empty(t, store.all)
	})
}

func TestReset(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", 1, Delta{Completed: boolPtr(true)})
	require.NoError(t, err)

	up, err := svc.Reset(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, up.CurrentActivity)
	assert.Equal(t, 0, up.TotalProgress)
	assert.Empty(t, up.Activities)
}

func TestAll(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Initialize(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.Initialize(ctx, "u2")
	require.NoError(t, err)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIsUnlocked(t *testing.T) {
	up := UserProgress{Activities: map[string]ActivityProgress{}}

	// activity 1 is always unlocked, the rest are locked on a fresh record
	assert.True(t, IsUnlocked(up, 1))
	for id := 2; id <= activity.Count(); id++ {
		assert.False(t, IsUnlocked(up, id), "activity %d", id)
	}

	// completing k-1 unlocks exactly k
	up.Activities["1"] = ActivityProgress{Completed: true}
	assert.True(t, IsUnlocked(up, 2))
	assert.False(t, IsUnlocked(up, 3))

	// a gap keeps later activities locked even with completions beyond it
	up.Activities["4"] = ActivityProgress{Completed: true}
	assert.False(t, IsUnlocked(up, 3))
	assert.True(t, IsUnlocked(up, 5))

	// in-progress does not unlock the next one
	up.Activities["2"] = ActivityProgress{Started: true, Progress: 90}
	assert.False(t, IsUnlocked(up, 3))
}

func TestStatusOf(t *testing.T) {
	up := UserProgress{Activities: map[string]ActivityProgress{
		"1": {Completed: true, Progress: 100},
		"2": {Started: true, Progress: 30},
	}}

	assert.Equal(t, StatusCompleted, StatusOf(up, 1))
	assert.Equal(t, StatusInProgress, StatusOf(up, 2))
	assert.Equal(t, StatusLocked, StatusOf(up, 3))

	up.Activities["2"] = ActivityProgress{Completed: true, Progress: 100}
	assert.Equal(t, StatusAvailable, StatusOf(up, 3))

	// progress > 0 alone counts as in-progress
	up.Activities["3"] = ActivityProgress{Progress: 10}
	assert.Equal(t, StatusInProgress, StatusOf(up, 3))
}

// The end-to-end walk of a student through the whole curriculum.
func TestCurriculumWalkthrough(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()
	total := activity.Count()

	up, err := svc.GetOrInit(ctx, "maria")
	require.NoError(t, err)

	for id := 1; id <= total; id++ {
		require.True(t, IsUnlocked(up, id), "activity %d should be unlocked", id)
		assert.Equal(t, id, up.CurrentActivity)

		up, err = svc.Update(ctx, "maria", id, Delta{Started: boolPtr(true), Progress: intPtr(50)})
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, StatusOf(up, id))

		up, err = svc.Update(ctx, "maria", id, Delta{Completed: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, StatusOf(up, id))
	}

	assert.Equal(t, 100, up.TotalProgress)
	assert.Equal(t, total, up.CurrentActivity)
}
