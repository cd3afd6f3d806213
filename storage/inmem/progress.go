// Package inmem provides in-memory stores for tests and local development.
package inmem

import (
	"context"
	"sync"

	"github.com/edulineal/backend/core/progress"
)

// ProgressStore keeps the whole mapping in memory. LoadErr/SaveErr, when set,
// are returned by the respective operation; handy for fault-injection tests.
type ProgressStore struct {
	mu      sync.Mutex
	all     map[string]progress.UserProgress
	LoadErr error
	SaveErr error

	// Saves counts successful SaveAll calls.
	Saves int
}

var _ progress.Store = (*ProgressStore)(nil)

func NewProgressStore() *ProgressStore {
	return &ProgressStore{all: map[string]progress.UserProgress{}}
}

func (s *ProgressStore) LoadAll(_ context.Context) (map[string]progress.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	out := make(map[string]progress.UserProgress, len(s.all))
	for k, v := range s.all {
		out[k] = copyRecord(v)
	}
	return out, nil
}

func (s *ProgressStore) SaveAll(_ context.Context, all map[string]progress.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	out := make(map[string]progress.UserProgress, len(all))
	for k, v := range all {
		out[k] = copyRecord(v)
	}
	s.all = out
	s.Saves++
	return nil
}

func copyRecord(up progress.UserProgress) progress.UserProgress {
	acts := make(map[string]progress.ActivityProgress, len(up.Activities))
	for k, v := range up.Activities {
		acts[k] = v
	}
	up.Activities = acts
	return up
}
