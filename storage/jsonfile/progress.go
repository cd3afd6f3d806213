package jsonfile

import (
	"context"
	"sync"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/progress"
)

const progressFile = "progress.json"

type progressStore struct {
	db *DB
	mu sync.Mutex
}

var _ progress.Store = (*progressStore)(nil)

func NewProgressStore(db *DB) progress.Store {
	return &progressStore{db: db}
}

func (s *progressStore) LoadAll(_ context.Context) (map[string]progress.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := map[string]progress.UserProgress{}
	if err := s.db.readDoc(progressFile, &all); err != nil {
		return nil, core.NewStorageReadError(err)
	}
	return all, nil
}

func (s *progressStore) SaveAll(_ context.Context, all map[string]progress.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.writeDoc(progressFile, all); err != nil {
		return core.NewStorageWriteError(err)
	}
	return nil
}
