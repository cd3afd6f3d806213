package inmem

import (
	"sort"
	"sync"

	"github.com/edulineal/backend/core/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	table map[string]*user.User
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{table: map[string]*user.User{}}
}

func (repo *UserRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.table))
	for _, u := range repo.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users
}

func (repo *UserRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email && !isExcluded(usr, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, u := range repo.table {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	repo.table[usr.ID] = &usr
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers() ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.query(), nil
}

func (repo *UserRepository) QueryStudents() ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	students := make([]user.User, 0, len(repo.table))
	for _, u := range repo.query() {
		if u.IsStudent() && u.IsActive {
			students = append(students, u)
		}
	}
	return students, nil
}

func (repo *UserRepository) GetUserByID(id string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if usr, ok := repo.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetUserByEmail(email string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) SetLastLogin(usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	stored.LastLogin = usr.LastLogin
	return *stored, nil
}

func (repo *UserRepository) UpdatePassword(usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	stored.PasswordHash = usr.PasswordHash
	return *stored, nil
}

func isExcluded(usr user.User, excluded []user.User) bool {
	for _, ex := range excluded {
		if usr.ID == ex.ID {
			return true
		}
	}
	return false
}
