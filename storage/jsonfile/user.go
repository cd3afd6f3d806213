package jsonfile

import (
	"sort"
	"sync"
	"time"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/user"
)

const (
	usersFile     = "users.json"
	passwordsFile = "passwords.json"
)

// persistedUser mirrors user.User with the fields that round-trip to disk.
// Password hashes live in their own document keyed by email.
type persistedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	Grade     string    `json:"grade,omitempty"`
	StudentID string    `json:"student_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

type userRepository struct {
	db *DB
	mu sync.Mutex
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) load() ([]user.User, map[string]string, error) {
	var persisted []persistedUser
	if err := repo.db.readDoc(usersFile, &persisted); err != nil {
		return nil, nil, core.NewStorageReadError(err)
	}
	passwords := map[string]string{}
	if err := repo.db.readDoc(passwordsFile, &passwords); err != nil {
		return nil, nil, core.NewStorageReadError(err)
	}

	users := make([]user.User, 0, len(persisted))
	for _, pu := range persisted {
		users = append(users, user.User{
			ID:           pu.ID,
			Email:        pu.Email,
			FirstName:    pu.FirstName,
			LastName:     pu.LastName,
			Role:         pu.Role,
			Grade:        pu.Grade,
			StudentID:    pu.StudentID,
			IsActive:     pu.IsActive,
			PasswordHash: []byte(passwords[pu.Email]),
			CreatedAt:    pu.CreatedAt,
			LastLogin:    pu.LastLogin,
		})
	}
	return users, passwords, nil
}

func (repo *userRepository) save(users []user.User, passwords map[string]string) error {
	persisted := make([]persistedUser, 0, len(users))
	for _, u := range users {
		persisted = append(persisted, persistedUser{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
			Grade:     u.Grade,
			StudentID: u.StudentID,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
			LastLogin: u.LastLogin,
		})
	}
	if err := repo.db.writeDoc(usersFile, persisted); err != nil {
		return core.NewStorageWriteError(err)
	}
	if err := repo.db.writeDoc(passwordsFile, passwords); err != nil {
		return core.NewStorageWriteError(err)
	}
	return nil
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users, _, err := repo.load()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == email && !isExcluded(u, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users, passwords, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}

	users = append(users, usr)
	passwords[usr.Email] = string(usr.PasswordHash)
	if err := repo.save(users, passwords); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users, _, err := repo.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (repo *userRepository) QueryStudents() ([]user.User, error) {
	all, err := repo.QueryAllUsers()
	if err != nil {
		return nil, err
	}
	students := make([]user.User, 0, len(all))
	for _, u := range all {
		if u.IsStudent() && u.IsActive {
			students = append(students, u)
		}
	}
	return students, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users, _, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users, _, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetLastLogin(usr user.User) (user.User, error) {
	return repo.update(usr.ID, func(u *user.User) {
		u.LastLogin = usr.LastLogin
	})
}

func (repo *userRepository) UpdatePassword(usr user.User) (user.User, error) {
	return repo.update(usr.ID, func(u *user.User) {
		u.PasswordHash = usr.PasswordHash
	})
}

func (repo *userRepository) update(id string, apply func(*user.User)) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	users, passwords, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for i := range users {
		if users[i].ID == id {
			apply(&users[i])
			passwords[users[i].Email] = string(users[i].PasswordHash)
			if err := repo.save(users, passwords); err != nil {
				return user.User{}, err
			}
			return users[i], nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func isExcluded(usr user.User, excluded []user.User) bool {
	for _, ex := range excluded {
		if usr.ID == ex.ID {
			return true
		}
	}
	return false
}
