package user

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/edulineal/backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		// QueryStudents returns all active users with the student role.
		QueryStudents() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		SetLastLogin(usr User) (User, error)
		UpdatePassword(usr User) (User, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string) error
		Register(nu NewUser) (User, error)
		Authenticate(email, pwd string) (User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		QueryAll() ([]User, error)
		Students() ([]User, error)
		SetPassword(email, pwd string) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) CheckEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register creates the account and sends the welcome email.
func (svc *Service) Register(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Email:     nu.Email,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Role:      nu.Role,
		Grade:     nu.Grade,
		StudentID: nu.StudentID,
		IsActive:  true,
		CreatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Authenticate checks the credentials and stamps LastLogin on success.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	usr.LastLogin = time.Now().UTC()
	return svc.repo.SetLastLogin(usr)
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) Students() ([]User, error) {
	return svc.repo.QueryStudents()
}

// SetPassword overwrites the user's password. Used by the ops CLI.
func (svc *Service) SetPassword(email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.UpdatePassword(usr)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
		Subject: "Bienvenido a " + svc.conf.AppName,
		Body: fmt.Sprintf(
			"Hola %s,\n\nTu cuenta ha sido creada. Ingresa en %s para comenzar tu recorrido por la función lineal.\n",
			usr.FirstName, svc.conf.FrontendBaseURL,
		),
	})
}
