package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/edulineal/backend/core/user"
)

// seedDemo creates the demo classroom: a teacher, a student and the
// student's parent. Existing accounts are left untouched.
func (cli *commandLine) seedDemo() error {
	teacher := user.NewUser{
		Email:     "john@doe.com",
		FirstName: "John",
		LastName:  "Doe",
		Role:      user.RoleTeacher,
		Password:  "johndoe123",
	}
	student := user.NewUser{
		Email:     "estudiante@demo.com",
		FirstName: "María",
		LastName:  "González",
		Role:      user.RoleStudent,
		Grade:     "8",
		Password:  "demo123",
	}
	parent := user.NewUser{
		Email:     "padre@demo.com",
		FirstName: "Carlos",
		LastName:  "González",
		Role:      user.RoleParent,
		Password:  "demo123",
	}

	if err := cli.seedUser(teacher); err != nil {
		return err
	}
	if err := cli.seedUser(student); err != nil {
		return err
	}

	// link the parent to the student account
	st, err := cli.usrSvc.GetByEmail(student.Email)
	if err != nil {
		return errors.Wrap(err, "finding demo student")
	}
	parent.StudentID = st.ID
	return cli.seedUser(parent)
}

func (cli *commandLine) seedUser(nu user.NewUser) error {
	if _, err := cli.usrSvc.GetByEmail(nu.Email); err == nil {
		fmt.Printf("%s already exists, skipping\n", nu.Email)
		return nil
	} else if err != user.ErrNotFound {
		return err
	}

	nu.PasswordConfirm = nu.Password
	if _, err := cli.usrSvc.Register(nu); err != nil {
		return errors.Wrapf(err, "creating %s", nu.Email)
	}
	fmt.Printf("created %s (%s)\n", nu.Email, nu.Role)
	return nil
}
