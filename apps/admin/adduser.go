package main

import (
	"github.com/edulineal/backend/core/user"
)

// addUser creates an account without the API-side password policy checks;
// operator-chosen passwords are taken as-is.
func (cli *commandLine) addUser(email, first, last, role, grade, studentID, pwd string) error {
	_, err := cli.usrSvc.Register(user.NewUser{
		Email:           email,
		FirstName:       first,
		LastName:        last,
		Role:            role,
		Grade:           grade,
		StudentID:       studentID,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}
