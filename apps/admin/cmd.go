package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/edulineal/backend/core/progress"
	"github.com/edulineal/backend/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc  user.ServiceInterface
	progSvc progress.ServiceInterface
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL -first NAME -last NAME -role ROLE [-grade GRADE] [-student ID] - create a user; the password is prompted")
	fmt.Println("  resetpassword -email EMAIL - reset a user's password; the new password is prompted")
	fmt.Println("  resetprogress -email EMAIL - reset a student's progress record")
	fmt.Println("  seeddemo - create the demo accounts")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserFirst := addUserCmd.String("first", "", "The user's first name.")
	addUserLast := addUserCmd.String("last", "", "The user's last name.")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "One of: student, teacher, parent, admin.")
	addUserGrade := addUserCmd.String("grade", "", "The student's grade.")
	addUserStudent := addUserCmd.String("student", "", "The linked student's ID, for parent accounts.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	resetProgressCmd := flag.NewFlagSet("resetprogress", flag.ExitOnError)
	resetProgressEmail := resetProgressCmd.String("email", "", "The student's email.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserFirst == "" || *addUserLast == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				addUserCmd.Usage()
			}
			return err
		}
		return cli.addUser(*addUserEmail, *addUserFirst, *addUserLast, *addUserRole, *addUserGrade, *addUserStudent, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "resetprogress":
		if err := resetProgressCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetProgressEmail == "" {
			resetProgressCmd.Usage()
			return errHelp
		}
		return cli.resetProgress(*resetProgressEmail)
	case "seeddemo":
		return cli.seedDemo()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
