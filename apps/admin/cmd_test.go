package main

import (
	"context"
	"testing"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/progress"
	"github.com/edulineal/backend/core/user"
	"github.com/edulineal/backend/storage/inmem"
)

var usrRepo *inmem.UserRepository

func setup(t *testing.T) *commandLine {
	t.Helper()
	usrRepo = inmem.NewUserRepository()
	conf := &core.Config{AppName: "EduLineal"}
	return &commandLine{
		usrSvc:  user.NewService(usrRepo, nil, conf),
		progSvc: progress.NewService(inmem.NewProgressStore()),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "missing names", args: []string{"adduser", "-email", "a@test.co"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "a@test.co", "-first", "A", "-last", "B"}, wantErr: errHelp},
		{name: "ok", args: []string{"adduser", "-email", "a@test.co", "-first", "A", "-last", "B", "-role", "teacher"}, pwd: "S3cureStuff"},
		{name: "duplicate email", args: []string{"adduser", "-email", "a@test.co", "-first", "A", "-last", "B"}, pwd: "S3cureStuff", wantErr: user.ErrEmailExists},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	usr, err := usrRepo.GetUserByEmail("a@test.co")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if !usr.IsTeacher() {
		t.Errorf("role = %q, want teacher", usr.Role)
	}
	if err := usr.CheckPassword("S3cureStuff"); err != nil {
		t.Error("failed to set password")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := user.User{ID: "u1", Email: "awe@test.co", FirstName: "A", LastName: "We", Role: user.RoleStudent, IsActive: true}
	if err := usr.SetPassword("mdr45678"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if _, err := usrRepo.CreateUser(usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "awe@test.co"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "ghost@test.co"}, pwd: "newpass99", wantErr: user.ErrNotFound},
		{name: "ok", args: []string{"resetpassword", "-email", "awe@test.co"}, pwd: "newpass99"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	refreshed, err := usrRepo.GetUserByID("u1")
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if err := refreshed.CheckPassword("newpass99"); err != nil {
		t.Error("failed to update password")
	}
}

func Test_commandLine_resetProgress(t *testing.T) {
	cli := setup(t)

	usr := user.User{ID: "u1", Email: "awe@test.co", Role: user.RoleStudent, IsActive: true}
	if _, err := usrRepo.CreateUser(usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	ctx := context.Background()
	completed := true
	if _, err := cli.progSvc.Update(ctx, "u1", 1, progress.Delta{Completed: &completed}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	if err := cli.run([]string{"admin", "resetprogress", "-email", "awe@test.co"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}

	up, err := cli.progSvc.GetOrInit(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrInit() failed: %v", err)
	}
	if up.TotalProgress != 0 || len(up.Activities) != 0 {
		t.Errorf("progress not reset: %+v", up)
	}
}

func Test_commandLine_seedDemo(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seeddemo"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}

	teacher, err := usrRepo.GetUserByEmail("john@doe.com")
	if err != nil || !teacher.IsTeacher() {
		t.Errorf("demo teacher missing or wrong role: %v, %v", teacher, err)
	}
	student, err := usrRepo.GetUserByEmail("estudiante@demo.com")
	if err != nil || !student.IsStudent() {
		t.Fatalf("demo student missing or wrong role: %v, %v", student, err)
	}
	parent, err := usrRepo.GetUserByEmail("padre@demo.com")
	if err != nil || !parent.IsParent() {
		t.Fatalf("demo parent missing or wrong role: %v, %v", parent, err)
	}
	if parent.StudentID != student.ID {
		t.Errorf("parent.StudentID = %q, want %q", parent.StudentID, student.ID)
	}

	// idempotent: running it again skips existing accounts
	if err := cli.run([]string{"admin", "seeddemo"}); err != nil {
		t.Fatalf("second seeddemo failed: %v", err)
	}
}
