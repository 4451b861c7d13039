package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/trezcool/pacta/core/pacte"
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/user"
	emailsvc "github.com/trezcool/pacta/services/email"
	inmemdb "github.com/trezcool/pacta/storage/database/inmem"
	testutil "github.com/trezcool/pacta/tests"
)

var (
	usrRepo   user.Repository
	quotaRepo quota.Repository
	pacteRepo pacte.Repository
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)
	quotaRepo = inmemdb.NewBudgetRepository(db)
	pacteRepo = inmemdb.NewContractRepository(db)
	sessRepo := inmemdb.NewSessionRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo, mailSvc)
	quotaSvc := quota.NewService(quotaRepo, sessionSource{sessRepo})
	pacteSvc := pacte.NewService(pacteRepo, sessionSource{sessRepo})

	return &commandLine{
		usrSvc:   usrSvc,
		quotaSvc: quotaSvc,
		pacteSvc: pacteSvc,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "pacte_contract", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awecool", "awe@test.cd", "m&dr#812GB", user.RoleTeacher, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "anoth3r&pwd"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "anoth3r&pwd"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "y3t@another1"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_setBudget(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"setbudget"}, wantErr: errHelp},
		{name: "missing hours", args: []string{"setbudget", "-type", "HSE"}, wantErr: errHelp},
		{name: "unknown type", args: []string{"setbudget", "-type", "lol", "-hours", "10"}, wantErrStr: "no budget is held for this session type"},
		{name: "HSE", args: []string{"setbudget", "-type", "HSE", "-hours", "60"}},
		{name: "DEVOIRS_FAITS", args: []string{"setbudget", "-type", "DEVOIRS_FAITS", "-hours", "120"}},
		{name: "RCD", args: []string{"setbudget", "-type", "RCD", "-hours", "90.5"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	budgets, err := quotaRepo.GetBudgets()
	if err != nil {
		t.Fatalf("GetBudgets() failed: %v", err)
	}
	if got := budgets["HSE"]; got != 60 {
		t.Errorf("HSE budget = %v; want 60", got)
	}
	if got := budgets["RCD"]; got != 90.5 {
		t.Errorf("RCD budget = %v; want 90.5", got)
	}
}

func Test_commandLine_setPacte(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach@test.cd", "m&dr#812GB", user.RoleTeacher, true)

	tests := []cliTest{
		{name: "no args", args: []string{"setpacte"}, wantErr: errHelp},
		{name: "enable and disable", args: []string{"setpacte", "-teacher", usr.Username, "-enable", "-disable"}, wantErr: errHelp},
		{name: "teacher not found", args: []string{"setpacte", "-teacher", "lol", "-enable"}, wantErr: user.ErrNotFound},
		{name: "enroll with hours", args: []string{"setpacte", "-teacher", usr.Username, "-enable", "-hours-df", "18", "-hours-rcd", "9"}},
		{name: "update hours only", args: []string{"setpacte", "-teacher", usr.Email, "-hours-rcd", "12"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	c, err := pacteRepo.GetContract(usr.ID)
	if err != nil {
		t.Fatalf("GetContract() failed: %v", err)
	}
	if !c.InPacte {
		t.Error("contract not enabled")
	}
	if c.HoursDF != 18 || c.HoursRCD != 12 {
		t.Errorf("contract hours = (%v, %v); want (18, 12)", c.HoursDF, c.HoursRCD)
	}
}
