package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/pacta/core/pacte"
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	usrSvc   *user.Service
	quotaSvc *quota.Service
	pacteSvc *pacte.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run DB migrations (up, down, status, ...)")
	fmt.Println("  adduser -name NAME -role ROLE [-username USERNAME] [-email EMAIL] - add a staff or teacher account")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset user's password")
	fmt.Println("  setbudget -type TYPE -hours HOURS - set the annual hour budget of a session type")
	fmt.Println("  setpacte -teacher USERNAME|EMAIL [-enable|-disable] [-hours-df HOURS] [-hours-rcd HOURS] - update a teacher's contract")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserRole := addUserCmd.String("role", user.RoleTeacher, "One of: teacher, secretariat, principal.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")

	setBudgetCmd := flag.NewFlagSet("setbudget", flag.ExitOnError)
	setBudgetType := setBudgetCmd.String("type", "", "One of: HSE, DEVOIRS_FAITS, RCD.")
	setBudgetHours := setBudgetCmd.Float64("hours", -1, "The annual hour allowance.")

	setPacteCmd := flag.NewFlagSet("setpacte", flag.ExitOnError)
	setPacteTeacher := setPacteCmd.String("teacher", "", "The teacher's username or email.")
	setPacteEnable := setPacteCmd.Bool("enable", false, "Enroll the teacher in PACTE.")
	setPacteDisable := setPacteCmd.Bool("disable", false, "Withdraw the teacher from PACTE.")
	setPacteHoursDF := setPacteCmd.Float64("hours-df", -1, "The contracted DEVOIRS_FAITS hours.")
	setPacteHoursRCD := setPacteCmd.Float64("hours-rcd", -1, "The contracted RCD hours.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || (*addUserUname == "" && *addUserEmail == "") {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		return cli.addUser(*addUserName, *addUserUname, *addUserEmail, *addUserRole, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "setbudget":
		if err := setBudgetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setBudgetType == "" || *setBudgetHours < 0 {
			setBudgetCmd.Usage()
			return errHelp
		}
		return cli.setBudget(*setBudgetType, *setBudgetHours)
	case "setpacte":
		if err := setPacteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setPacteTeacher == "" || (*setPacteEnable && *setPacteDisable) {
			setPacteCmd.Usage()
			return errHelp
		}
		return cli.setPacte(
			*setPacteTeacher,
			*setPacteEnable, *setPacteDisable,
			*setPacteHoursDF, *setPacteHoursRCD,
		)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(cmd *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
