package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/pacte"
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/session"
	"github.com/trezcool/pacta/core/user"
	emailsvc "github.com/trezcool/pacta/services/email"
	"github.com/trezcool/pacta/storage/database"
	sqlxrepos "github.com/trezcool/pacta/storage/database/sqlx"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	dbx := sqlx.NewDb(db, core.Conf.Database.Engine)

	// set up services
	mailSvc := emailsvc.NewConsoleService()
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(dbx), mailSvc)
	sessRepo := sqlxrepos.NewSessionRepository(dbx)
	quotaSvc := quota.NewService(sqlxrepos.NewQuotaRepository(dbx), sessionSource{sessRepo})
	pacteSvc := pacte.NewService(sqlxrepos.NewPacteRepository(dbx), sessionSource{sessRepo})

	// start CLI
	cli := commandLine{
		db:       db,
		usrSvc:   usrSvc,
		quotaSvc: quotaSvc,
		pacteSvc: pacteSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

type sessionSource struct {
	repo session.Repository
}

func (src sessionSource) QueryAll() ([]session.Session, error) {
	return src.repo.QueryAllSessions()
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
