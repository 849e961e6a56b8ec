package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/varadc-2304/admin-command-station/core"
	logsvc "github.com/varadc-2304/admin-command-station/services/logger"
	"github.com/varadc-2304/admin-command-station/storage/database"
	inmemdb "github.com/varadc-2304/admin-command-station/storage/database/inmem"
	sqlxrepos "github.com/varadc-2304/admin-command-station/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	var db *sql.DB
	var repos repositories
	if conf.IsMemoryDB() {
		mem := inmemdb.Open()
		repos = repositories{
			orgs:        inmemdb.NewOrganizationRepository(mem),
			paths:       inmemdb.NewLearningPathRepository(mem),
			assessments: inmemdb.NewAssessmentRepository(mem),
			users:       inmemdb.NewUserRepository(mem),
		}
	} else {
		xdb, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() { _ = xdb.Close() }()

		db = xdb.DB
		repos = repositories{
			orgs:        sqlxrepos.NewOrganizationRepository(xdb),
			paths:       sqlxrepos.NewLearningPathRepository(xdb),
			assessments: sqlxrepos.NewAssessmentRepository(xdb),
			users:       sqlxrepos.NewUserRepository(xdb),
		}
	}

	// start CLI
	cli := newCommandLine(conf, db, repos, logger, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}
