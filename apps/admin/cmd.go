package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"golang.org/x/term"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/dashboard"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errNoSQLDatabase = errors.New("migrations need the postgres engine")
)

type repositories struct {
	orgs        organization.Repository
	paths       learningpath.Repository
	assessments assessment.Repository
	users       user.Repository
}

type commandLine struct {
	conf     *core.Config
	db       *sql.DB // nil with the memory engine
	out      io.Writer
	validate *validator.Validate
	registry *assignment.Registry
	orgSvc   *organization.Service
	lpSvc    *learningpath.Service
	aSvc     *assessment.Service
	userSvc  *user.Service
	dashSvc  *dashboard.Service
}

func newCommandLine(conf *core.Config, db *sql.DB, repos repositories, logger core.Logger, out io.Writer) *commandLine {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)

	registry := assignment.NewRegistry(repos.orgs, repos.paths, repos.assessments, logger)
	orgSvc := organization.NewService(repos.orgs, registry)
	return &commandLine{
		conf:     conf,
		db:       db,
		out:      out,
		validate: validate,
		registry: registry,
		orgSvc:   orgSvc,
		lpSvc:    learningpath.NewService(repos.paths),
		aSvc:     assessment.NewService(repos.assessments),
		userSvc:  user.NewService(repos.users, orgSvc, nil), // seeded users get no welcome email
		dashSvc:  dashboard.NewService(repos.orgs, repos.users, repos.paths, repos.assessments, registry),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]      - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed                        - load the demo organizations, catalog and users")
	fmt.Fprintln(cli.out, "  hashpassword -username NAME - print a superadmin password hash for the config")
	fmt.Fprintln(cli.out, "  prune                       - remove assignments pointing to deleted items")
	fmt.Fprintln(cli.out, "  stats                       - print the dashboard counts")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ExitOnError)
	hashPasswordUname := hashPasswordCmd.String("username", cli.conf.Superadmin.Username, "The superadmin username. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if err := vala.BeginValidation().Validate(vala.GreaterThan(len(args), 2, "command")).Check(); err != nil {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed(ctx)
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		username := core.CleanString(*hashPasswordUname, true /* lower */)
		if err := vala.BeginValidation().Validate(
			vala.StringNotEmpty(username, "username"),
			vala.StringNotEmpty(string(pwd), "password"),
		).Check(); err != nil {
			hashPasswordCmd.Usage()
			return errHelp
		}
		return cli.hashPassword(username, string(pwd))
	case "prune":
		return cli.prune(ctx)
	case "stats":
		return cli.stats(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}
