package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/varadc-2304/admin-command-station/apps/api/echo"
	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/assessment"
	"github.com/varadc-2304/admin-command-station/core/assignment"
	"github.com/varadc-2304/admin-command-station/core/auth"
	"github.com/varadc-2304/admin-command-station/core/dashboard"
	"github.com/varadc-2304/admin-command-station/core/learningpath"
	"github.com/varadc-2304/admin-command-station/core/organization"
	"github.com/varadc-2304/admin-command-station/core/user"
	appfs "github.com/varadc-2304/admin-command-station/fs"
	emailsvc "github.com/varadc-2304/admin-command-station/services/email"
	logsvc "github.com/varadc-2304/admin-command-station/services/logger"
	"github.com/varadc-2304/admin-command-station/storage/database"
	inmemdb "github.com/varadc-2304/admin-command-station/storage/database/inmem"
	sqlxrepos "github.com/varadc-2304/admin-command-station/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Storage is the opened database. DB is nil with the memory engine.
type Storage struct {
	DB  *sqlx.DB
	Mem *inmemdb.DB
}

// Close closes the postgres connection pool, if any.
func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

type Repositories struct {
	dig.Out
	Orgs        organization.Repository
	Paths       learningpath.Repository
	Assessments assessment.Repository
	Users       user.Repository
}

type ServerParams struct {
	dig.In
	Conf            *core.Config
	Logger          core.Logger
	Gate            *auth.Gate
	OrgSvc          *organization.Service
	LearningPathSvc *learningpath.Service
	AssessmentSvc   *assessment.Service
	UserSvc         *user.Service
	Registry        *assignment.Registry
	DashboardSvc    *dashboard.Service
	Validate        *validator.Validate
	Translator      ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) *Storage {
	if conf.IsMemoryDB() {
		loggerParam.Logger.Warn("using the in-memory database: data is lost on exit")
		return &Storage{Mem: inmemdb.Open()}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return &Storage{DB: db}
}

func newRepositories(s *Storage) Repositories {
	if s.DB == nil {
		return Repositories{
			Orgs:        inmemdb.NewOrganizationRepository(s.Mem),
			Paths:       inmemdb.NewLearningPathRepository(s.Mem),
			Assessments: inmemdb.NewAssessmentRepository(s.Mem),
			Users:       inmemdb.NewUserRepository(s.Mem),
		}
	}
	return Repositories{
		Orgs:        sqlxrepos.NewOrganizationRepository(s.DB),
		Paths:       sqlxrepos.NewLearningPathRepository(s.DB),
		Assessments: sqlxrepos.NewAssessmentRepository(s.DB),
		Users:       sqlxrepos.NewUserRepository(s.DB),
	}
}

func newGate(conf *core.Config) (*auth.Gate, error) {
	return auth.NewGate(conf.Superadmin.Username, conf.Superadmin.Password, conf.Superadmin.PasswordHash)
}

func newEmailTemplates(conf *core.Config) *core.EmailTemplates {
	return core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.FrontendBaseURL, conf.Debug)
}

func newEmailService(conf *core.Config, templates *core.EmailTemplates, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, templates, logger)
	}
	return emailsvc.NewSendgridService(conf, templates, logger)
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	return validate, translator
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Gate:            p.Gate,
		OrgSvc:          p.OrgSvc,
		LearningPathSvc: p.LearningPathSvc,
		AssessmentSvc:   p.AssessmentSvc,
		UserSvc:         p.UserSvc,
		Registry:        p.Registry,
		DashboardSvc:    p.DashboardSvc,
		Validate:        p.Validate,
		Translator:      p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newRepositories))
	must(c.Provide(assignment.NewRegistry))
	must(c.Provide(func(r *assignment.Registry) organization.Catalog { return r }))
	must(c.Provide(func(r *assignment.Registry) dashboard.AssigneeCounter { return r }))
	must(c.Provide(organization.NewService))
	must(c.Provide(func(svc *organization.Service) user.OrganizationLookup { return svc }))
	must(c.Provide(learningpath.NewService))
	must(c.Provide(assessment.NewService))
	must(c.Provide(newEmailTemplates))
	must(c.Provide(newEmailService))
	must(c.Provide(user.NewService))
	must(c.Provide(dashboard.NewService))
	must(c.Provide(newGate))
	must(c.Provide(newValidator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
