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

	echoapi "github.com/trezcool/tracklearn/apps/api/echo"
	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/catalog"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/result"
	"github.com/trezcool/tracklearn/core/user"
	emailsvc "github.com/trezcool/tracklearn/services/email"
	logsvc "github.com/trezcool/tracklearn/services/logger"
	"github.com/trezcool/tracklearn/storage/database"
	inmemdb "github.com/trezcool/tracklearn/storage/database/inmem"
	sqlxrepos "github.com/trezcool/tracklearn/storage/database/sqlx"
)

const engineMemory = "memory"

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// DBCloser releases the storage backing the repositories.
	DBCloser func() error

	Repositories struct {
		dig.Out
		Users       user.Repository
		Classrooms  classroom.Repository
		Tests       quiz.Repository
		Catalog     catalog.Repository
		Assignments assignment.Repository
		Results     result.Repository
		Close       DBCloser
	}

	serverParams struct {
		dig.In
		Conf          *core.Config
		Logger        core.Logger
		UserSvc       *user.Service
		ClassroomSvc  *classroom.Service
		QuizSvc       *quiz.Service
		CatalogSvc    *catalog.Service
		AssignmentSvc *assignment.Service
		ResultSvc     *result.Service
		Validate      *validator.Validate
		Translator    ut.Translator
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) Repositories {
	if conf.Database.Engine == engineMemory {
		loggerParam.Logger.Warn("using the in-memory store: data is lost on exit")
		db := inmemdb.Open()
		return Repositories{
			Users:       inmemdb.NewUserRepository(db),
			Classrooms:  inmemdb.NewClassroomRepository(db),
			Tests:       inmemdb.NewQuizRepository(db),
			Catalog:     inmemdb.NewCatalogRepository(db),
			Assignments: inmemdb.NewAssignmentRepository(db),
			Results:     inmemdb.NewResultRepository(db),
			Close:       func() error { return nil },
		}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Repositories{
		Users:       sqlxrepos.NewUserRepository(db),
		Classrooms:  sqlxrepos.NewClassroomRepository(db),
		Tests:       sqlxrepos.NewQuizRepository(db),
		Catalog:     sqlxrepos.NewCatalogRepository(db),
		Assignments: sqlxrepos.NewAssignmentRepository(db),
		Results:     sqlxrepos.NewResultRepository(db),
		Close:       db.Close,
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(log.New(os.Stdout, "MAIL : ", log.LstdFlags), conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		UserSvc:       p.UserSvc,
		ClassroomSvc:  p.ClassroomSvc,
		QuizSvc:       p.QuizSvc,
		CatalogSvc:    p.CatalogSvc,
		AssignmentSvc: p.AssignmentSvc,
		ResultSvc:     p.ResultSvc,
		Validate:      p.Validate,
		Translator:    p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(classroom.NewService))
	must(c.Provide(quiz.NewService))
	must(c.Provide(catalog.NewService))
	must(c.Provide(assignment.NewService))
	must(c.Provide(result.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
