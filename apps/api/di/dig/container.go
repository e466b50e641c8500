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

	echoapi "github.com/SandyWyper/Know-How/apps/api/echo"
	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/content"
	"github.com/SandyWyper/Know-How/core/listing"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
	emailsvc "github.com/SandyWyper/Know-How/services/email"
	logsvc "github.com/SandyWyper/Know-How/services/logger"
	"github.com/SandyWyper/Know-How/storage/database"
	sqlxrepos "github.com/SandyWyper/Know-How/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// ServerParams gathers everything the API server depends on.
type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	AccountSvc account.ServiceInterface
	ProfileSvc profile.ServiceInterface
	ListingSvc listing.ServiceInterface
	ReviewSvc  review.ServiceInterface
	ContentSvc content.ServiceInterface
	Validate   *validator.Validate
	Translator ut.Translator
}

func newRootLogger(conf *core.Config) *logsvc.RollbarLogger {
	return logsvc.NewRollbarLogger(os.Stdout, conf)
}

func newLogger(root *logsvc.RollbarLogger) core.Logger {
	return root.With("API")
}

func newDBLogger(root *logsvc.RollbarLogger) core.Logger {
	return root.With("DB")
}

// newDB connects to Postgres, creating and migrating the database first.
func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	db, err := database.Setup(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newTransactor(db core.DB) core.Transactor {
	return database.NewTransactor(db)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newAccountRepository(db core.DB) account.Repository { return sqlxrepos.NewAccountRepository(db) }
func newProfileRepository(db core.DB) profile.Repository { return sqlxrepos.NewProfileRepository(db) }
func newListingRepository(db core.DB) listing.Repository { return sqlxrepos.NewListingRepository(db) }
func newReviewRepository(db core.DB) review.Repository   { return sqlxrepos.NewReviewRepository(db) }
func newContentRepository(db core.DB) content.Repository { return sqlxrepos.NewContentRepository(db) }

func newProfileService(svc *profile.Service) profile.ServiceInterface { return svc }
func newProfileCreator(svc *profile.Service) account.ProfileCreator    { return svc }

func newAccountService(
	tx core.Transactor,
	repo account.Repository,
	profiles account.ProfileCreator,
	mailSvc core.EmailService,
	conf *core.Config,
) account.ServiceInterface {
	return account.NewService(tx, repo, profiles, mailSvc, conf)
}

func newListingService(repo listing.Repository, conf *core.Config) listing.ServiceInterface {
	return listing.NewService(repo, conf)
}

func newReviewService(repo review.Repository, validate *validator.Validate) review.ServiceInterface {
	return review.NewService(repo, validate)
}

func newContentService(tx core.Transactor, repo content.Repository) content.ServiceInterface {
	return content.NewService(tx, repo)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		AccountSvc: p.AccountSvc,
		ProfileSvc: p.ProfileSvc,
		ListingSvc: p.ListingSvc,
		ReviewSvc:  p.ReviewSvc,
		ContentSvc: p.ContentSvc,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newRootLogger))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newTransactor))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))

	// repositories
	must(c.Provide(newAccountRepository))
	must(c.Provide(newProfileRepository))
	must(c.Provide(newListingRepository))
	must(c.Provide(newReviewRepository))
	must(c.Provide(newContentRepository))

	// services
	must(c.Provide(profile.NewService))
	must(c.Provide(newProfileService))
	must(c.Provide(newProfileCreator))
	must(c.Provide(newAccountService))
	must(c.Provide(newListingService))
	must(c.Provide(newReviewService))
	must(c.Provide(newContentService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
