package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

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

func startManual() {
	conf := core.NewConfig()

	rootLogger := logsvc.NewRollbarLogger(os.Stdout, conf)
	defer rootLogger.Close()
	logger := rootLogger.With("API")
	dbLogger := rootLogger.With("DB")

	db, err := database.Setup(conf)
	if err != nil {
		dbLogger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	initApp(conf, logger, validate, translator)
	defer logger.Info("Application stopped")

	tx := database.NewTransactor(db)
	profSvc := profile.NewService(sqlxrepos.NewProfileRepository(db))

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AccountSvc: account.NewService(tx, sqlxrepos.NewAccountRepository(db), profSvc, mailSvc, conf),
		ProfileSvc: profSvc,
		ListingSvc: listing.NewService(sqlxrepos.NewListingRepository(db), conf),
		ReviewSvc:  review.NewService(sqlxrepos.NewReviewRepository(db), validate),
		ContentSvc: content.NewService(tx, sqlxrepos.NewContentRepository(db)),
		Validate:   validate,
		Translator: translator,
	})

	startDebugServer(conf, logger)
	serve(conf, logger, server)
}
