package main

import (
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	dig_container "github.com/SandyWyper/Know-How/apps/api/di/dig"
	echoapi "github.com/SandyWyper/Know-How/apps/api/echo"
	"github.com/SandyWyper/Know-How/core"
	logsvc "github.com/SandyWyper/Know-How/services/logger"
)

func startWithDig() {
	c := dig_container.New()

	// validators must be registered before the server (and its services) are built
	must(c.Invoke(func(conf *core.Config, logger core.Logger, validate *validator.Validate, translator ut.Translator) {
		initApp(conf, logger, validate, translator)
	}))

	must(c.Invoke(func(
		conf *core.Config,
		rootLogger *logsvc.RollbarLogger,
		logger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		server *echoapi.Server,
	) {
		defer rootLogger.Close()
		defer func() {
			if err := db.Close(); err != nil {
				dbLoggerParam.Logger.Error("Failed to close", err)
			}
		}()
		defer logger.Info("Application stopped")

		startDebugServer(conf, logger)
		serve(conf, logger, server)
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
