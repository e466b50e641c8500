package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/SandyWyper/Know-How/apps/api/echo"
	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/review"
)

// initApp registers the validators, then loads the embedded email templates and password list.
func initApp(conf *core.Config, logger core.Logger, validate *validator.Validate, translator ut.Translator) {
	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	review.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)
	account.LoadCommonPasswords(logger)
}

// startDebugServer serves /debug/vars and /debug/pprof on the debug host.
func startDebugServer(conf *core.Config, logger core.Logger) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()
}

// serve runs server until it fails or a shutdown signal arrives, then drains it within
// the configured timeout.
func serve(conf *core.Config, logger core.Logger, server *echoapi.Server) {
	go server.Start()

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
