package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/content"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
	"github.com/SandyWyper/Know-How/services/email"
	"github.com/SandyWyper/Know-How/services/logger"
	"github.com/SandyWyper/Know-How/storage/database"
	"github.com/SandyWyper/Know-How/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(os.Stdout, conf)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	review.InitValidators(validate, translator)
	account.LoadCommonPasswords(logger)

	// start CLI
	tx := database.NewTransactor(db)
	profSvc := profile.NewService(sqlxrepos.NewProfileRepository(db))
	cli := commandLine{
		db:       db.DB,
		validate: validate,
		accSvc: account.NewService(
			tx, sqlxrepos.NewAccountRepository(db), profSvc, emailsvc.NewConsoleService(conf, logger), conf,
		),
		contentSvc: content.NewService(tx, sqlxrepos.NewContentRepository(db)),
	}
	err = cli.run(os.Args)
	if cerr := db.Close(); cerr != nil {
		logger.Error("closing database", cerr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Printf("\nerror: %s\n", describe(err, translator))
		}
		os.Exit(1)
	}
}
