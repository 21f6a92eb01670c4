package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/auth"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	logsvc "github.com/lgoenaga/front-gea-cesde-sub000/services/logger"
	"github.com/lgoenaga/front-gea-cesde-sub000/storage/database"
	boltdb "github.com/lgoenaga/front-gea-cesde-sub000/storage/database/bolt"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()
	conf.Debug = false // no debug chatter on the terminal

	logger = logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags), conf)
	logger.Enable(false)

	// set up local state; the console must not hold the lock
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	storage, err := boltdb.NewSessionStorage(db, conf.SecretKey)
	errAndDie(err)
	sess, err := session.New(storage, logger)
	errAndDie(err)
	errAndDie(sess.Restore())

	client, err := api.New(api.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
		Tokens:  sess,
		Logger:  logger,
	})
	errAndDie(err)

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		sess:       sess,
		auth:       auth.NewService(client),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error())
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
