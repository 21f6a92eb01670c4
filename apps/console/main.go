package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoconsole "github.com/lgoenaga/front-gea-cesde-sub000/apps/console/echo"
	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/academic"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/session"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
	logsvc "github.com/lgoenaga/front-gea-cesde-sub000/services/logger"
	"github.com/lgoenaga/front-gea-cesde-sub000/storage/database"
	boltdb "github.com/lgoenaga/front-gea-cesde-sub000/storage/database/bolt"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "CONSOLE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	apiLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up local state
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening session store: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("Failed to close session store", err)
		}
	}()

	storage, err := boltdb.NewSessionStorage(db, conf.SecretKey)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session storage: %v", err), err)
	}
	sess, err := session.New(storage, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session: %v", err), err)
	}
	if err = sess.Restore(); err != nil {
		logger.Fatal(fmt.Sprintf("restoring session: %v", err), err)
	}
	if usr, ok := sess.User(); ok {
		logger.Info(fmt.Sprintf("Resuming session of %q", usr.Username), usr)
	}

	// set up API client
	client, err := api.New(api.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
		Tokens:  sess,
		Logger:  apiLogger,
		OnUnauthorized: func() {
			logger.Warn("session expired; the operator must sign in again")
		},
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up API client: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Console initializing : version %q, API %s", conf.Build, conf.API.BaseURL))
	defer logger.Info("Console stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	academic.InitValidators(validate)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Backend request counters.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("api").Set(conf.API.BaseURL)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Console

	server := echoconsole.NewServer(echoconsole.Deps{
		Conf:       conf,
		Logger:     logger,
		Session:    sess,
		Services:   echoconsole.NewServices(client),
		Validate:   validate,
		Translator: translator,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
