package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almashriq/backoffice/modules/catalog"
	"github.com/almashriq/backoffice/modules/quotation"
	"github.com/almashriq/backoffice/modules/sheetimport"
	importservices "github.com/almashriq/backoffice/modules/sheetimport/services"
	"github.com/almashriq/backoffice/pkg/application"
	"github.com/almashriq/backoffice/pkg/configuration"
	"github.com/almashriq/backoffice/pkg/eventbus"
	"github.com/almashriq/backoffice/pkg/middleware"
	"github.com/almashriq/backoffice/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := application.RegisterModules(
		app,
		catalog.NewModule(),
		quotation.NewModule(),
		sheetimport.NewModule(),
	); err != nil {
		log.Fatalf("failed to register modules: %v", err)
	}
	app.RegisterMiddleware(middleware.ProvidePool(pool))

	store := app.Service(importservices.SessionStore{}).(*importservices.SessionStore)
	store.StartSweeper(context.Background())

	logger.Infof("listening on %s", conf.SocketAddress)
	if err := server.NewHTTPServer(app).Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
