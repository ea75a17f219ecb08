package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sidekick/app/client/whatsapp"
	"sidekick/app/config"
	"sidekick/app/server"
	"sidekick/app/service/conversation"
	"sidekick/app/service/dispatcher"
	"sidekick/app/service/engine"
	"sidekick/app/service/gateway"
	"sidekick/app/service/mood"
	"sidekick/app/service/notes"
	"sidekick/app/service/queue"
	"sidekick/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, whatsapp.NewClient)
	do.Provide(di, gateway.New)
	do.Provide(di, conversation.New)
	do.Provide(di, notes.New)
	do.Provide(di, mood.New)
	do.Provide(di, dispatcher.New)
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*engine.Service](di).Run(appCtx)

	go func() {
		if err := do.MustInvoke[*server.Service](di).Run(appCtx); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-appCtx.Done()
}
