package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/app"
	"nbs-ytbot/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	once := flag.Bool("once", false, "run a single index and draft pass, then exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	app.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	application, err := app.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize application")
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logrus.Info("shutting down worker...")
		cancel()
	}()

	application.Start(ctx)

	if *once {
		application.Scheduler.RunOnce(ctx)
		logrus.Info("worker finished")
		return
	}

	logrus.WithField("interval", cfg.Scheduler.Interval).Info("worker started")
	if err := application.Scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("worker error")
	}

	logrus.Info("worker stopped")
}
