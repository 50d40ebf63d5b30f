package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/app"
	"nbs-ytbot/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	port := flag.String("port", "", "HTTP server port, overrides server.port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	app.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	application, err := app.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize application")
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.Start(ctx)

	// approved drafts are posted by the in-process worker
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := application.Worker.ProcessJobs(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).Error("worker error")
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("API server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-sigChan
	logrus.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("error shutting down server")
	}

	cancel()
	<-workerDone
	logrus.Info("server stopped")
}
