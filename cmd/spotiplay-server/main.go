package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/download"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		addrFlag     = flag.String("addr", "127.0.0.1:8080", "Listen address")
		configFlag   = flag.String("config", "", "Path to config file (default: user config dir)")
		corsFlag     = flag.String("cors", "", "Comma-separated allowed origins")
		logLevelFlag = flag.String("log-level", "", "Log level (overrides config)")
	)
	flag.Parse()

	if err := run(*addrFlag, *configFlag, *corsFlag, *logLevelFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, path, corsOrigins, logLevel string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	settings, loadErr := config.Load(path)
	if loadErr != nil && !errors.Is(loadErr, config.ErrCorrupt) {
		return fmt.Errorf("load config: %w", loadErr)
	}

	if logLevel == "" {
		logLevel = settings.LogLevel
	}
	closer, err := logutils.Init(logutils.Options{Level: logLevel})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logutils.Component("main")
	if loadErr != nil {
		log.WithError(loadErr).WithField("path", path).Warn("Using default settings")
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub()
	manager := download.NewManager(settings, hub)

	var origins []string
	if corsOrigins != "" {
		origins = strings.Split(corsOrigins, ",")
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(manager, hub, server.Options{SettingsPath: path, CORSOrigins: origins}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", addr).Info("SpotiPlay server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		manager.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Server stopped with error")
		return err
	}
	return nil
}
