// Package main provides the entry point for the sermon platform API server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/di"
	"github.com/Mastsam10/platform-sub000/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	cfg := do.MustInvoke[*config.Config](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log = log.WithField("signal", sig.String())
	log.Info("shutting down")

	// The container shuts services down in reverse dependency order: the HTTP
	// server first, the store last.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := injector.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown error")
		}
	}()

	select {
	case <-done:
		log.Info("shutdown complete")
	case <-time.After(cfg.Server.ShutdownTimeout):
		log.Fatal("shutdown timed out", "timeout", cfg.Server.ShutdownTimeout)
	case <-quit:
		log.Fatal("second signal received, exiting immediately")
	}
}
