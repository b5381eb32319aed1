package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketforge-be/internal/bootstrap"
	"marketforge-be/internal/config"
	"marketforge-be/internal/pkg/logger"
	"marketforge-be/internal/server"
	"marketforge-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	// 2. Tracer
	shutdownTracer := tracer.InitTracer(sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		sysLogger.Error("MAIN", "Bootstrap failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer container.Close()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		sysLogger.Info("MAIN", "Shutting down", nil)
		_ = srv.Shutdown()
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		sysLogger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
