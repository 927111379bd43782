package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/server"
	"github.com/SaiNageswarS/medbook-agent/app"
	"github.com/SaiNageswarS/medbook-agent/appconfig"
	"github.com/SaiNageswarS/medbook-agent/services"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := getCancellableContext()

	// the boot server serves the default registry on /metrics
	engine, err := app.Build(ctx, ccfgg, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to build engine", zap.Error(err))
	}
	defer engine.Close(context.Background())

	router := services.NewRouter(&services.Config{
		Intake:  services.NewIntakeService(engine.Orchestrator, engine.Availability),
		Booking: services.NewBookingService(engine.Booking),
		Notes:   services.NewNotesService(engine.Chatbot, engine.Summarizer, engine.Chunker, engine.Indexer),
	})

	builder := server.New().
		GRPCPort(ccfgg.GRPCAddr()).
		HTTPPort(ccfgg.Port())
	for _, pattern := range services.Patterns {
		builder = builder.Handle(pattern, router.ServeHTTP)
	}

	boot, err := builder.Build()
	if err != nil {
		logger.Fatal("Failed to build server", zap.Error(err))
	}

	if err := boot.Serve(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
