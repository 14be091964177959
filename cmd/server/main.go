package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/handler"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/server"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	log := logger.NewLogger("quotekeeper-server")
	cfg, err := config.GetServerConfig(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if buildVersion != "N/A" {
		cfg.Version = buildVersion
	}
	if err = logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()
	storages, err := store.NewServerStorages(ctx, cfg.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	handlers, err := handler.NewHandlers(services, *cfg, buildInfo, metrics.NewRegistry(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
