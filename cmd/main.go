package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/config"
	"github.com/ncwatch/ncwatch-backend/internal/data/db"
	"github.com/ncwatch/ncwatch-backend/internal/data/repos"
	types "github.com/ncwatch/ncwatch-backend/internal/domain"
	"github.com/ncwatch/ncwatch-backend/internal/handlers"
	"github.com/ncwatch/ncwatch-backend/internal/importer"
	"github.com/ncwatch/ncwatch-backend/internal/notify"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
	"github.com/ncwatch/ncwatch-backend/internal/queue"
	"github.com/ncwatch/ncwatch-backend/internal/regions"
	"github.com/ncwatch/ncwatch-backend/internal/server"
	"github.com/ncwatch/ncwatch-backend/internal/sources"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := db.AutoMigrateAll(postgresService.DB()); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	stateRepo := repos.NewStateRepo(thePG, log)
	countyRepo := repos.NewCountyRepo(thePG, log)
	companyRepo := repos.NewCompanyRepo(thePG, log)
	warnNoticeRepo := repos.NewWarnNoticeRepo(thePG, log)
	weatherAlertRepo := repos.NewWeatherAlertRepo(thePG, log)
	outageRepo := repos.NewOutageRepo(thePG, log)
	recallRepo := repos.NewRecallRepo(thePG, log)
	scamAlertRepo := repos.NewScamAlertRepo(thePG, log)
	amberAlertRepo := repos.NewAmberAlertRepo(thePG, log)
	remoteJobRepo := repos.NewRemoteJobRepo(thePG, log)
	importRunRepo := repos.NewImportRunRepo(thePG, log)
	ingestJobRepo := repos.NewIngestJobRepo(thePG, log)

	// Seed geography
	if err := regions.Seed(dbctx.New(context.Background()), stateRepo, countyRepo, log); err != nil {
		log.Fatal("Region seed failed", "error", err)
	}

	// Source adapters
	log.Info("Setting up source adapters from main...")
	client := sources.NewClient(time.Duration(cfg.FetchTimeoutSeconds)*time.Second, cfg.UserAgent, log)
	warnCfg := cfg.Source(types.SourceWarn)
	weatherCfg := cfg.Source(types.SourceWeather)
	outagesCfg := cfg.Source(types.SourceOutages)
	recallsCfg := cfg.Source(types.SourceRecalls)
	scamsCfg := cfg.Source(types.SourceScams)
	remoteJobsCfg := cfg.Source(types.SourceRemoteJobs)
	amberCfg := cfg.Source(types.SourceAmber)

	warnSource := sources.NewWarnSource(client, warnCfg.Endpoints, warnCfg.FallbackCSV, log)
	weatherSource := sources.NewWeatherSource(client, weatherCfg.Endpoints[0], log)
	outageSource := sources.NewOutageSource(client, outagesCfg.Endpoints, log)
	recallSource := sources.NewRecallSource(client, recallsCfg.Endpoints, recallsCfg.FetchLimit, log)
	scamSource := sources.NewScamSource(client, scamsCfg.Endpoints[0], log)
	remoteJobSource := sources.NewRemoteJobSource(client, remoteJobsCfg.Endpoints[0], remoteJobsCfg.FetchLimit, log)
	amberSource := sources.NewAmberSource(client, amberCfg.Endpoints[0], log)

	// Importers
	log.Info("Setting up importers from main...")
	importers := []importer.Importer{
		importer.NewWarnImporter(warnSource, stateRepo, countyRepo, companyRepo, warnNoticeRepo, importRunRepo, log),
		importer.NewWeatherImporter(weatherSource, stateRepo, countyRepo, weatherAlertRepo, importRunRepo, log),
		importer.NewOutageImporter(outageSource, stateRepo, countyRepo, outageRepo, importRunRepo, outagesCfg.RetentionDays, log),
		importer.NewRecallImporter(recallSource, recallRepo, importRunRepo, log),
		importer.NewScamImporter(scamSource, scamAlertRepo, importRunRepo, log),
		importer.NewRemoteJobImporter(remoteJobSource, remoteJobRepo, importRunRepo, remoteJobsCfg.RetentionDays, log),
		importer.NewAmberImporter(amberSource, amberAlertRepo, importRunRepo, log),
	}

	// Notifier
	var notifier notify.Notifier = notify.NopNotifier{}
	if os.Getenv("REDIS_ADDR") != "" {
		notifier, err = notify.NewRedisNotifier(log)
		if err != nil {
			log.Warn("Redis notifier init failed, running without", "error", err)
			notifier = notify.NopNotifier{}
		}
	}
	defer notifier.Close()

	// Queues, worker, scheduler
	log.Info("Setting up queues from main...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queues := queue.NewQueues(ingestJobRepo, log)
	worker := queue.NewWorker(ingestJobRepo, importers, notifier, time.Duration(cfg.JobTimeoutSeconds)*time.Second, log)
	worker.Start(ctx)

	scheduler := queue.NewScheduler(queues, cfg, log)
	if err := scheduler.ScheduleAll(ctx); err != nil {
		log.Fatal("Scheduler setup failed", "error", err)
	}

	// Router
	log.Info("Setting up router from main...")
	opsHandler := handlers.NewOpsHandler(thePG, queues, importRunRepo, log)
	router := server.NewRouter(server.RouterConfig{OpsHandler: opsHandler})

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		fmt.Printf("Server listening on :%s\n", port)
		if err := router.Run(":" + port); err != nil {
			log.Error("Server failed", "error", err)
			cancel()
		}
	}()

	// Shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Info("Shutting down", "signal", s.String())
	case <-ctx.Done():
	}
	cancel()
	scheduler.Stop()
}
