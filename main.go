package main

import (
	"fmt"
	"log"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/analytics"
	"github.com/Parthajit/Timer-Tools/internal/config"
	"github.com/Parthajit/Timer-Tools/internal/database"
	"github.com/Parthajit/Timer-Tools/internal/logging"
	"github.com/Parthajit/Timer-Tools/internal/router"
	"github.com/Parthajit/Timer-Tools/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level)

	// init database (the remote session store)
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// local fallback cache
	kv, err := store.OpenFileKV(cfg.Local.Path)
	if err != nil {
		log.Fatalf("open local cache: %v", err)
	}
	local := store.NewLocalCache(kv)

	// first-run demo history, so the dashboard isn't empty
	if cfg.App.SeedDemo {
		if err := analytics.SeedMockData(local, time.Now()); err != nil {
			logger.WithError(err).Warn("mock data seed failed")
		}
	}

	remote := store.NewRemote(db)
	recorder := analytics.NewRecorder(remote, local, logger)
	aggregator := analytics.NewAggregator(remote, local, logger)

	// setup router
	r := router.SetupRouter(cfg, db, recorder, aggregator, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
