package main

import (
	"context"
	"os"

	"github.com/C-Chambers/the-arena-engine-server/internal/api"
	"github.com/C-Chambers/the-arena-engine-server/internal/config"
	"github.com/C-Chambers/the-arena-engine-server/internal/constants"
	"github.com/C-Chambers/the-arena-engine-server/internal/logging"
	"github.com/C-Chambers/the-arena-engine-server/internal/matchmaking"
	"github.com/C-Chambers/the-arena-engine-server/internal/roster"
	"github.com/C-Chambers/the-arena-engine-server/internal/service"
	"github.com/C-Chambers/the-arena-engine-server/internal/storage"
	"github.com/C-Chambers/the-arena-engine-server/internal/ws"
)

func main() {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./arena_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": configPath})
	}
	if p := os.Getenv(constants.EnvDBPath); p != "" {
		cfg.DatabasePath = p
	}
	if p := os.Getenv(constants.EnvRosterPath); p != "" {
		cfg.RosterPath = p
	}

	db, err := storage.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": cfg.DatabasePath})
	}
	repo := storage.NewSQLiteRepository(db)

	rosterProvider, err := roster.NewProvider(cfg.RosterPath)
	if err != nil {
		logging.Fatal("Failed to load roster", err, logging.Fields{"roster_path": cfg.RosterPath})
	}

	analytics := matchmaking.NewAnalytics()
	teams := service.NewTeamService(repo, rosterProvider, nil)
	results := service.NewResultService(repo)
	manager := matchmaking.NewManager(cfg.Matchmaking, rosterProvider, teams, results, results, analytics, nil)
	go manager.Run(context.Background())

	handler := api.NewHandler(rosterProvider, analytics, repo)
	gateway := ws.NewGateway(manager, analytics, repo)
	router := newRouter(handler, gateway)

	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: cfg.ServerAddress})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
