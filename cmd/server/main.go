package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/ai"
	"genai-maturity/backend/internal/api"
	"genai-maturity/backend/internal/config"
	"genai-maturity/backend/internal/store"
)

func main() {
	configFile := flag.String("config", "", "Path to a config file (defaults to ./config.yaml when present)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("load configuration: %v", err)
	}
	cfg.Log.ConfigureLogger(logrus.StandardLogger())

	if cfg.Database.Driver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			logrus.Fatalf("create data directory: %v", err)
		}
	}

	server, err := api.NewServer(api.Config{
		DBDriver:       cfg.Database.Driver,
		DBDSN:          cfg.Database.ConnectionString(),
		SilentDB:       cfg.Database.Silent,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SeedOnStart:    cfg.Seed.OnStart,
		QuestionsPath:  cfg.Seed.QuestionsPath,
		ResourcesPath:  cfg.Seed.ResourcesPath,
		AIConfig: ai.Config{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			BaseURL:     cfg.AI.BaseURL,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout,
		},
		DisableAI: !cfg.AI.Enabled,
	})
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}
	defer server.Close()

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"addr":   cfg.Server.Address(),
		"driver": cfg.Database.Driver,
	}).Info("starting genai-maturity backend")
	if err := router.Run(cfg.Server.Address()); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
