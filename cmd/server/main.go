package main

import (
	"os"

	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/server"
	"github.com/agenthands/genescan/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using defaults")
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := server.NewServer(store.NewOS(cfg.Pipeline.OutputRoot))
	r := srv.SetupRouter()

	logger.Info("Starting server", zap.String("port", port), zap.String("runs", cfg.Pipeline.OutputRoot))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
