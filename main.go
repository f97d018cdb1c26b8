package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/config"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/routes"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	logger := config.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.Employee{},
		&models.Entity{},
		&models.TaskTemplate{},
		&models.Assignment{},
		&models.IndividualTask{},
		&models.EntityStatusEntry{},
		&models.EntityTaskHistory{},
		&models.StatusUpdate{},
	)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("upload dir", zap.Error(err))
	}

	r := routes.SetupRouter(db, logger, cfg)

	logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
