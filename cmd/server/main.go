package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"moegraph/internal/assets"
	"moegraph/internal/config"
	"moegraph/internal/handlers"
	"moegraph/internal/router"
	"moegraph/internal/services"
	"moegraph/internal/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	logrus.Info("Database connection established")

	st := store.NewGormStore(db)
	if err := st.Migrate(); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	logrus.Info("Database migration completed")

	assetStore, err := assets.NewDiskStore(cfg.ImagesDir)
	if err != nil {
		logrus.Fatalf("Failed to prepare images dir: %v", err)
	}

	cache, err := services.NewCache(500)
	if err != nil {
		logrus.Fatalf("Failed to create cache: %v", err)
	}

	quota := services.NewQuotaLedger(st)
	guard := services.NewPermissionGuard(cfg.Admins, quota, cfg.Quota)
	history := services.NewHistoryLedger(st)
	graph := services.NewGraphService(st, assetStore, guard, quota, history, cache)
	apps := services.NewApplicationWorkflow(st, graph, guard, quota, history)

	h := router.Handlers{
		Auth:        handlers.NewAuthHandler(cfg),
		Node:        handlers.NewNodeHandler(graph),
		History:     handlers.NewHistoryHandler(history),
		Application: handlers.NewApplicationHandler(apps),
		User:        handlers.NewUserHandler(guard, quota),
	}

	r := router.Setup(cfg, h, assetStore.Dir())

	logrus.Infof("moegraph server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}
