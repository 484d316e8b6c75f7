package main

import (
	"context"
	"flag"

	"storefront/common/logger"
	"storefront/config"
	"storefront/database"
	"storefront/models"
	"storefront/repository"
	"storefront/seeders"

	"go.uber.org/zap"
)

func main() {
	ownersOnly := flag.Bool("owners-only", false, "only promote OWNER_EMAILS to owner")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal("Could not connect to PostgreSQL", zap.Error(err))
	}
	defer database.Close(db)

	if err := models.Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	toRun := seeders.All(cfg.OwnerEmails, log)
	if *ownersOnly {
		toRun = []seeders.Seeder{seeders.Owners(cfg.OwnerEmails, log)}
	}

	runner := seeders.NewRunner(repository.NewGormSeederRepository(db), log)
	if err := runner.Run(context.Background(), toRun...); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding complete")
}
