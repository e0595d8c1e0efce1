package main

import (
	"context"
	"log"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/repository/postgres"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("verify database connection: %v", err)
	}
	defer db.Close()

	log.Println("ledger migrations completed successfully")
}
