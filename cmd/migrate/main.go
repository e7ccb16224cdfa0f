package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"travelbooking/cfg"
	"travelbooking/pkg/db"
	"travelbooking/pkg/logger"
)

func main() {
	source := flag.String("source", "", "migration source URL, defaults to MIGRATIONS_PATH")
	flag.Parse()

	// ============
	// Load config
	// ============
	config, errCfg := cfg.LoadPostgres()
	if errCfg != nil {
		log.Fatal(errCfg)
	}
	zlogger := logger.NewZeroLog(os.Getenv("APP_ENV"))

	pg := db.PostgresConfig{
		Host:     config.Host,
		Port:     config.Port,
		User:     config.User,
		Password: config.Password,
		DBName:   config.DBName,
		SSLMode:  config.SSLMode,
	}

	// ============
	// Check connectivity
	// ============
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := db.NewSQLClient(ctx, "pgx", pg.DSN(), db.PoolOptions{MaxOpenConns: 1})
	if err != nil {
		log.Fatal(err)
	}
	_ = client.Close()

	// =========
	// Migrate
	// =========
	sourceURL := config.MigrationsPath
	if *source != "" {
		sourceURL = *source
	}
	if err := db.Migrate(sourceURL, pg.DSN()); err != nil {
		log.Fatal(err)
	}
	zlogger.Info("migrations applied", logger.Field{Key: "source", Value: sourceURL})
}
