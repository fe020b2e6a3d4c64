package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/cli"
	"github.com/sangkips/hotel-ledger-api/internal/config"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(openPostgres).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openPostgres(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewPostgresDB(&cfg.Database, false, log)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = log.Sync()
	}
	return db, release, nil
}
