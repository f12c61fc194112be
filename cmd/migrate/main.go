package main

import (
	"context"
	"flag"
	"os"

	"github.com/NarmCo/chatroom/config"
	"github.com/NarmCo/chatroom/pkg/database"
	"github.com/NarmCo/chatroom/pkg/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding .sql migration files")
	flag.Parse()

	cfg := config.LoadConfig()
	log := logger.New(cfg.AppMode)

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Errorf("database connect failed: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.ApplyRawMigrations(ctx, pool, *dir); err != nil {
		log.Errorf("migrations failed: %v", err)
		os.Exit(1)
	}
	log.Infof("migrations applied")
}
