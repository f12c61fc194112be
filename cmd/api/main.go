package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NarmCo/chatroom/config"
	"github.com/NarmCo/chatroom/internal/handler"
	chatredis "github.com/NarmCo/chatroom/internal/redis"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/storage"
	"github.com/NarmCo/chatroom/pkg/database"
	"github.com/NarmCo/chatroom/pkg/logger"
)

const sessionCacheTTL = 15 * time.Minute

func main() {
	cfg := config.LoadConfig()
	log := logger.New(cfg.AppMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Errorf("database connect failed: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	var sessions *chatredis.SessionCache
	if cfg.RedisAddr != "" {
		client := chatredis.NewClient(chatredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		sessions = chatredis.NewSessionCache(client, sessionCacheTTL)
	} else {
		sessions = chatredis.NewSessionCache(nil, 0)
	}

	var backend storage.Backend
	switch cfg.StorageDriver {
	case "s3":
		backend, err = storage.NewS3(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		backend, err = storage.NewLocal(cfg.StoragePath)
	}
	if err != nil {
		log.Errorf("storage init failed: %v", err)
		os.Exit(1)
	}

	orc := server.NewOrchestrator(pool, sessions, log)
	router := handler.NewRouter(orc, pool, backend, log, cfg.AppMode)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Infof("listening on :%s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown failed: %v", err)
	}
}
