package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/yahyaabohashemstu/yukleme/internal/config"
	"github.com/yahyaabohashemstu/yukleme/internal/database"
	"github.com/yahyaabohashemstu/yukleme/internal/handler"
	"github.com/yahyaabohashemstu/yukleme/internal/notify"
	"github.com/yahyaabohashemstu/yukleme/internal/queue"
	"github.com/yahyaabohashemstu/yukleme/internal/repository"
	"github.com/yahyaabohashemstu/yukleme/internal/router"
	"github.com/yahyaabohashemstu/yukleme/internal/service"
	"github.com/yahyaabohashemstu/yukleme/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	loadings := repository.NewLoadingRepo(db)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureDefaultUsers(seedCtx, users, cfg.BcryptCost); err != nil {
		log.Fatalf("seed default users failed: %v", err)
	}
	cancel()

	lifecycle := service.NewLifecycle(loadings)
	blobs := storage.NewSupabase(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)

	// Redis is optional; a nil client disables the login rate limiter and
	// the version-history cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), rdb)
	router.RegisterLoader(e, handler.NewLoaderHandler(lifecycle, blobs), cfg.JWTSecret)
	router.RegisterManager(e, handler.NewManagerHandler(lifecycle), cfg.JWTSecret)
	router.RegisterVersions(e, handler.NewVersionHandler(lifecycle), cfg.JWTSecret, rdb)

	// Background consumer turning report events into Telegram messages.
	bot := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if !bot.Enabled() {
		log.Println("telegram configuration missing, notifications will be dropped")
	}
	go func() {
		if err := queue.StartNotificationConsumer(bot); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
