package main

import (
	"aduan/frontend/internal/api"
	"aduan/frontend/internal/api/handler"
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/diagnostics"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/livefeed"
	"aduan/frontend/internal/localization"
	"aduan/frontend/internal/session"
	"aduan/frontend/internal/storage"
	"aduan/frontend/internal/telegram"
	"aduan/frontend/internal/view"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// setupDependencies opens the optional stores. Either may be nil.
func setupDependencies(ctx context.Context, cfg config.Config) (*gorm.DB, *redis.Client) {
	var db *gorm.DB
	if cfg.Database.Enabled() {
		var err error
		if db, err = storage.OpenDatabase(cfg.Database.URL); err != nil {
			log.Fatalf("Failed to connect PostgreSQL: %v", err)
		}
		log.Println("INFO: PostgreSQL connected, diagnostic events will be stored")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		var err error
		if rdb, err = storage.NewRedisClient(ctx, cfg.Redis); err != nil {
			log.Fatalf("Failed to connect Redis: %v", err)
		}
		log.Println("INFO: Redis connected, flash notifications are shared")
	}
	return db, rdb
}

func main() {
	log.Println("Starting complaint front-end...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Session.Insecure() {
		log.Println("WARNING: SESSION_SECRET is not set, session cookies are signed with the development key")
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Stores
	db, rdb := setupDependencies(ctx, cfg)
	s := storage.NewStorageService(db, rdb)

	var flashes flash.Store = flash.NewMemoryStore(config.FlashTTL)
	if rdb != nil {
		flashes = s
	}

	// 2. Diagnostics: log always, database and ops chat when configured
	sinks := []diagnostics.Sink{diagnostics.LogSink{}}
	var diagStore telegram.DiagnosticsStore
	if db != nil {
		sinks = append(sinks, diagnostics.NewGormSink(s))
		diagStore = s
	}
	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewBotService(cfg.Telegram, diagStore)
		if err != nil {
			log.Fatalf("Failed to start Telegram bot: %v", err)
		}
		defer bot.Close()
		go bot.Run(ctx)
		sinks = append(sinks, &diagnostics.TelegramSink{Notifier: bot.Alerts, Format: telegram.FormatEvent})
	}
	reporter := diagnostics.NewReporter(sinks...)

	// 3. Pages
	loc, err := localization.NewLocalizer()
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	if !loc.Has(cfg.Lang) {
		log.Printf("WARNING: no translations for APP_LANG=%q, using %q", cfg.Lang, localization.Fallback)
		cfg.Lang = localization.Fallback
	}
	renderer, err := view.New(loc, cfg.Lang)
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	client := backend.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	sessions := session.NewManager(client, session.NewCookieStore(cfg.Session))

	live := livefeed.NewManagerService()
	go live.Run(ctx)

	h := handler.NewHandler(client, sessions, renderer, reporter, live, cfg)
	r := api.NewRouter(h, flashes)

	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("INFO: listening on %s, API at %s", server.Addr, cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown failed: %v", err)
	}
	select {
	case <-live.Done():
	case <-shutdownCtx.Done():
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
