package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/service"
)

type eventSink interface {
	service.Publisher
	Close() error
}

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverSQLite, db.DriverPostgres)
	config.MustOneOf(cfg.SessionStore, "SESSION_STORE", "db", "redis")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	store := repo.New(gdb)

	var (
		sessions service.SessionStore = store
		rdb      *redis.Client
	)
	switch cfg.SessionStore {
	case "redis":
		config.MustNonEmpty(cfg.RedisURL, "REDIS_URL")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		sessions = repo.NewRedisSessions(rdb)
	default:
		if n, err := store.PurgeSessions(ctx, time.Now()); err != nil {
			logger.Warn("session_purge_failed", "error", err)
		} else if n > 0 {
			logger.Info("sessions_purged", "count", n)
		}
	}

	var sink eventSink = mykafka.Discard{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		sink = prod
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	m := metrics.New()
	events := &service.Events{Pub: sink, Observe: m.EventPublished}

	authSvc := &service.AuthService{
		Users:    store,
		Sessions: sessions,
		Events:   events,
		Secret:   cfg.SessionSecret,
		TTL:      cfg.SessionTTL,
	}

	e := httpserver.New(&httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: store, Events: events}},
		Cart: &httpserver.CartHTTP{
			Svc:              &service.CartService{Repo: store, Users: store, Products: store, Events: events},
			LegacyViewStatus: cfg.CartViewLegacyStatus,
		},
		Sessions: &authmw.Sessions{Auth: authSvc, CookieSecure: cfg.CookieSecure},
		Metrics:  m,
		Ready: func(ctx context.Context) error {
			if err := db.Ping(ctx, gdb); err != nil {
				return err
			}
			if rdb != nil {
				return rdb.Ping(ctx).Err()
			}
			return nil
		},
		Logger:         logger,
		CSRF:           cfg.CSRFEnabled,
		CookieSecure:   cfg.CookieSecure,
		LoginRateLimit: cfg.LoginRateLimit,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := sink.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
