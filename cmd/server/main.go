package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nhattran/retail_shop/internal/config"
	"github.com/nhattran/retail_shop/internal/events"
	"github.com/nhattran/retail_shop/internal/handlers"
	"github.com/nhattran/retail_shop/internal/identity"
	"github.com/nhattran/retail_shop/internal/logging"
	"github.com/nhattran/retail_shop/internal/repo"
	"github.com/nhattran/retail_shop/internal/service"
	httpserver "github.com/nhattran/retail_shop/internal/transport/http"
	"github.com/nhattran/retail_shop/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migration: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer, err = events.NewProducer(
			[]string{cfg.KafkaAddress},
			[]string{events.TopicAccountEvents, events.TopicProductEvents, events.TopicCartEvents, events.TopicOrderEvents},
		)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, events disabled")
	}

	store := repo.New(gdb)
	ident := &identity.Service{
		DB:            gdb,
		JWTSecret:     []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: gdb, Identity: ident, Producer: producer},
		ProductHandler:  &handlers.ProductHandler{Repo: store, Producer: producer},
		CategoryHandler: &handlers.CategoryHandler{Repo: store, Producer: producer},
		CartHandler: &handlers.CartHandler{
			Service:  &service.CartService{Repo: store, Catalog: store},
			Producer: producer,
		},
		OrderHandler: &handlers.OrderHandler{
			Service:  &service.OrderService{Repo: store},
			Producer: producer,
		},
		Identity: ident,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server started", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
