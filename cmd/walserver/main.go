// Package main implements the HTTP API server for rosekv's write-ahead log.
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	apihttp "github.com/divedb/rosekv/internal/http"
	"github.com/divedb/rosekv/internal/kvdemo"
	"github.com/divedb/rosekv/internal/libs/config"
	"github.com/divedb/rosekv/internal/libs/obs"
	"github.com/divedb/rosekv/internal/wal"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("walserver")

	store, err := kvdemo.Open(wal.Options{
		Dir:                cfg.WALDir,
		MaxSegmentSize:     cfg.MaxSegmentSize,
		SyncPerWrite:       cfg.SyncPerWrite,
		SyncBytesThreshold: cfg.SyncBytesThreshold,
		SyncInterval:       cfg.SyncInterval,
		BlockCacheSize:     cfg.BlockCacheSize,
		Logger:             logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open wal store")
	}
	defer func() { _ = store.Close() }()

	logger.Info().Int("key_count", store.Len()).Str("wal_dir", cfg.WALDir).Msg("wal store ready")

	handler := apihttp.NewHandler(store, logger)
	r := setupRouter(handler)

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info().Str("addr", addr).Msg("starting walserver")

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func setupRouter(h *apihttp.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/health", h.HandleHealth)
	r.Get("/stats", h.HandleStats)
	r.Post("/sync", h.HandleSync)
	r.Put("/kv/{key}", h.HandlePut)
	r.Get("/kv/{key}", h.HandleGet)
	r.Delete("/kv/{key}", h.HandleDelete)

	return r
}
