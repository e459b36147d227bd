// Coinboard serves a personalized crypto-market dashboard API.
//
// Users sign up, choose investment preferences, and receive an aggregated
// view of live coin prices, market news, an AI-generated insight, and a meme,
// assembled from four independent upstream providers with per-provider
// fallbacks.
//
// Configuration is loaded from an optional YAML file plus COINBOARD_*
// environment variables. See internal/config for details.
//
// Usage:
//
//	COINBOARD_AUTH_JWT_SECRET=... coinboard
//	coinboard -config /etc/coinboard/config.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/coinboard/coinboard/internal/auth"
	"github.com/coinboard/coinboard/internal/config"
	"github.com/coinboard/coinboard/internal/dashboard"
	coinhttp "github.com/coinboard/coinboard/internal/http"
	"github.com/coinboard/coinboard/internal/logging"
	"github.com/coinboard/coinboard/internal/providers/insight"
	"github.com/coinboard/coinboard/internal/providers/meme"
	"github.com/coinboard/coinboard/internal/providers/news"
	"github.com/coinboard/coinboard/internal/providers/prices"
	"github.com/coinboard/coinboard/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("server error: %v", err)
	}

	log.Println("server shutdown complete")
}

// run wires the components together and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	aggregator := dashboard.New(
		st,
		prices.New(cfg.CoinGecko, logger.Named("prices")),
		news.New(cfg.CryptoPanic, logger.Named("news")),
		insight.New(cfg.OpenRouter, cfg.HuggingFace, logger.Named("insight")),
		meme.New(cfg.Reddit, logger.Named("meme")),
		logger.Named("dashboard"),
	)

	server, err := coinhttp.NewServer(
		&coinhttp.Config{Host: cfg.Server.Host, Port: cfg.Server.Port},
		logger, st, tokens, aggregator,
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	return nil
}
