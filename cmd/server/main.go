package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wsb-analyst/internal/agent"
	"wsb-analyst/internal/llm/claude"
	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/market"
	"wsb-analyst/internal/reddit"
	"wsb-analyst/internal/server"
	"wsb-analyst/internal/store"
	"wsb-analyst/internal/worker"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	cfg, err := store.LoadConfig("config.yaml")
	must(err)
	must(logger.Init())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	scraper, err := reddit.NewScraper(cfg.Reddit.Subreddit,
		time.Duration(cfg.Reddit.PacingSeconds)*time.Second)
	must(err)
	yahoo := market.NewYahoo(cfg.Market.Benchmark)

	// Without a key every run falls back to local quantitative mode.
	var reasoner agent.Reasoner
	if apiKey := os.Getenv(cfg.LLM.APIKeyEnv); apiKey != "" {
		reasoner = claude.New(apiKey, cfg.LLM.Model, cfg.LLM.MaxTokens)
	} else {
		logger.Warn(ctx, "no API key set, runs will use local analysis", "env", cfg.LLM.APIKeyEnv)
	}

	runs := store.NewRunStore()
	controller := agent.NewController(*cfg, runs, scraper, scraper, yahoo, reasoner)

	pool := worker.NewPool(cfg.Analysis.Workers * 4)
	pool.Start(ctx, cfg.Analysis.Workers)

	srv := server.New(*cfg, runs, pool, controller, scraper, yahoo)
	srv.Start()

	<-sigc
	logger.Info(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "http shutdown failed", err)
	}
	cancel()
	pool.Stop()
	_ = logger.Shutdown(shutdownCtx)
}
