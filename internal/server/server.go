// Package server exposes the analysis engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"wsb-analyst/internal/agent"
	"wsb-analyst/internal/analysis"
	"wsb-analyst/internal/interfaces"
	"wsb-analyst/internal/logger"
	"wsb-analyst/internal/store"
	"wsb-analyst/internal/types"
	"wsb-analyst/internal/worker"
)

const stockHistoryBars = 60

// Server wires the run registry, worker pool, and data sources behind an
// Echo router.
type Server struct {
	echo       *echo.Echo
	cfg        store.Config
	runs       *store.RunStore
	pool       *worker.Pool
	controller *agent.Controller
	trending   interfaces.TrendingSource
	market     interfaces.MarketDataSource
}

func New(
	cfg store.Config,
	runs *store.RunStore,
	pool *worker.Pool,
	controller *agent.Controller,
	trending interfaces.TrendingSource,
	market interfaces.MarketDataSource,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:       e,
		cfg:        cfg,
		runs:       runs,
		pool:       pool,
		controller: controller,
		trending:   trending,
		market:     market,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)
	api := s.echo.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/analysis/latest", s.handleLatestAnalysis)
	api.GET("/analysis/:id", s.handleAnalysis)
	api.GET("/trending", s.handleTrending)
	api.GET("/stock/:ticker", s.handleStock)
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"app":    "WSB Stock Analyst",
	})
}

// handleAnalyze registers a run and queues it for background execution.
func (s *Server) handleAnalyze(c echo.Context) error {
	jobID := uuid.NewString()
	run := s.runs.Create(jobID)

	err := s.pool.Submit(func(ctx context.Context) {
		s.controller.Execute(ctx, jobID)
	})
	if err != nil {
		logger.Warn(c.Request().Context(), "analysis submission rejected", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "analysis queue is full, try again later")
	}

	logger.Info(c.Request().Context(), "analysis run queued", "job_id", jobID)
	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id": run.JobID,
		"status": string(run.Status),
	})
}

func (s *Server) handleAnalysis(c echo.Context) error {
	run, ok := s.runs.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown job id")
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleLatestAnalysis(c echo.Context) error {
	run, ok := s.runs.LatestCompleted()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no completed analysis yet")
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleTrending(c echo.Context) error {
	timeFilter := c.QueryParam("time_filter")
	if timeFilter == "" {
		timeFilter = s.cfg.Reddit.TimeFilter
	}
	limit := s.cfg.Reddit.ScanLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	mentions, err := s.trending.Trending(c.Request().Context(), timeFilter, limit)
	if err != nil {
		logger.ErrorWithErr(c.Request().Context(), "trending fetch failed", err)
		return echo.NewHTTPError(http.StatusBadGateway, "could not fetch trending tickers")
	}
	return c.JSON(http.StatusOK, map[string]any{"tickers": mentions})
}

// handleStock runs the three quantitative analyzers synchronously for one
// ticker, outside any run.
func (s *Server) handleStock(c echo.Context) error {
	ctx := c.Request().Context()
	ticker := strings.ToUpper(c.Param("ticker"))

	data, err := s.market.PriceHistory(ctx, ticker, s.cfg.Market.Period)
	if err != nil || len(data.History) == 0 {
		logger.Warn(ctx, "stock detail fetch failed", "ticker", ticker, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("analysis failed for %s", ticker))
	}

	fin, err := s.market.FinancialStatements(ctx, ticker)
	if err != nil {
		fin = types.FinancialStatements{Ticker: ticker}
	}
	benchmark, err := s.market.Benchmark(ctx, s.cfg.Market.Period)
	if err != nil {
		benchmark = nil
	}

	history := data.History
	if len(history) > stockHistoryBars {
		history = history[len(history)-stockHistoryBars:]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ticker":        ticker,
		"info":          data.Info,
		"fundamental":   analysis.Fundamentals(ticker, data, fin),
		"technical":     analysis.Technicals(ticker, data),
		"risk":          analysis.Risk(ticker, data, benchmark),
		"price_history": history,
	})
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	go func() {
		logger.Info(context.Background(), "http server listening", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(context.Background(), "http server error", err)
		}
	}()
}

// Stop drains and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
