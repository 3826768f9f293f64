package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bandhitl/bank-loan-optimizer/internal/cache"
	"github.com/bandhitl/bank-loan-optimizer/internal/calendar"
	"github.com/bandhitl/bank-loan-optimizer/internal/config"
	"github.com/bandhitl/bank-loan-optimizer/internal/history"
	httpx "github.com/bandhitl/bank-loan-optimizer/internal/http"
	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
	"github.com/bandhitl/bank-loan-optimizer/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("logger init failed: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	cal := calendar.Indonesia2025()
	if len(cfg.ExtraHolidays) > 0 {
		cal = cal.WithHolidays(cfg.ExtraHolidays)
		logger.Info("calendar extended", zap.Int("extra_holidays", len(cfg.ExtraHolidays)))
	}
	calc := loan.NewCalculator(cal, logger)

	var planCache cache.PlanCache
	if cfg.RedisAddr != "" {
		planCache = cache.NewRedis(cfg.RedisAddr, cfg.CacheTTL)
		logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	} else {
		planCache = cache.NewMemory(cfg.CacheTTL)
		logger.Info("using in-memory cache")
	}

	var (
		db       *pgxpool.Pool
		recorder service.RunRecorder
		runs     httpx.RunLister
	)
	if cfg.HistoryEnabled() {
		db, err = history.NewPool(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal("db connect failed", zap.Error(err))
		}
		defer db.Close()

		store := history.NewStore(db, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("schema setup failed", zap.Error(err))
		}
		recorder = store
		runs = store

		sweeper := history.NewSweeper(store, cfg.HistoryRetention, logger)
		go sweeper.Run(ctx)
	} else {
		logger.Info("history disabled, set DB_NAME to enable")
	}

	svc := service.NewPlanService(calc, planCache, recorder, logger)
	router := httpx.NewRouter(svc, runs, db, logger)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("planner starting", zap.String("addr", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("planner stopped")
}
