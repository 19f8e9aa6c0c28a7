package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	"stock_dashboard/internal/config"
	priceshandler "stock_dashboard/internal/feature/prices/transport/handler"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not loaded, using process environment", "reason", err)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	rdb := di.OpenRedis(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// 銘柄カタログ（任意）
	var symbolH *symbollisthandler.SymbolHandler
	catalog, err := di.OpenCatalog(cfg)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}
	if catalog != nil {
		symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(catalog))
		symbolH = symbollisthandler.NewSymbolHandler(symbolUC)
	}

	// Repository -> Usecase -> Handler
	tables := di.NewPriceTableRepository(cfg, rdb)
	pricesUC := pricesusecase.NewPricesUsecase(tables)
	pricesH := priceshandler.NewPricesHandler(pricesUC, priceshandler.Options{
		LegacyErrorStatus: cfg.Server.LegacyErrorStatus,
	})

	r := router.NewRouter(pricesH, symbolH, router.Options{
		DataDir:     cfg.Data.Dir,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("query service listening", "addr", cfg.Server.Addr, "data_dir", cfg.Data.Dir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
