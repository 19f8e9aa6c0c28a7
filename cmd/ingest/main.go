package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/config"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	symbollistadapters "stock_dashboard/internal/feature/symbollist/adapters"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	"stock_dashboard/internal/platform/scheduler"
)

func main() {
	seed := flag.Bool("seed", false, "upsert the configured symbols into the catalog before ingesting")
	schedule := flag.Bool("schedule", false, "run on the configured cron schedule until interrupted")
	flag.Parse()

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
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	market, err := di.NewMarket(cfg)
	if err != nil {
		log.Fatalf("init market provider: %v", err)
	}

	// 保存時に同じRedisのキャッシュを無効化する
	rdb := di.OpenRedis(ctx, cfg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	tables := di.NewPriceTableRepository(cfg, rdb)

	uc := pricesusecase.NewIngestUsecase(market, tables, di.NewRateLimiter(cfg), pricesusecase.IngestOptions{
		StripSuffixes: cfg.Ingest.StripSuffixes,
		Lookback:      cfg.Lookback(),
	})

	// 取り込み対象: カタログがあればカタログ、なければ設定の銘柄リスト
	symbolsFor := func(ctx context.Context) ([]string, error) { return cfg.Ingest.Symbols, nil }
	catalog, err := di.OpenCatalog(cfg)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}
	if catalog != nil {
		symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(catalog))
		if *seed {
			if err := symbolUC.Seed(ctx, cfg.Ingest.Symbols); err != nil {
				log.Fatalf("seed catalog: %v", err)
			}
			slog.Info("catalog seeded", "count", len(cfg.Ingest.Symbols))
		}
		symbolsFor = func(ctx context.Context) ([]string, error) {
			return symbolUC.IngestSymbols(ctx, cfg.Ingest.Symbols)
		}
	} else if *seed {
		slog.Warn("-seed ignored: no catalog database configured")
	}

	run := func(ctx context.Context) error {
		symbols, err := symbolsFor(ctx)
		if err != nil {
			return err
		}
		report, err := uc.IngestAll(ctx, symbols)
		slog.Info("ingest finished",
			"saved", len(report.Saved), "skipped", len(report.Skipped), "failed", len(report.Failed))
		return err
	}

	if !*schedule {
		if err := run(ctx); err != nil {
			slog.Error("ingest completed with errors", "error", err)
			os.Exit(1)
		}
		slog.Info("ingest ok")
		return
	}

	sched := scheduler.NewScheduler(ctx)
	if err := sched.Register("ingest", cfg.Ingest.Schedule, func(ctx context.Context) {
		if err := run(ctx); err != nil {
			slog.Error("scheduled ingest completed with errors", "error", err)
		}
	}); err != nil {
		log.Fatalf("register schedule: %v", err)
	}
	sched.Start()

	<-ctx.Done()
	slog.Info("shutdown signal received, stopping")
	sched.Stop()
}
