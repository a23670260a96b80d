package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trading-journal-analytics/internal/benchmark"
	"trading-journal-analytics/internal/equity"
	"trading-journal-analytics/internal/loader"
	"trading-journal-analytics/internal/logger"
	"trading-journal-analytics/internal/normalize"
	"trading-journal-analytics/internal/store"
	"trading-journal-analytics/internal/trace"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml")
		tradesPath = flag.String("trades", "", "path to a JSON or CSV trade export")
		symbol     = flag.String("symbol", "nifty-50", "benchmark index symbol")
		maxQuotes  = flag.Int("max-quotes", 250, "maximum quotes to fetch")
		timeout    = flag.Duration("timeout", 15*time.Second, "scrape timeout")
	)
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init tracer: %v\n", err)
	}

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	if err := run(ctx, *configPath, *tradesPath, *symbol, *maxQuotes, *timeout); err != nil {
		logger.ErrorWithErr(ctx, "Benchmark comparison failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, tradesPath, symbol string, maxQuotes int, timeout time.Duration) error {
	cfg := store.Default()
	if configPath != "" {
		loaded, err := store.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cfg.Benchmark.Symbol != "" {
		symbol = cfg.Benchmark.Symbol
	}
	if cfg.InitialBalance == nil {
		return fmt.Errorf("initial_balance required for benchmark comparison")
	}
	if tradesPath == "" {
		return fmt.Errorf("-trades is required")
	}

	raw, err := loader.Load(tradesPath)
	if err != nil {
		return err
	}
	result := normalize.New().Normalize(raw)
	curve := equity.BuildCurve(result.Trades)
	if len(curve) == 0 {
		return fmt.Errorf("no trades to compare")
	}

	scraper := benchmark.NewScraper(timeout)
	quotes, err := scraper.FetchQuotes(ctx, symbol, maxQuotes)
	if err != nil {
		return err
	}

	cmp, err := benchmark.Compare(curve, quotes, symbol, *cfg.InitialBalance)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
