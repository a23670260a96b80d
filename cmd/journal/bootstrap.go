package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"trading-journal-analytics/internal/broker/zerodha"
	"trading-journal-analytics/internal/engine"
	"trading-journal-analytics/internal/engine/engineobs"
	"trading-journal-analytics/internal/interfaces"
	"trading-journal-analytics/internal/journal"
	"trading-journal-analytics/internal/loader"
	"trading-journal-analytics/internal/logger"
	"trading-journal-analytics/internal/store"
	"trading-journal-analytics/internal/trace"
	"trading-journal-analytics/internal/types"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	if path == "" {
		return store.Default(), nil
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// compressOldEntries gzips journal files past the retention window
func compressOldEntries(ctx context.Context, js *journal.Store) {
	if v := os.Getenv("JOURNAL_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := js.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old journal files", "error", err)
		}
	}
}

// resolveSource picks where raw trades come from: an export file, the
// broker tradebook, or the local journal store.
func resolveSource(ctx context.Context, cfg *store.Config, tradesPath string, useBroker bool) (interfaces.TradeSource, error) {
	if tradesPath != "" {
		logger.Info(ctx, "Loading trades from file", "path", tradesPath)
		return fileSource(tradesPath), nil
	}
	if useBroker || cfg.Broker.Enabled {
		apiKey := os.Getenv(cfg.Broker.APIKeyEnv)
		accessToken := os.Getenv(cfg.Broker.TokenEnv)
		im, err := zerodha.NewImporter(apiKey, accessToken)
		if err != nil {
			return nil, fmt.Errorf("broker import: %w", err)
		}
		logger.Info(ctx, "Importing trades from Zerodha tradebook")
		return im, nil
	}

	js := journal.NewStore(cfg.JournalDir)
	compressOldEntries(ctx, js)
	logger.Info(ctx, "Reading trades from journal store", "dir", cfg.JournalDir)
	return js, nil
}

type fileSource string

func (f fileSource) Fetch(ctx context.Context) ([]types.RawTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return loader.Load(string(f))
}

func run(ctx context.Context, configPath, tradesPath, outPath string, useBroker bool) error {
	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	source, err := resolveSource(ctx, cfg, tradesPath, useBroker)
	if err != nil {
		return err
	}
	raw, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}
	logger.Ingest(ctx, sourceName(tradesPath, useBroker || cfg.Broker.Enabled), len(raw), 0, 0)

	analyzer := engineobs.Wrap(engine.New(cfg))
	report, err := analyzer.Analyze(ctx, raw)
	if err != nil {
		return err
	}

	return writeReport(report, outPath)
}

func sourceName(tradesPath string, broker bool) string {
	switch {
	case tradesPath != "":
		return tradesPath
	case broker:
		return "zerodha"
	default:
		return "journal"
	}
}

func writeReport(report *types.Report, outPath string) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Println(string(b))
		return nil
	}
	return os.WriteFile(outPath, append(b, '\n'), 0o644)
}
