package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"trading-journal-analytics/internal/calendar"
	"trading-journal-analytics/internal/combo"
	"trading-journal-analytics/internal/equity"
	"trading-journal-analytics/internal/highlights"
	"trading-journal-analytics/internal/interfaces"
	"trading-journal-analytics/internal/logger"
	"trading-journal-analytics/internal/normalize"
	"trading-journal-analytics/internal/risk"
	"trading-journal-analytics/internal/store"
	"trading-journal-analytics/internal/streaks"
	"trading-journal-analytics/internal/types"
)

// Engine runs the full analysis pipeline over a raw trade set and
// assembles the report. Repeat runs over identical input return the
// memoized report.
type Engine struct {
	cfg *store.Config
	now func() time.Time

	mu       sync.Mutex
	lastHash [sha256.Size]byte
	lastRun  *types.Report
}

var _ interfaces.Analyzer = (*Engine)(nil)

func New(cfg *store.Config) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// Analyze normalizes the raw entries and computes every section of the
// report: daily buckets, equity curve, risk metrics, summary, variable
// combinations, highlights and streaks.
func (e *Engine) Analyze(ctx context.Context, raw []types.RawTrade) (*types.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := contentHash(raw, e.cfg)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.lastRun != nil && e.lastHash == hash {
		cached := e.lastRun
		e.mu.Unlock()
		logger.Debug(ctx, "Returning memoized report", "trades", cached.TradeCount)
		return cached, nil
	}
	e.mu.Unlock()

	norm := normalize.New()
	result := norm.Normalize(raw)
	trades := result.Trades

	var warnings []string
	if result.SkippedRollup > 0 {
		warnings = append(warnings, fmt.Sprintf("skipped %d rollup rows", result.SkippedRollup))
		logger.DataQuality(ctx, "rollup rows skipped", result.SkippedRollup)
	}
	if n := len(result.DefaultedIDs); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d trades had no usable date and defaulted to today", n))
		logger.DataQuality(ctx, "trade dates defaulted", n, "ids", result.DefaultedIDs)
	}

	if e.cfg.TimeRangeDays > 0 {
		cutoff := e.now().AddDate(0, 0, -e.cfg.TimeRangeDays)
		kept := trades[:0]
		for _, t := range trades {
			if !t.EntryDate.Before(cutoff) {
				kept = append(kept, t)
			}
		}
		trades = kept
	}

	balance := e.cfg.InitialBalance
	curve := equity.BuildCurve(trades)
	resampled, err := equity.Resample(curve, equity.Granularity(e.cfg.Granularity))
	if err != nil {
		return nil, err
	}

	report := &types.Report{
		GeneratedAt: e.now(),
		TradeCount:  len(trades),
		Warnings:    warnings,
		Daily:       calendar.AggregateByDay(trades, nil),
		Curve:       curve,
		Metrics:     risk.ComputeMetrics(curve, trades, balance),
		Summary:     risk.Summarize(trades, curve, balance),
		Cohorts:     combo.AnalyzeCombinations(trades, e.cfg.Combination.Order, e.cfg.Combination.MinTrades),
		Highlights:  highlights.Compute(trades, e.cfg.SetupAttribute),
		Streaks:     streaks.Analyze(trades),
	}
	if e.cfg.Granularity != "daily" {
		report.Resampled = resampled
	}
	report.BestByPnl = combo.BestByPnl(report.Cohorts)
	report.BestByWin = combo.BestByWinRate(report.Cohorts)
	report.BestByProfit = combo.BestByProfitFactor(report.Cohorts)

	e.mu.Lock()
	e.lastHash = hash
	e.lastRun = report
	e.mu.Unlock()

	logger.Analysis(ctx, report.TradeCount, len(report.Cohorts), report.Summary.TotalPnl)
	return report, nil
}

// contentHash fingerprints the input and the knobs that shape the report,
// so a config change invalidates the memo as well as new trades.
func contentHash(raw []types.RawTrade, cfg *store.Config) ([sha256.Size]byte, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(raw); err != nil {
		return [sha256.Size]byte{}, err
	}
	if err := enc.Encode(cfg); err != nil {
		return [sha256.Size]byte{}, err
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
