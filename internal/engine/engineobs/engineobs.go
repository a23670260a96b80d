package engineobs

import (
	"context"
	"time"

	"trading-journal-analytics/internal/interfaces"
	"trading-journal-analytics/internal/logger"
	"trading-journal-analytics/internal/trace"
	"trading-journal-analytics/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

func Wrap(a interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: a,
	}
}

func (oa *observableAnalyzer) Analyze(ctx context.Context, raw []types.RawTrade) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Analyze")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting analysis run",
		"raw_trades", len(raw),
	)

	report, err := oa.analyzer.Analyze(ctx, raw)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analysis run failed", err,
			"raw_trades", len(raw),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Analysis run completed",
		"trades", report.TradeCount,
		"cohorts", len(report.Cohorts),
		"total_pnl", report.Summary.TotalPnl,
		"warnings", len(report.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report, nil
}
