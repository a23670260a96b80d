package interfaces

import (
	"context"

	"trading-journal-analytics/internal/types"
)

type Analyzer interface {
	Analyze(ctx context.Context, raw []types.RawTrade) (*types.Report, error)
}
