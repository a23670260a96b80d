package interfaces

import (
	"context"

	"trading-journal-analytics/internal/types"
)

// TradeSource supplies raw journal entries from a file, a journal store or
// a broker account.
type TradeSource interface {
	Fetch(ctx context.Context) ([]types.RawTrade, error)
}
