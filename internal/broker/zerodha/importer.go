package zerodha

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"trading-journal-analytics/internal/interfaces"
	"trading-journal-analytics/internal/types"
)

// tradebook is the slice of the Kite client the importer needs, kept small
// so tests can feed canned fills.
type tradebook interface {
	GetTrades() (kiteconnect.Trades, error)
}

var _ tradebook = (*kiteconnect.Client)(nil)

// Importer turns the day's broker fills into raw journal entries. Fills
// are grouped per symbol per day; buys and sells net against each other at
// their average prices and the matched quantity realizes the pnl.
type Importer struct {
	tb tradebook
}

var _ interfaces.TradeSource = (*Importer)(nil)

func NewImporter(apiKey, accessToken string) (*Importer, error) {
	if apiKey == "" || accessToken == "" {
		return nil, errors.New("missing API key/access token")
	}
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &Importer{tb: kc}, nil
}

type position struct {
	symbol    string
	day       time.Time
	firstFill time.Time
	firstSide string
	buyQty    float64
	buyValue  float64
	sellQty   float64
	sellValue float64
}

// Fetch reads the tradebook and reduces it to one entry per symbol per
// day. Positions with no matched quantity (all-buy or all-sell days) are
// emitted with zero pnl so the journal still records the activity.
func (im *Importer) Fetch(ctx context.Context) ([]types.RawTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fills, err := im.tb.GetTrades()
	if err != nil {
		return nil, fmt.Errorf("fetch tradebook: %w", err)
	}

	positions := make(map[string]*position)
	for _, f := range fills {
		ts := f.FillTimestamp.Time
		key := f.TradingSymbol + "|" + ts.Format("2006-01-02")
		pos := positions[key]
		if pos == nil {
			pos = &position{
				symbol:    f.TradingSymbol,
				day:       ts,
				firstFill: ts,
				firstSide: f.TransactionType,
			}
			positions[key] = pos
		}
		if ts.Before(pos.firstFill) {
			pos.firstFill = ts
			pos.firstSide = f.TransactionType
		}
		if f.TransactionType == "BUY" {
			pos.buyQty += f.Quantity
			pos.buyValue += f.Quantity * f.AveragePrice
		} else {
			pos.sellQty += f.Quantity
			pos.sellValue += f.Quantity * f.AveragePrice
		}
	}

	keys := make([]string, 0, len(positions))
	for k := range positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.RawTrade, 0, len(positions))
	for _, k := range keys {
		pos := positions[k]
		out = append(out, pos.toRawTrade())
	}
	return out, nil
}

func (pos *position) toRawTrade() types.RawTrade {
	var buyAvg, sellAvg float64
	if pos.buyQty > 0 {
		buyAvg = pos.buyValue / pos.buyQty
	}
	if pos.sellQty > 0 {
		sellAvg = pos.sellValue / pos.sellQty
	}
	matched := pos.buyQty
	if pos.sellQty < matched {
		matched = pos.sellQty
	}
	realized := matched * (sellAvg - buyAvg)

	direction := "long"
	if pos.firstSide == "SELL" {
		direction = "short"
	}
	return types.RawTrade{
		ID:        fmt.Sprintf("kite-%s-%s", pos.symbol, pos.day.Format("2006-01-02")),
		Symbol:    pos.symbol,
		Direction: direction,
		Timestamp: pos.firstFill.Format(time.RFC3339),
		Pnl:       realized,
		Attributes: map[string]string{
			"source": "zerodha",
		},
	}
}
