package zerodha

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"github.com/zerodha/gokiteconnect/v4/models"
)

type fakeTradebook struct {
	fills kiteconnect.Trades
	err   error
}

func (f *fakeTradebook) GetTrades() (kiteconnect.Trades, error) {
	return f.fills, f.err
}

func fill(symbol, side string, qty, price float64, ts time.Time) kiteconnect.Trade {
	return kiteconnect.Trade{
		TradingSymbol:   symbol,
		TransactionType: side,
		Quantity:        qty,
		AveragePrice:    price,
		FillTimestamp:   models.Time{Time: ts},
	}
}

func TestFetchMatchesBuysAndSells(t *testing.T) {
	day := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	im := &Importer{tb: &fakeTradebook{fills: kiteconnect.Trades{
		fill("NIFTY", "BUY", 50, 100, day),
		fill("NIFTY", "BUY", 50, 102, day.Add(time.Minute)),
		fill("NIFTY", "SELL", 100, 105, day.Add(time.Hour)),
	}}}

	raw, err := im.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("entries = %d, want 1", len(raw))
	}
	// buy avg 101, sell avg 105, matched 100: pnl 400.
	pnl, ok := raw[0].Pnl.(float64)
	if !ok || math.Abs(pnl-400) > 1e-9 {
		t.Errorf("pnl = %v, want 400", raw[0].Pnl)
	}
	if raw[0].Direction != "long" {
		t.Errorf("direction = %q, want long", raw[0].Direction)
	}
	if raw[0].Attributes["source"] != "zerodha" {
		t.Errorf("attributes = %v", raw[0].Attributes)
	}
}

func TestFetchShortDirection(t *testing.T) {
	day := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	im := &Importer{tb: &fakeTradebook{fills: kiteconnect.Trades{
		fill("NIFTY", "SELL", 50, 110, day),
		fill("NIFTY", "BUY", 50, 100, day.Add(time.Hour)),
	}}}

	raw, err := im.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if raw[0].Direction != "short" {
		t.Errorf("direction = %q, want short", raw[0].Direction)
	}
	pnl := raw[0].Pnl.(float64)
	if math.Abs(pnl-500) > 1e-9 {
		t.Errorf("pnl = %v, want 500", pnl)
	}
}

func TestFetchSplitsSymbolAndDay(t *testing.T) {
	d1 := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	im := &Importer{tb: &fakeTradebook{fills: kiteconnect.Trades{
		fill("NIFTY", "BUY", 10, 100, d1),
		fill("NIFTY", "SELL", 10, 101, d1.Add(time.Hour)),
		fill("NIFTY", "BUY", 10, 100, d2),
		fill("BANKNIFTY", "BUY", 5, 200, d1),
	}}}

	raw, err := im.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raw) != 3 {
		t.Errorf("entries = %d, want 3", len(raw))
	}
}

func TestFetchUnmatchedDayHasZeroPnl(t *testing.T) {
	day := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	im := &Importer{tb: &fakeTradebook{fills: kiteconnect.Trades{
		fill("NIFTY", "BUY", 10, 100, day),
	}}}

	raw, err := im.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if pnl := raw[0].Pnl.(float64); pnl != 0 {
		t.Errorf("pnl = %v, want 0", pnl)
	}
}

func TestFetchPropagatesError(t *testing.T) {
	im := &Importer{tb: &fakeTradebook{err: errors.New("boom")}}
	if _, err := im.Fetch(context.Background()); err == nil {
		t.Errorf("expected error")
	}
}

func TestNewImporterRequiresCredentials(t *testing.T) {
	if _, err := NewImporter("", ""); err == nil {
		t.Errorf("expected error for missing credentials")
	}
}
