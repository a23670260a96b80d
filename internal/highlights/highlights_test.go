package highlights

import (
	"math"
	"testing"
	"time"

	"trading-journal-analytics/internal/types"
)

func mk(symbol string, ts time.Time, pnl float64, setup string) types.Trade {
	attrs := map[string]string{}
	if setup != "" {
		attrs["setup"] = setup
	}
	return types.Trade{
		Symbol:     symbol,
		Direction:  types.Long,
		EntryDate:  time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		Timestamp:  ts,
		Pnl:        pnl,
		Attributes: attrs,
	}
}

func TestBestSetupAndInstrument(t *testing.T) {
	d := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	trades := []types.Trade{
		mk("NIFTY", d, 100, "breakout"),
		mk("NIFTY", d, -20, "breakout"),
		mk("BANKNIFTY", d, 200, "reversal"),
	}

	h := Compute(trades, "setup")
	if h.BestSetup == nil || h.BestSetup.Label != "reversal" {
		t.Errorf("best setup = %+v", h.BestSetup)
	}
	if h.BestInstrument == nil || h.BestInstrument.Label != "BANKNIFTY" {
		t.Errorf("best instrument = %+v", h.BestInstrument)
	}
	if math.Abs(h.BestInstrument.Pnl-200) > 1e-9 {
		t.Errorf("best instrument pnl = %v", h.BestInstrument.Pnl)
	}
}

func TestHourlyBuckets(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	trades := []types.Trade{
		mk("NIFTY", day.Add(9*time.Hour+30*time.Minute), 50, ""),
		mk("NIFTY", day.Add(9*time.Hour+45*time.Minute), 30, ""),
		mk("NIFTY", day.Add(14*time.Hour), -20, ""),
	}

	h := Compute(trades, "setup")
	if len(h.Hourly) != 2 {
		t.Fatalf("hourly buckets = %d, want 2", len(h.Hourly))
	}
	if h.Hourly[0].Label != "09:00" || h.Hourly[0].Trades != 2 {
		t.Errorf("first hourly bucket = %+v", h.Hourly[0])
	}
	if h.BestHour == nil || h.BestHour.Label != "09:00" {
		t.Errorf("best hour = %+v", h.BestHour)
	}
}

func TestWeeklyBoundaries(t *testing.T) {
	// Fri Jan 5 2024 is ISO week 1; Mon Jan 8 is week 2.
	fri := time.Date(2024, 1, 5, 11, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 1, 8, 11, 0, 0, 0, time.UTC)
	trades := []types.Trade{
		mk("NIFTY", fri, 40, ""),
		mk("NIFTY", mon, 90, ""),
	}

	h := Compute(trades, "setup")
	if len(h.Weekly) != 2 {
		t.Fatalf("weekly buckets = %d, want 2", len(h.Weekly))
	}
	w1 := h.Weekly[0]
	if w1.Week != 1 || w1.StartDate.Day() != 1 || w1.EndDate.Day() != 7 {
		t.Errorf("week 1 = %+v", w1)
	}
	if h.BestWeek == nil || h.BestWeek.Week != 2 {
		t.Errorf("best week = %+v", h.BestWeek)
	}
}

func TestMonthlyWithNestedWeeks(t *testing.T) {
	jan := time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 14, 11, 0, 0, 0, time.UTC)
	trades := []types.Trade{
		mk("NIFTY", jan, 40, ""),
		mk("NIFTY", feb, -90, ""),
	}

	h := Compute(trades, "setup")
	if len(h.Monthly) != 2 {
		t.Fatalf("monthly buckets = %d, want 2", len(h.Monthly))
	}
	if h.BestMonth == nil || h.BestMonth.Month != time.January {
		t.Errorf("best month = %+v", h.BestMonth)
	}
	if len(h.Monthly[0].Weekly) != 1 {
		t.Errorf("january nested weeks = %d, want 1", len(h.Monthly[0].Weekly))
	}
}

func TestWinRatePerBucket(t *testing.T) {
	d := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	trades := []types.Trade{
		mk("NIFTY", d, 100, "breakout"),
		mk("NIFTY", d, -20, "breakout"),
		mk("NIFTY", d, 0, "breakout"), // break-even excluded from rate
	}

	h := Compute(trades, "setup")
	if h.BestSetup == nil || math.Abs(h.BestSetup.WinRate-50) > 1e-9 {
		t.Errorf("setup win rate = %+v", h.BestSetup)
	}
	if h.BestSetup.Trades != 3 {
		t.Errorf("setup trades = %d, want 3", h.BestSetup.Trades)
	}
}

func TestEmptyInput(t *testing.T) {
	h := Compute(nil, "setup")
	if h.BestSetup != nil || h.BestWeek != nil || len(h.Hourly) != 0 {
		t.Errorf("non-empty highlights for no trades: %+v", h)
	}
}
