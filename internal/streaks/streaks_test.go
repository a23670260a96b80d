package streaks

import (
	"math"
	"testing"
	"time"

	"trading-journal-analytics/internal/types"
)

func seq(pnls ...float64) []types.Trade {
	trades := make([]types.Trade, len(pnls))
	for i, p := range pnls {
		day := time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC)
		trades[i] = types.Trade{
			Symbol:    "NIFTY",
			Direction: types.Long,
			EntryDate: day,
			Timestamp: day.Add(10 * time.Hour),
			Pnl:       p,
		}
	}
	return trades
}

func TestSegmentation(t *testing.T) {
	// The trailing win is a single trade and stays out of the list.
	r := Analyze(seq(100, 50, -30, -20, -10, 80))
	if len(r.WinStreaks) != 1 || len(r.LossStreaks) != 1 {
		t.Fatalf("streaks = %d win / %d loss", len(r.WinStreaks), len(r.LossStreaks))
	}
	win := r.WinStreaks[0]
	if win.Count != 2 || math.Abs(win.Pnl-150) > 1e-9 {
		t.Errorf("win streak = %+v", win)
	}
	loss := r.LossStreaks[0]
	if loss.Count != 3 || math.Abs(loss.Pnl-(-60)) > 1e-9 {
		t.Errorf("loss streak = %+v", loss)
	}
	if loss.StartDate.Day() != 4 || loss.EndDate.Day() != 6 {
		t.Errorf("loss streak dates = %v..%v", loss.StartDate, loss.EndDate)
	}
}

func TestSingleTradeRunsStayOutOfLists(t *testing.T) {
	r := Analyze(seq(100, -30, 50, -20))
	if len(r.WinStreaks) != 0 || len(r.LossStreaks) != 0 {
		t.Errorf("streaks = %d win / %d loss, want none", len(r.WinStreaks), len(r.LossStreaks))
	}
	// Singletons still drive the longest and current streaks.
	if r.LongestWin == nil || r.LongestWin.Count != 1 {
		t.Errorf("longest win = %+v", r.LongestWin)
	}
	if r.LongestLoss == nil || r.LongestLoss.Count != 1 {
		t.Errorf("longest loss = %+v", r.LongestLoss)
	}
	if r.Current == nil || r.Current.Winning || r.Current.Count != 1 {
		t.Errorf("current streak = %+v", r.Current)
	}
}

func TestLongestAndCurrent(t *testing.T) {
	r := Analyze(seq(100, 50, -30, -20, -10, 80))
	if r.LongestWin == nil || r.LongestWin.Count != 2 {
		t.Errorf("longest win = %+v", r.LongestWin)
	}
	if r.LongestLoss == nil || r.LongestLoss.Count != 3 {
		t.Errorf("longest loss = %+v", r.LongestLoss)
	}
	if r.Current == nil || !r.Current.Winning || r.Current.Count != 1 {
		t.Errorf("current streak = %+v", r.Current)
	}
}

func TestBreakEvenEndsStreak(t *testing.T) {
	r := Analyze(seq(100, 0, 50))
	if len(r.WinStreaks) != 0 {
		t.Fatalf("win streaks = %d, want 0", len(r.WinStreaks))
	}
	if r.LongestWin == nil || r.LongestWin.Count != 1 {
		t.Errorf("longest win = %+v", r.LongestWin)
	}
	// Win rate counts only decided trades.
	if math.Abs(r.WinRate-100) > 1e-9 {
		t.Errorf("win rate = %v, want 100", r.WinRate)
	}
}

func TestTrailingBreakEvenClearsCurrent(t *testing.T) {
	r := Analyze(seq(100, 0))
	if r.Current != nil {
		t.Errorf("current streak = %+v, want nil", r.Current)
	}
}

func TestOutOfOrderInput(t *testing.T) {
	trades := seq(100, -30, 50)
	trades[0], trades[2] = trades[2], trades[0]

	r := Analyze(trades)
	if r.LongestWin == nil || r.LongestWin.Count != 1 || r.LongestLoss == nil {
		t.Errorf("longest = %+v / %+v", r.LongestWin, r.LongestLoss)
	}
	if r.Current == nil || !r.Current.Winning {
		t.Errorf("current streak = %+v", r.Current)
	}
}

func TestEmpty(t *testing.T) {
	r := Analyze(nil)
	if r.TotalTrades != 0 || r.Current != nil || len(r.WinStreaks) != 0 {
		t.Errorf("unexpected report: %+v", r)
	}
}
