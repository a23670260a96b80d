package streaks

import (
	"sort"

	"trading-journal-analytics/internal/types"
)

// Analyze segments the trade history into alternating runs of winning and
// losing trades. Break-even trades end the current run without starting a
// new one. The streak lists only carry runs of two or more trades; runs of
// length one still count towards the longest and current streaks.
func Analyze(trades []types.Trade) types.StreakReport {
	r := types.StreakReport{
		TotalTrades: len(trades),
		WinStreaks:  []types.Streak{},
		LossStreaks: []types.Streak{},
	}
	if len(trades) == 0 {
		return r
	}

	sorted := make([]types.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var decided int
	var current *types.Streak
	var longestWin, longestLoss *types.Streak
	flush := func() {
		if current == nil {
			return
		}
		run := *current
		if run.Winning {
			if longestWin == nil || run.Count > longestWin.Count {
				longestWin = &run
			}
			if run.Count > 1 {
				r.WinStreaks = append(r.WinStreaks, run)
			}
		} else {
			if longestLoss == nil || run.Count > longestLoss.Count {
				longestLoss = &run
			}
			if run.Count > 1 {
				r.LossStreaks = append(r.LossStreaks, run)
			}
		}
		current = nil
	}

	for _, t := range sorted {
		if t.Pnl == 0 {
			flush()
			continue
		}
		winning := t.Pnl > 0
		if winning {
			r.WinningTrades++
		}
		decided++
		if current != nil && current.Winning != winning {
			flush()
		}
		if current == nil {
			current = &types.Streak{Winning: winning, StartDate: t.EntryDate}
		}
		current.Count++
		current.Pnl += t.Pnl
		current.EndDate = t.EntryDate
	}
	// The trailing run is the trader's active streak.
	if current != nil {
		active := *current
		r.Current = &active
	}
	flush()

	if decided > 0 {
		r.WinRate = float64(r.WinningTrades) / float64(decided) * 100
	}
	r.LongestWin = longestWin
	r.LongestLoss = longestLoss
	return r
}
