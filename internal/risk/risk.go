package risk

import (
	"math"

	"trading-journal-analytics/internal/types"
)

const (
	tradingDaysPerYear = 252
	// Reported when gross loss is zero but gross profit is not. A ratio
	// with no losing trades is unbounded, so the report substitutes
	// this value.
	profitFactorCap = 100
)

const (
	missingBalance = "Initial account balance"
	missingHistory = "Sufficient trading history"
)

// ComputeMetrics derives risk statistics from a daily equity curve and the
// underlying trades. Trade-level ratios (profit factor, win rate,
// expectancy) always compute; the return-based ones (Sharpe, volatility)
// need initialBalance and at least two curve points, and degrade to nil
// with the gap named in MissingInputs.
func ComputeMetrics(curve []types.EquityPoint, trades []types.Trade, initialBalance *float64) types.RiskMetrics {
	m := types.RiskMetrics{}

	var grossProfit, grossLoss float64
	var wins, losses int
	for _, t := range trades {
		switch {
		case t.Pnl > 0:
			grossProfit += t.Pnl
			wins++
		case t.Pnl < 0:
			grossLoss += -t.Pnl
			losses++
		}
	}
	m.GrossProfit = grossProfit
	m.GrossLoss = grossLoss

	if decided := wins + losses; decided > 0 {
		m.WinRate = float64(wins) / float64(decided) * 100
	}
	if wins > 0 {
		m.AvgWin = grossProfit / float64(wins)
	}
	if losses > 0 {
		m.AvgLoss = grossLoss / float64(losses)
	}
	m.ProfitFactor = profitFactor(grossProfit, grossLoss)
	if decided := wins + losses; decided > 0 {
		winProb := float64(wins) / float64(decided)
		m.Expectancy = winProb*m.AvgWin - (1-winProb)*m.AvgLoss
	}

	m.MaxDrawdown = maxDrawdown(curve)

	returns := dailyReturns(curve, initialBalance)
	switch {
	case initialBalance == nil || *initialBalance <= 0:
		m.MissingInputs = append(m.MissingInputs, missingBalance)
	case len(returns) < 2:
		m.MissingInputs = append(m.MissingInputs, missingHistory)
	default:
		mean, stddev := meanStddev(returns)
		vol := stddev * math.Sqrt(tradingDaysPerYear) * 100
		m.Volatility = &vol
		sharpe := sharpeRatio(mean, stddev)
		m.SharpeRatio = &sharpe
	}
	return m
}

func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return profitFactorCap
		}
		return 0
	}
	return grossProfit / grossLoss
}

// maxDrawdown tracks the running peak of cumulative pnl and returns the
// deepest fall from it. Zero or negative; zero means the curve never
// dipped below a prior peak.
func maxDrawdown(curve []types.EquityPoint) float64 {
	var peak, worst float64
	for i, p := range curve {
		if i == 0 || p.CumulativePnl > peak {
			peak = p.CumulativePnl
		}
		if dd := p.CumulativePnl - peak; dd < worst {
			worst = dd
		}
	}
	return worst
}

// dailyReturns rebuilds fractional day-over-day returns from the curve,
// compounding equity from the initial balance.
func dailyReturns(curve []types.EquityPoint, initialBalance *float64) []float64 {
	if initialBalance == nil || *initialBalance <= 0 {
		return nil
	}
	equity := *initialBalance
	returns := make([]float64, 0, len(curve))
	for _, p := range curve {
		if equity == 0 {
			break
		}
		returns = append(returns, p.PeriodPnl/equity)
		equity += p.PeriodPnl
	}
	return returns
}

func meanStddev(xs []float64) (mean, stddev float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	stddev = math.Sqrt(ss / float64(len(xs)-1))
	return mean, stddev
}

func sharpeRatio(mean, stddev float64) float64 {
	if stddev == 0 {
		stddev = 1
	}
	s := mean / stddev * math.Sqrt(tradingDaysPerYear)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// Summarize computes the trade-level scoreboard: totals, split pnl, best
// and worst trades, streak counters and the balance-independent ratios.
func Summarize(trades []types.Trade, curve []types.EquityPoint, initialBalance *float64) types.SummaryStats {
	s := types.SummaryStats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return s
	}

	var grossProfit, grossLoss float64
	var wins, losses int
	var best, worst *types.Trade
	for i := range trades {
		t := &trades[i]
		s.TotalPnl += t.Pnl
		if t.Direction == types.Short {
			s.ShortPnl += t.Pnl
		} else {
			s.LongPnl += t.Pnl
		}
		switch {
		case t.Pnl > 0:
			grossProfit += t.Pnl
			wins++
		case t.Pnl < 0:
			grossLoss += -t.Pnl
			losses++
		default:
			s.BreakEven++
		}
		if best == nil || t.Pnl > best.Pnl {
			best = t
		}
		if worst == nil || t.Pnl < worst.Pnl {
			worst = t
		}
	}
	s.Wins = wins
	s.Losses = losses
	s.AvgPnl = s.TotalPnl / float64(len(trades))
	var avgWin, avgLoss float64
	if wins > 0 {
		avgWin = grossProfit / float64(wins)
	}
	if losses > 0 {
		avgLoss = grossLoss / float64(losses)
	}
	s.BestTrade = tradeRef(best)
	s.WorstTrade = tradeRef(worst)

	s.MaxConsecutiveWins, s.MaxConsecutiveLosses = maxStreaks(trades)

	if decided := wins + losses; decided > 0 && avgLoss > 0 {
		winProb := float64(wins) / float64(decided)
		kelly := (winProb - (1-winProb)/(avgWin/avgLoss)) * 100
		s.KellyPct = &kelly
	}

	dd := maxDrawdown(curve)
	if initialBalance != nil && *initialBalance != 0 {
		pct := dd / *initialBalance * 100
		s.MaxDrawdownPct = pct
	}
	if dd < 0 {
		rf := s.TotalPnl / -dd
		s.RecoveryFactor = &rf
	}

	if sortino := sortinoRatio(dailyReturns(curve, initialBalance)); sortino != nil {
		s.SortinoRatio = sortino
	}
	return s
}

// sortinoRatio is Sharpe with only downside deviation in the denominator.
// Nil when there is no balance, too little history, or no losing days.
func sortinoRatio(returns []float64) *float64 {
	if len(returns) < 2 {
		return nil
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var ss float64
	var downs int
	for _, r := range returns {
		if r < 0 {
			ss += r * r
			downs++
		}
	}
	if downs == 0 {
		return nil
	}
	downside := math.Sqrt(ss / float64(len(returns)))
	if downside == 0 {
		return nil
	}
	s := mean / downside * math.Sqrt(tradingDaysPerYear)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return nil
	}
	return &s
}

func maxStreaks(trades []types.Trade) (maxWins, maxLosses int) {
	var curWins, curLosses int
	for _, t := range trades {
		switch {
		case t.Pnl > 0:
			curWins++
			curLosses = 0
		case t.Pnl < 0:
			curLosses++
			curWins = 0
		default:
			curWins, curLosses = 0, 0
		}
		if curWins > maxWins {
			maxWins = curWins
		}
		if curLosses > maxLosses {
			maxLosses = curLosses
		}
	}
	return maxWins, maxLosses
}

func tradeRef(t *types.Trade) *types.TradeRef {
	if t == nil {
		return nil
	}
	return &types.TradeRef{ID: t.ID, Symbol: t.Symbol, Pnl: t.Pnl, Date: t.EntryDate}
}
