package combo

import (
	"sort"
	"strings"

	"trading-journal-analytics/internal/types"
)

// Reported for a cohort with no losing trades, mirroring the journal-wide
// metric. A ratio with no losses is unbounded.
const profitFactorCap = 100

// AnalyzeCombinations groups trades into cohorts keyed by every
// order-sized combination of the attribute names present on each trade,
// then scores each cohort over its own chronological trade sequence. A
// trade joins a cohort only when it carries all the attributes in the
// cohort's key. Cohorts with fewer than minTrades members are dropped.
// Results come back sorted by pnl, highest first.
func AnalyzeCombinations(trades []types.Trade, order, minTrades int) []types.CombinationCohort {
	if order < 1 {
		return nil
	}
	groups := make(map[string][]types.Trade)
	keys := make(map[string][]types.AttributePair)
	for _, t := range trades {
		names := attributeNames(t.Attributes)
		if len(names) < order {
			continue
		}
		for _, subset := range combinations(names, order) {
			pairs := make([]types.AttributePair, len(subset))
			for i, name := range subset {
				pairs[i] = types.AttributePair{Name: name, Value: t.Attributes[name]}
			}
			label := cohortLabel(pairs)
			if _, ok := keys[label]; !ok {
				keys[label] = pairs
			}
			groups[label] = append(groups[label], t)
		}
	}

	cohorts := make([]types.CombinationCohort, 0, len(groups))
	for label, members := range groups {
		if len(members) < minTrades {
			continue
		}
		cohorts = append(cohorts, scoreCohort(keys[label], label, members))
	}
	sort.SliceStable(cohorts, func(i, j int) bool {
		if cohorts[i].Pnl != cohorts[j].Pnl {
			return cohorts[i].Pnl > cohorts[j].Pnl
		}
		return cohorts[i].Label < cohorts[j].Label
	})
	return cohorts
}

func scoreCohort(key []types.AttributePair, label string, members []types.Trade) types.CombinationCohort {
	c := types.CombinationCohort{Key: key, Label: label, Trades: len(members)}

	sorted := make([]types.Trade, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var rrSum float64
	var rrCount int
	var cumulative, peak, worst float64
	for _, t := range sorted {
		c.Pnl += t.Pnl
		switch {
		case t.Pnl > 0:
			c.GrossProfit += t.Pnl
			c.Wins++
		case t.Pnl < 0:
			c.GrossLoss += -t.Pnl
			c.Losses++
		}
		if t.RiskAmount != nil && *t.RiskAmount > 0 {
			rrSum += t.Pnl / *t.RiskAmount
			rrCount++
		}
		cumulative += t.Pnl
		if cumulative > peak {
			peak = cumulative
		}
		if dd := cumulative - peak; dd < worst {
			worst = dd
		}
	}
	c.MaxDrawdown = worst

	if decided := c.Wins + c.Losses; decided > 0 {
		c.WinRate = float64(c.Wins) / float64(decided) * 100
	}
	if c.Wins > 0 {
		c.AvgWin = c.GrossProfit / float64(c.Wins)
	}
	if c.Losses > 0 {
		c.AvgLoss = c.GrossLoss / float64(c.Losses)
	}
	if c.GrossLoss == 0 {
		if c.GrossProfit > 0 {
			c.ProfitFactor = profitFactorCap
		}
	} else {
		c.ProfitFactor = c.GrossProfit / c.GrossLoss
	}
	if decided := c.Wins + c.Losses; decided > 0 {
		winProb := float64(c.Wins) / float64(decided)
		c.Expectancy = winProb*c.AvgWin - (1-winProb)*c.AvgLoss
	}
	if rrCount > 0 {
		rr := rrSum / float64(rrCount)
		c.AvgRiskReward = &rr
	}
	return c
}

// BestByPnl returns the cohort with the highest pnl, or nil when the
// slice is empty. Ties keep the earlier cohort.
func BestByPnl(cohorts []types.CombinationCohort) *types.CombinationCohort {
	return bestBy(cohorts, func(c *types.CombinationCohort) float64 { return c.Pnl })
}

// BestByWinRate returns the cohort with the highest win rate.
func BestByWinRate(cohorts []types.CombinationCohort) *types.CombinationCohort {
	return bestBy(cohorts, func(c *types.CombinationCohort) float64 { return c.WinRate })
}

// BestByProfitFactor returns the cohort with the highest profit factor.
func BestByProfitFactor(cohorts []types.CombinationCohort) *types.CombinationCohort {
	return bestBy(cohorts, func(c *types.CombinationCohort) float64 { return c.ProfitFactor })
}

func bestBy(cohorts []types.CombinationCohort, score func(*types.CombinationCohort) float64) *types.CombinationCohort {
	var best *types.CombinationCohort
	for i := range cohorts {
		if best == nil || score(&cohorts[i]) > score(best) {
			best = &cohorts[i]
		}
	}
	return best
}

func attributeNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// combinations yields all k-sized subsets of names in lexicographic order.
// names must already be sorted.
func combinations(names []string, k int) [][]string {
	if k > len(names) {
		return nil
	}
	var out [][]string
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		subset := make([]string, k)
		for i, j := range idx {
			subset[i] = names[j]
		}
		out = append(out, subset)

		i := k - 1
		for i >= 0 && idx[i] == len(names)-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func cohortLabel(pairs []types.AttributePair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Name + ":" + p.Value
	}
	return strings.Join(parts, " | ")
}
