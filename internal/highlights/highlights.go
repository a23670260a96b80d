package highlights

import (
	"fmt"
	"sort"
	"time"

	"trading-journal-analytics/internal/types"
)

// Compute buckets trades by setup attribute, instrument, hour of day, ISO
// week and calendar month, and surfaces the best bucket of each kind by
// pnl. setupAttr names the attribute that identifies a setup; buckets with
// no trades never appear.
func Compute(trades []types.Trade, setupAttr string) types.Highlights {
	h := types.Highlights{
		Hourly:  []types.PeriodPerf{},
		Weekly:  []types.WeekPerf{},
		Monthly: []types.MonthPerf{},
	}
	if len(trades) == 0 {
		return h
	}

	type tally struct {
		wins    int
		decided int
	}
	setups := make(map[string]*types.PeriodPerf)
	instruments := make(map[string]*types.PeriodPerf)
	hours := make(map[int]*types.PeriodPerf)
	weeks := make(map[string]*types.WeekPerf)
	months := make(map[string]*types.MonthPerf)
	tallies := make(map[*types.PeriodPerf]*tally)

	add := func(p *types.PeriodPerf, pnl float64) {
		tl, ok := tallies[p]
		if !ok {
			tl = &tally{}
			tallies[p] = tl
		}
		p.Pnl += pnl
		p.Trades++
		if pnl > 0 {
			tl.wins++
		}
		if pnl != 0 {
			tl.decided++
		}
	}

	for _, t := range trades {
		if setup := t.Attributes[setupAttr]; setup != "" {
			p, ok := setups[setup]
			if !ok {
				p = &types.PeriodPerf{Label: setup}
				setups[setup] = p
			}
			add(p, t.Pnl)
		}
		if t.Symbol != "" {
			p, ok := instruments[t.Symbol]
			if !ok {
				p = &types.PeriodPerf{Label: t.Symbol}
				instruments[t.Symbol] = p
			}
			add(p, t.Pnl)
		}

		hour := t.Timestamp.Hour()
		hp, ok := hours[hour]
		if !ok {
			hp = &types.PeriodPerf{Label: fmt.Sprintf("%02d:00", hour)}
			hours[hour] = hp
		}
		add(hp, t.Pnl)

		year, week := t.EntryDate.ISOWeek()
		wkKey := fmt.Sprintf("%d-W%02d", year, week)
		wp, ok := weeks[wkKey]
		if !ok {
			start := weekStart(t.EntryDate)
			wp = &types.WeekPerf{
				PeriodPerf: types.PeriodPerf{Label: wkKey},
				Year:       year,
				Week:       week,
				StartDate:  start,
				EndDate:    start.AddDate(0, 0, 6),
			}
			weeks[wkKey] = wp
		}
		add(&wp.PeriodPerf, t.Pnl)

		moKey := t.EntryDate.Format("2006-01")
		mp, ok := months[moKey]
		if !ok {
			mp = &types.MonthPerf{
				PeriodPerf: types.PeriodPerf{Label: t.EntryDate.Format("January 2006")},
				Year:       t.EntryDate.Year(),
				Month:      t.EntryDate.Month(),
			}
			months[moKey] = mp
		}
		add(&mp.PeriodPerf, t.Pnl)
	}

	for p, tl := range tallies {
		if tl.decided > 0 {
			p.WinRate = float64(tl.wins) / float64(tl.decided) * 100
		}
	}

	h.BestSetup = bestPerf(setups)
	h.BestInstrument = bestPerf(instruments)

	hourKeys := make([]int, 0, len(hours))
	for k := range hours {
		hourKeys = append(hourKeys, k)
	}
	sort.Ints(hourKeys)
	for _, k := range hourKeys {
		h.Hourly = append(h.Hourly, *hours[k])
	}
	for i := range h.Hourly {
		if h.BestHour == nil || h.Hourly[i].Pnl > h.BestHour.Pnl {
			h.BestHour = &h.Hourly[i]
		}
	}

	for _, k := range sortedKeys(weeks) {
		h.Weekly = append(h.Weekly, *weeks[k])
	}
	for i := range h.Weekly {
		if h.BestWeek == nil || h.Weekly[i].Pnl > h.BestWeek.Pnl {
			h.BestWeek = &h.Weekly[i]
		}
	}

	for _, k := range sortedKeys(months) {
		mo := *months[k]
		mo.Weekly = weeksOfMonth(h.Weekly, mo.Year, mo.Month)
		h.Monthly = append(h.Monthly, mo)
	}
	for i := range h.Monthly {
		if h.BestMonth == nil || h.Monthly[i].Pnl > h.BestMonth.Pnl {
			h.BestMonth = &h.Monthly[i]
		}
	}
	return h
}

func bestPerf(m map[string]*types.PeriodPerf) *types.PeriodPerf {
	var best *types.PeriodPerf
	for _, k := range sortedKeys(m) {
		if best == nil || m[k].Pnl > best.Pnl {
			best = m[k]
		}
	}
	return best
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// weekStart returns the Monday of the ISO week containing d.
func weekStart(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// weeksOfMonth picks the weekly rows whose start date falls in the month.
func weeksOfMonth(weekly []types.WeekPerf, year int, month time.Month) []types.WeekPerf {
	var out []types.WeekPerf
	for _, w := range weekly {
		if w.StartDate.Year() == year && w.StartDate.Month() == month {
			out = append(out, w)
		}
	}
	return out
}
