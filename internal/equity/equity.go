package equity

import (
	"fmt"
	"math"
	"sort"
	"time"

	"trading-journal-analytics/internal/types"
)

// Granularity selects the resampling period for an equity curve.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Cumulative pnl below this magnitude is treated as zero when it is the
// base of a period return.
const nearZeroBase = 1e-4

// BuildCurve produces one equity point per trading day, ordered by date.
// CumulativePnl is the running sum across all prior days. PeriodReturnPct
// is the day's pnl over the magnitude of the previous day's cumulative
// pnl, 0 when that base is (near) zero.
func BuildCurve(trades []types.Trade) []types.EquityPoint {
	if len(trades) == 0 {
		return nil
	}
	sorted := make([]types.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var points []types.EquityPoint
	var cumulative float64
	for _, t := range sorted {
		day := dateOnly(t.EntryDate)
		if len(points) == 0 || !points[len(points)-1].Date.Equal(day) {
			points = append(points, types.EquityPoint{Date: day, CumulativePnl: cumulative})
		}
		p := &points[len(points)-1]
		p.PeriodPnl += t.Pnl
		cumulative += t.Pnl
		p.CumulativePnl = cumulative
	}

	prevCumulative := 0.0
	for i := range points {
		if base := math.Abs(prevCumulative); base >= nearZeroBase {
			points[i].PeriodReturnPct = points[i].PeriodPnl / base
		}
		prevCumulative = points[i].CumulativePnl
	}
	return points
}

// Resample rolls a daily curve up into weekly (ISO weeks), monthly or
// yearly points. PeriodPnl sums across the member days; CumulativePnl
// carries the last member's value. Daily returns the input unchanged.
func Resample(points []types.EquityPoint, g Granularity) ([]types.EquityPoint, error) {
	switch g {
	case Daily:
		return points, nil
	case Weekly, Monthly, Yearly:
	default:
		return nil, fmt.Errorf("unsupported granularity %q", g)
	}

	var out []types.EquityPoint
	lastKey := ""
	for _, p := range points {
		key := periodKey(p.Date, g)
		if lastKey != key {
			out = append(out, types.EquityPoint{Date: p.Date})
			lastKey = key
		}
		bucket := &out[len(out)-1]
		bucket.PeriodPnl += p.PeriodPnl
		bucket.CumulativePnl = p.CumulativePnl
	}
	return out, nil
}

func periodKey(d time.Time, g Granularity) string {
	switch g {
	case Monthly:
		return d.Format("2006-01")
	case Yearly:
		return d.Format("2006")
	}
	year, week := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
