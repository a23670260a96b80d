package calendar

import (
	"time"

	"trading-journal-analytics/internal/normalize"
	"trading-journal-analytics/internal/types"
)

// Filter narrows the trade set before bucketing so filtered grids never
// include excluded trades in their sums. A nil Filter keeps everything.
type Filter func(types.Trade) bool

// BySymbol keeps trades on the given instrument.
func BySymbol(symbol string) Filter {
	return func(t types.Trade) bool { return t.Symbol == symbol }
}

// ByDirection keeps trades on the given side.
func ByDirection(d types.Direction) Filter {
	return func(t types.Trade) bool { return t.Direction == d }
}

// ByAttribute keeps trades carrying the given attribute value.
func ByAttribute(name, value string) Filter {
	return func(t types.Trade) bool { return t.Attributes[name] == value }
}

// AggregateByDay buckets trades by their entry date. One bucket per
// distinct date, created lazily on the first trade seen for that date;
// same-day trades sum into it.
func AggregateByDay(trades []types.Trade, filter Filter) map[string]types.DailyBucket {
	buckets := make(map[string]types.DailyBucket)
	for _, t := range trades {
		if filter != nil && !filter(t) {
			continue
		}
		key := normalize.DateKey(t.EntryDate)
		b, ok := buckets[key]
		if !ok {
			b = types.DailyBucket{Date: t.EntryDate}
		}
		b.Pnl += t.Pnl
		b.TradeCount++
		buckets[key] = b
	}
	return buckets
}

// Cell is one day of the month grid, carrying its bucket (zero-valued when
// no trades landed on that day) plus rendering flags.
type Cell struct {
	Date           time.Time         `json:"date"`
	Bucket         types.DailyBucket `json:"bucket"`
	IsCurrentMonth bool              `json:"is_current_month"`
	IsToday        bool              `json:"is_today"`
	IsFuture       bool              `json:"is_future"`
	IsSelected     bool              `json:"is_selected"`
}

// Week is one grid row, Sunday through Saturday.
type Week [7]Cell

const gridWeeks = 6

// ExpandToMonthGrid lays the buckets out on a fixed 6x7 grid covering the
// full calendar weeks that overlap the month of anchor. Weeks start on
// Sunday. now drives the IsToday/IsFuture flags; selected may be nil.
func ExpandToMonthGrid(buckets map[string]types.DailyBucket, anchor, now time.Time, selected *time.Time) []Week {
	monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	grid := make([]Week, gridWeeks)
	day := gridStart
	for w := 0; w < gridWeeks; w++ {
		for d := 0; d < 7; d++ {
			cell := Cell{
				Date:           day,
				IsCurrentMonth: day.Month() == monthStart.Month() && day.Year() == monthStart.Year(),
				IsToday:        day.Equal(today),
				IsFuture:       day.After(today),
			}
			if b, ok := buckets[normalize.DateKey(day)]; ok {
				cell.Bucket = b
			} else {
				cell.Bucket = types.DailyBucket{Date: day}
			}
			if selected != nil && sameDay(day, *selected) {
				cell.IsSelected = true
			}
			grid[w][d] = cell
			day = day.AddDate(0, 0, 1)
		}
	}
	return grid
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
