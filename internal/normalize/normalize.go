package normalize

import (
	"strconv"
	"strings"
	"time"

	"trading-journal-analytics/internal/types"

	"github.com/google/uuid"
)

// dateLayouts are tried in order when parsing a raw date field.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Result is the normalizer output: canonical trades plus the ids of trades
// whose date could not be resolved and was defaulted to the processing day.
// Defaulted trades are kept, not dropped; the id list lets callers surface
// a data-quality warning.
type Result struct {
	Trades        []types.Trade
	DefaultedIDs  []string
	SkippedRollup int
}

// Normalizer converts loosely shaped raw records into canonical trades.
// Now is injectable so the "missing date" fallback is deterministic in tests.
type Normalizer struct {
	Now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// Normalize validates and coerces every raw record. Malformed individual
// records degrade to defaults; only rollup rows (weekly/monthly summaries
// mixed into a trade feed) are excluded, so they cannot double-count in
// daily aggregation.
func (n *Normalizer) Normalize(raw []types.RawTrade) Result {
	res := Result{Trades: make([]types.Trade, 0, len(raw))}
	now := n.Now()

	for _, r := range raw {
		if r.IsWeek || r.IsMonth {
			res.SkippedRollup++
			continue
		}

		t := types.Trade{
			ID:         r.ID,
			Symbol:     r.Symbol,
			Direction:  parseDirection(r.Direction),
			Pnl:        coercePnl(r.Pnl),
			RiskAmount: r.RiskAmount,
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if len(r.Attributes) > 0 {
			t.Attributes = make(map[string]string, len(r.Attributes))
			for k, v := range r.Attributes {
				k = strings.ToLower(strings.TrimSpace(k))
				v = strings.TrimSpace(v)
				if k == "" || v == "" {
					continue
				}
				t.Attributes[k] = v
			}
		}

		if ts, ok := resolveDate(r); ok {
			t.Timestamp = ts
		} else {
			t.Timestamp = now
			t.DateDefaulted = true
			res.DefaultedIDs = append(res.DefaultedIDs, t.ID)
		}
		t.EntryDate = dateOnly(t.Timestamp)

		res.Trades = append(res.Trades, t)
	}
	return res
}

// resolveDate picks the first parseable field in priority order:
// date, entry_date, timestamp, created_at.
func resolveDate(r types.RawTrade) (time.Time, bool) {
	for _, field := range []string{r.Date, r.EntryDate, r.Timestamp, r.CreatedAt} {
		if field == "" {
			continue
		}
		if ts, ok := parseDate(field); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// coercePnl accepts the numeric and string shapes seen in trade feeds;
// anything unparsable becomes 0 rather than dropping the trade.
func coercePnl(v any) float64 {
	switch p := v.(type) {
	case float64:
		return p
	case float32:
		return float64(p)
	case int:
		return float64(p)
	case int64:
		return float64(p)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func parseDirection(s string) types.Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "sell":
		return types.Short
	case "long", "buy":
		return types.Long
	default:
		return types.Long
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey formats a day the way buckets and journal files are keyed.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
