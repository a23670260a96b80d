package benchmark

import (
	"math"
	"strings"
	"testing"
	"time"

	"trading-journal-analytics/internal/types"
)

var testSelectors = QuoteSelectors{
	Row:        "table.history tr",
	Date:       "td:nth-child(1)",
	Close:      "td:nth-child(2)",
	DateLayout: "2006-01-02",
}

const historyHTML = `<html><body>
<table class="history">
<tr><td>2024-03-07</td><td>22,493.55</td></tr>
<tr><td>2024-03-05</td><td>22,356.30</td></tr>
<tr><td>2024-03-06</td><td>22,474.05</td></tr>
<tr><td>bad-date</td><td>1</td></tr>
<tr><td>2024-03-08</td><td>n/a</td></tr>
</table>
</body></html>`

func TestParseQuoteTable(t *testing.T) {
	quotes, err := ParseQuoteTable(strings.NewReader(historyHTML), testSelectors)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("quotes = %d, want 3", len(quotes))
	}
	// Sorted by date ascending regardless of page order.
	if quotes[0].Date.Day() != 5 || quotes[2].Date.Day() != 7 {
		t.Errorf("quotes not date-ordered: %+v", quotes)
	}
	if math.Abs(quotes[0].Close-22356.30) > 1e-9 {
		t.Errorf("close = %v, want 22356.30", quotes[0].Close)
	}
}

func TestParseQuoteTableEmptyPage(t *testing.T) {
	quotes, err := ParseQuoteTable(strings.NewReader("<html></html>"), testSelectors)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("quotes = %d, want 0", len(quotes))
	}
}

func curvePoint(day int, cumulative float64) types.EquityPoint {
	return types.EquityPoint{
		Date:          time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		CumulativePnl: cumulative,
	}
}

func quote(day int, close float64) Quote {
	return Quote{Date: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC), Close: close}
}

func TestCompare(t *testing.T) {
	curve := []types.EquityPoint{curvePoint(5, 100), curvePoint(7, 300)}
	quotes := []Quote{quote(4, 22000), quote(5, 22100), quote(7, 22321)}

	cmp, err := Compare(curve, quotes, "NIFTY", 10000)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if math.Abs(cmp.TraderReturnPct-3.0) > 1e-9 {
		t.Errorf("trader return = %v, want 3.0", cmp.TraderReturnPct)
	}
	// Index: 22100 -> 22321 inside the curve window = 1%.
	if math.Abs(cmp.IndexReturnPct-1.0) > 1e-9 {
		t.Errorf("index return = %v, want 1.0", cmp.IndexReturnPct)
	}
	if math.Abs(cmp.ExcessReturnPct-2.0) > 1e-9 {
		t.Errorf("excess return = %v, want 2.0", cmp.ExcessReturnPct)
	}
}

func TestCompareNoOverlap(t *testing.T) {
	curve := []types.EquityPoint{curvePoint(5, 100), curvePoint(7, 300)}
	quotes := []Quote{quote(20, 22000), quote(21, 22100)}

	if _, err := Compare(curve, quotes, "NIFTY", 10000); err == nil {
		t.Errorf("expected error for non-overlapping quotes")
	}
}

func TestCompareRejectsEmptyInputs(t *testing.T) {
	if _, err := Compare(nil, nil, "NIFTY", 10000); err == nil {
		t.Errorf("expected error for empty inputs")
	}
	curve := []types.EquityPoint{curvePoint(5, 100), curvePoint(7, 300)}
	quotes := []Quote{quote(5, 22000), quote(7, 22100)}
	if _, err := Compare(curve, quotes, "NIFTY", 0); err == nil {
		t.Errorf("expected error for zero balance")
	}
}
