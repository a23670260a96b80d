package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"trading-journal-analytics/internal/types"
)

// Load reads raw trades from a JSON or CSV file, picking the format from
// the file extension.
func Load(path string) ([]types.RawTrade, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported trade file %q: want .json or .csv", path)
	}
}

// LoadJSON reads a JSON array of raw trades. Unknown fields that look like
// journal variables land in Attributes via the "attributes" object.
func LoadJSON(path string) ([]types.RawTrade, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []types.RawTrade
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// csvTrade is the flat row shape exported by journal spreadsheets. The
// well-known variable columns fold into Attributes.
type csvTrade struct {
	ID         string  `csv:"id"`
	Symbol     string  `csv:"symbol"`
	Direction  string  `csv:"direction"`
	Date       string  `csv:"date"`
	EntryDate  string  `csv:"entry_date"`
	Timestamp  string  `csv:"timestamp"`
	Pnl        string  `csv:"pnl"`
	RiskAmount float64 `csv:"risk_amount"`
	Strategy   string  `csv:"strategy"`
	Setup      string  `csv:"setup"`
	Timeframe  string  `csv:"timeframe"`
	Session    string  `csv:"session"`
}

// LoadCSV reads a CSV export, one trade per row.
func LoadCSV(path string) ([]types.RawTrade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []*csvTrade
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]types.RawTrade, 0, len(rows))
	for _, r := range rows {
		raw := types.RawTrade{
			ID:        r.ID,
			Symbol:    r.Symbol,
			Direction: r.Direction,
			Date:      r.Date,
			EntryDate: r.EntryDate,
			Timestamp: r.Timestamp,
		}
		if r.Pnl != "" {
			raw.Pnl = r.Pnl
		}
		if r.RiskAmount > 0 {
			risk := r.RiskAmount
			raw.RiskAmount = &risk
		}
		attrs := map[string]string{}
		for name, value := range map[string]string{
			"strategy":  r.Strategy,
			"setup":     r.Setup,
			"timeframe": r.Timeframe,
			"session":   r.Session,
		} {
			if value != "" {
				attrs[name] = value
			}
		}
		if len(attrs) > 0 {
			raw.Attributes = attrs
		}
		out = append(out, raw)
	}
	return out, nil
}
