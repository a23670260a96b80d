package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "trades.json", `[
		{"id":"a","symbol":"NIFTY","pnl":150.5,"date":"2024-03-05","attributes":{"setup":"breakout"}},
		{"id":"b","symbol":"NIFTY","pnl":"-40","direction":"short"}
	]`)

	raw, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("trades = %d, want 2", len(raw))
	}
	if raw[0].Attributes["setup"] != "breakout" {
		t.Errorf("attributes = %v", raw[0].Attributes)
	}
	if _, ok := raw[0].Pnl.(float64); !ok {
		t.Errorf("numeric pnl decoded as %T", raw[0].Pnl)
	}
	if _, ok := raw[1].Pnl.(string); !ok {
		t.Errorf("string pnl decoded as %T", raw[1].Pnl)
	}
}

func TestLoadJSONBadFile(t *testing.T) {
	path := writeFile(t, "trades.json", `{not json`)
	if _, err := LoadJSON(path); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "trades.csv",
		"id,symbol,direction,date,pnl,risk_amount,setup,timeframe\n"+
			"a,NIFTY,long,2024-03-05,150.5,50,breakout,5m\n"+
			"b,BANKNIFTY,short,2024-03-06,-40,,reversal,\n")

	raw, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("trades = %d, want 2", len(raw))
	}
	a := raw[0]
	if a.Symbol != "NIFTY" || a.Date != "2024-03-05" {
		t.Errorf("row a = %+v", a)
	}
	if a.Pnl != "150.5" {
		t.Errorf("pnl = %v", a.Pnl)
	}
	if a.RiskAmount == nil || *a.RiskAmount != 50 {
		t.Errorf("risk amount = %v", a.RiskAmount)
	}
	if a.Attributes["setup"] != "breakout" || a.Attributes["timeframe"] != "5m" {
		t.Errorf("attributes = %v", a.Attributes)
	}
	b := raw[1]
	if b.RiskAmount != nil {
		t.Errorf("empty risk amount = %v", b.RiskAmount)
	}
	if _, ok := b.Attributes["timeframe"]; ok {
		t.Errorf("empty timeframe column kept: %v", b.Attributes)
	}
}

func TestLoadByExtension(t *testing.T) {
	jsonPath := writeFile(t, "trades.json", `[]`)
	if _, err := Load(jsonPath); err != nil {
		t.Errorf("json load: %v", err)
	}
	if _, err := Load("trades.xlsx"); err == nil {
		t.Errorf("expected error for unsupported extension")
	}
}
