package journal

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trading-journal-analytics/internal/types"
)

func raw(id string, pnl float64) types.RawTrade {
	return types.RawTrade{ID: id, Symbol: "NIFTY", Pnl: pnl}
}

func TestAppendAndReadDay(t *testing.T) {
	s := NewStore(t.TempDir())
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	if err := s.Append(day, raw("a", 100)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(day, raw("b", -40)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ReadDay(day)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("read back %+v", got)
	}
}

func TestReadMissingDay(t *testing.T) {
	s := NewStore(t.TempDir())
	got, err := s.ReadDay(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	if err != nil || got != nil {
		t.Errorf("missing day = %v, %v", got, err)
	}
}

func TestReadRange(t *testing.T) {
	s := NewStore(t.TempDir())
	base := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if err := s.Append(base.AddDate(0, 0, i), raw(fmt.Sprintf("t%d", i), 10)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.ReadRange(base.AddDate(0, 0, 1), base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("read range: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("range = %+v", got)
	}
}

func TestReadAllOrdersByDate(t *testing.T) {
	s := NewStore(t.TempDir())
	d1 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	// Write later day first.
	if err := s.Append(d2, raw("later", 5)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(d1, raw("earlier", 5)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 2 || got[0].ID != "earlier" {
		t.Errorf("read all = %+v", got)
	}
}

func TestFetchHonorsContext(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Fetch(ctx); err == nil {
		t.Errorf("expected context error")
	}
}

func TestReadAllIncludesGzipped(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	// Simulate a compressed day from a past retention sweep.
	b, _ := json.Marshal(raw("old", 42))
	gz := filepath.Join(dir, "2024-01-02.jsonl.gz")
	f, err := os.Create(gz)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(f)
	fmt.Fprintln(gw, string(b))
	gw.Close()
	f.Close()

	if err := s.Append(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), raw("new", 7)); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 2 || got[0].ID != "old" || got[1].ID != "new" {
		t.Errorf("read all = %+v", got)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if err := s.Append(day, raw("a", 100)); err != nil {
		t.Fatalf("append: %v", err)
	}
	p := filepath.Join(dir, "2024-03-05.jsonl")
	old := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := s.CompressOlder(7); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("original file still present")
	}
	got, err := s.ReadDay(day)
	if err != nil {
		t.Fatalf("read day after compress: %v", err)
	}
	if got != nil {
		// ReadDay only looks at .jsonl; the data moved to the gz archive.
		t.Errorf("read day returned %+v", got)
	}
	all, err := s.ReadAll()
	if err != nil || len(all) != 1 || all[0].ID != "a" {
		t.Errorf("read all after compress = %+v, %v", all, err)
	}
}
