package journal

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"trading-journal-analytics/internal/interfaces"
	"trading-journal-analytics/internal/types"
)

// Store persists raw journal entries as JSONL, one file per entry date.
// File names are <dir>/2006-01-02.jsonl; CompressOlder gzips files past
// the retention window.
type Store struct {
	dir string
	mu  sync.Mutex
}

var _ interfaces.TradeSource = (*Store)(nil)

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "journal"
	}
	return &Store{dir: dir}
}

func (s *Store) dayPath(day time.Time) string {
	return filepath.Join(s.dir, day.Format("2006-01-02")+".jsonl")
}

// Append writes one entry to the file for day. Same-day entries land in
// the same file in arrival order.
func (s *Store) Append(day time.Time, raw types.RawTrade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.dayPath(day)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// ReadDay returns the entries recorded for one date. A missing file means
// no trades that day, not an error.
func (s *Store) ReadDay(day time.Time) ([]types.RawTrade, error) {
	return s.readFile(s.dayPath(day))
}

// ReadRange returns entries for every date in [from, to], inclusive.
func (s *Store) ReadRange(from, to time.Time) ([]types.RawTrade, error) {
	var out []types.RawTrade
	for day := dateOnly(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		entries, err := s.readFile(s.dayPath(day))
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// ReadAll returns every entry in the store, walking day files in date
// order. Gzipped files from past retention sweeps are read transparently.
func (s *Store) ReadAll() ([]types.RawTrade, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".jsonl" || ext == ".gz" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []types.RawTrade
	for _, name := range names {
		trades, err := s.readFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, trades...)
	}
	return out, nil
}

// Fetch satisfies the TradeSource interface over the whole store.
func (s *Store) Fetch(ctx context.Context) ([]types.RawTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ReadAll()
}

func (s *Store) readFile(path string) ([]types.RawTrade, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer gr.Close()
		r = gr
	}

	var out []types.RawTrade
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw types.RawTrade
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		out = append(out, raw)
	}
	return out, sc.Err()
}

// CompressOlder gzips day files older than retentionDays and removes the
// originals. Zero or negative retention disables the sweep.
func (s *Store) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(s.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			return os.Remove(p)
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			return os.Remove(p)
		}
		_ = gw.Close()
		_ = out.Close()
		return nil
	})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
