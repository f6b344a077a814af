package analyzer

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

func TestCacheKey(t *testing.T) {
	got := CacheKey("aapl", "spy", Tf3y, Daily)
	want := "AAPL__SPY__3y__D"
	if got != want {
		t.Errorf("CacheKey() = %q, want %q", got, want)
	}
}

func TestCacheGet(t *testing.T) {
	ctx := context.Background()
	start := date.New(2024, time.March, 1)
	s := syntheticSeries(start, 100, 90, []float64{0.01, -0.002})
	p := &stubProvider{series: map[string]*date.Series{"VTI": s}}
	c := &Cache{Dir: t.TempDir(), TTLDays: 3}

	t.Run("miss fetches and writes", func(t *testing.T) {
		item, err := c.Get(ctx, p, "VTI", "SPY", Tf1y, Daily, false)
		if err != nil {
			t.Fatalf("Get() unexpected error = %v", err)
		}
		if item.Key != "VTI__SPY__1y__D" {
			t.Errorf("item key = %q", item.Key)
		}
		if item.Currency != "USD" || item.Source != "stub" {
			t.Errorf("item = %+v, want USD/stub", item)
		}
		if p.calls["VTI"] != 1 {
			t.Fatalf("provider called %d times, want 1", p.calls["VTI"])
		}

		loaded, err := c.LoadSeries(item)
		if err != nil {
			t.Fatalf("LoadSeries() unexpected error = %v", err)
		}
		if loaded.Len() != s.Len() {
			t.Errorf("loaded %d rows, want %d", loaded.Len(), s.Len())
		}
		first, v := loaded.First()
		if first != start {
			t.Errorf("first day = %s, want %s", first, start)
		}
		if math.Abs(v-100) > 1e-9 {
			t.Errorf("first value = %v, want 100", v)
		}

		meta, err := c.LoadMeta(item)
		if err != nil {
			t.Fatalf("LoadMeta() unexpected error = %v", err)
		}
		if meta.Symbol != "VTI" || meta.Benchmark != "SPY" || meta.Rows != s.Len() {
			t.Errorf("meta = %+v", meta)
		}
	})

	t.Run("fresh hit does not refetch", func(t *testing.T) {
		if _, err := c.Get(ctx, p, "VTI", "SPY", Tf1y, Daily, false); err != nil {
			t.Fatalf("Get() unexpected error = %v", err)
		}
		if p.calls["VTI"] != 1 {
			t.Errorf("provider called %d times after a fresh hit, want 1", p.calls["VTI"])
		}
	})

	t.Run("force refetches", func(t *testing.T) {
		if _, err := c.Get(ctx, p, "VTI", "SPY", Tf1y, Daily, true); err != nil {
			t.Fatalf("Get() unexpected error = %v", err)
		}
		if p.calls["VTI"] != 2 {
			t.Errorf("provider called %d times after force, want 2", p.calls["VTI"])
		}
	})
}

func TestCacheGetStaleEntryRefetches(t *testing.T) {
	ctx := context.Background()
	start := date.New(2024, time.March, 1)
	s := syntheticSeries(start, 100, 90, []float64{0.01, -0.002})
	p := &stubProvider{series: map[string]*date.Series{"VTI": s}}
	// TTL 0 expires immediately.
	c := &Cache{Dir: t.TempDir(), TTLDays: 0}

	if _, err := c.Get(ctx, p, "VTI", "SPY", Tf1y, Daily, false); err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	if _, err := c.Get(ctx, p, "VTI", "SPY", Tf1y, Daily, false); err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	if p.calls["VTI"] != 2 {
		t.Errorf("provider called %d times with an expired TTL, want 2", p.calls["VTI"])
	}
}

func TestCacheGetConcurrent(t *testing.T) {
	ctx := context.Background()
	start := date.New(2024, time.March, 1)
	c := &Cache{Dir: t.TempDir(), TTLDays: 3}

	const n = 16
	symbols := make([]string, n)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("T%02d", i)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := syntheticSeries(start, 100, 90, []float64{0.01, -0.002})
			p := &stubProvider{series: map[string]*date.Series{symbol: s}}
			_, errs[i] = c.Get(ctx, p, symbol, "SPY", Tf1y, Daily, false)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Get(%s) unexpected error = %v", symbols[i], err)
		}
	}

	// Every entry must survive the concurrent writes.
	m := c.loadManifest()
	if len(m.Items) != n {
		t.Fatalf("manifest holds %d items after %d concurrent Gets, want %d", len(m.Items), n, n)
	}
	for _, symbol := range symbols {
		item, ok := m.get(CacheKey(symbol, "SPY", Tf1y, Daily))
		if !ok {
			t.Errorf("manifest missing entry for %s", symbol)
			continue
		}
		if _, err := c.LoadSeries(item); err != nil {
			t.Errorf("LoadSeries(%s) unexpected error = %v", symbol, err)
		}
	}
}

func TestCacheGetEmptySeries(t *testing.T) {
	p := &stubProvider{series: map[string]*date.Series{"EMPTY": new(date.Series)}}
	c := &Cache{Dir: t.TempDir(), TTLDays: 3}
	if _, err := c.Get(context.Background(), p, "EMPTY", "SPY", Tf1y, Daily, false); err == nil {
		t.Fatal("Get() with an empty provider series: want error")
	}
}

func TestReadPricesCSVErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"bad date", "date,adj_close\nnot-a-date,10\n"},
		{"bad price", "date,adj_close\n2024-01-02,ten\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o640); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadPricesCSV(path); err == nil {
				t.Error("ReadPricesCSV() want error")
			}
		})
	}
}
