package analyzer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// Cache is the on-disk price cache.
//
// Layout under Dir:
//
//	prices/{KEY}.csv        adjusted closes, header "date,adj_close"
//	prices/{KEY}__meta.json series metadata
//	manifest/index.json     freshness index of all cached series
type Cache struct {
	Dir     string
	TTLDays int

	// mu serializes manifest read-modify-write cycles; concurrent Gets
	// would otherwise lose each other's entries.
	mu sync.Mutex
}

// CacheKey builds the cache key for a series: {TICKER}__{BENCH}__{tf}__{FREQ}.
// The benchmark is part of the key so a comparison set ages out together.
func CacheKey(ticker, bench string, tf Timeframe, freq Frequency) string {
	return fmt.Sprintf("%s__%s__%s__%s",
		strings.ToUpper(ticker), strings.ToUpper(bench), strings.ToLower(string(tf)), freq)
}

// CacheItem describes one cached price series.
type CacheItem struct {
	Key            string `json:"key"`
	PricesPath     string `json:"path_prices"`
	MetaPath       string `json:"path_meta"`
	LastUpdatedUTC string `json:"last_updated_utc"`
	TTLDays        int    `json:"ttl_days"`
	ExpiresUTC     string `json:"expires_utc"`
	Source         string `json:"source"`
	Currency       string `json:"currency"`
}

// Meta is the sidecar metadata written next to each cached series.
type Meta struct {
	Symbol         string    `json:"symbol"`
	Benchmark      string    `json:"benchmark"`
	Timeframe      Timeframe `json:"timeframe"`
	Frequency      Frequency `json:"frequency"`
	Source         string    `json:"source"`
	Currency       string    `json:"currency"`
	AsOf           date.Date `json:"as_of"`
	Rows           int       `json:"rows"`
	LastUpdatedUTC string    `json:"last_updated_utc"`
}

type manifest struct {
	Version int         `json:"version"`
	Items   []CacheItem `json:"items"`
}

func (c *Cache) pricesDir() string   { return filepath.Join(c.Dir, "prices") }
func (c *Cache) manifestDir() string { return filepath.Join(c.Dir, "manifest") }
func (c *Cache) manifestPath() string {
	return filepath.Join(c.manifestDir(), "index.json")
}

func (c *Cache) paths(key string) (prices, meta string) {
	return filepath.Join(c.pricesDir(), key+".csv"),
		filepath.Join(c.pricesDir(), key+"__meta.json")
}

func (c *Cache) ensureDirs() error {
	if err := os.MkdirAll(c.pricesDir(), 0o750); err != nil {
		return err
	}
	return os.MkdirAll(c.manifestDir(), 0o750)
}

// loadManifest reads the manifest, returning an empty one when the file is
// missing or corrupt. A bad manifest only costs a refetch.
func (c *Cache) loadManifest() manifest {
	m := manifest{Version: 1}
	b, err := os.ReadFile(c.manifestPath())
	if err != nil {
		return m
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return manifest{Version: 1}
	}
	return m
}

func (c *Cache) saveManifest(m manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.manifestPath(), b, 0o640)
}

func (m *manifest) get(key string) (CacheItem, bool) {
	for _, it := range m.Items {
		if it.Key == key {
			return it, true
		}
	}
	return CacheItem{}, false
}

func (m *manifest) upsert(entry CacheItem) {
	for i, it := range m.Items {
		if it.Key == entry.Key {
			m.Items[i] = entry
			return
		}
	}
	m.Items = append(m.Items, entry)
}

// fresh reports whether the entry is still within its TTL and both files
// still exist on disk.
func (c *Cache) fresh(entry CacheItem, now time.Time) bool {
	expires, err := time.Parse(time.RFC3339, entry.ExpiresUTC)
	if err != nil || now.After(expires) {
		return false
	}
	if _, err := os.Stat(entry.PricesPath); err != nil {
		return false
	}
	if _, err := os.Stat(entry.MetaPath); err != nil {
		return false
	}
	return true
}

// Get returns the cached series for the given ticker, fetching from the
// provider when the cache is missing or stale. force bypasses freshness.
func (c *Cache) Get(ctx context.Context, p Provider, ticker, bench string, tf Timeframe, freq Frequency, force bool) (CacheItem, error) {
	if err := c.ensureDirs(); err != nil {
		return CacheItem{}, fmt.Errorf("preparing cache dir %q: %w", c.Dir, err)
	}
	key := CacheKey(ticker, bench, tf, freq)
	pricesPath, metaPath := c.paths(key)

	now := time.Now().UTC()
	c.mu.Lock()
	m := c.loadManifest()
	cached, ok := m.get(key)
	c.mu.Unlock()
	if ok && !force && c.fresh(cached, now) {
		return cached, nil
	}

	quotes, err := p.Daily(ctx, ticker, tf, freq)
	if err != nil {
		return CacheItem{}, fmt.Errorf("fetching %s %s %s: %w", ticker, tf, freq, err)
	}
	if quotes.Closes.Len() == 0 {
		return CacheItem{}, fmt.Errorf("no price data for %s %s %s from %s", ticker, tf, freq, p.Name())
	}

	if err := writePricesCSV(pricesPath, quotes.Closes); err != nil {
		return CacheItem{}, fmt.Errorf("writing prices for %s: %w", ticker, err)
	}

	asOf, _ := quotes.Closes.Latest()
	lastUpdated := now.Format(time.RFC3339)
	meta := Meta{
		Symbol:         strings.ToUpper(ticker),
		Benchmark:      strings.ToUpper(bench),
		Timeframe:      tf,
		Frequency:      freq,
		Source:         quotes.Source,
		Currency:       quotes.Currency,
		AsOf:           asOf,
		Rows:           quotes.Closes.Len(),
		LastUpdatedUTC: lastUpdated,
	}
	mb, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return CacheItem{}, err
	}
	if err := os.WriteFile(metaPath, mb, 0o640); err != nil {
		return CacheItem{}, fmt.Errorf("writing meta for %s: %w", ticker, err)
	}

	entry := CacheItem{
		Key:            key,
		PricesPath:     pricesPath,
		MetaPath:       metaPath,
		LastUpdatedUTC: lastUpdated,
		TTLDays:        c.TTLDays,
		ExpiresUTC:     now.Add(time.Duration(c.TTLDays) * 24 * time.Hour).Format(time.RFC3339),
		Source:         quotes.Source,
		Currency:       quotes.Currency,
	}
	// Reload under the lock: other Gets may have written entries since
	// the freshness check.
	c.mu.Lock()
	defer c.mu.Unlock()
	m = c.loadManifest()
	m.upsert(entry)
	if err := c.saveManifest(m); err != nil {
		return CacheItem{}, fmt.Errorf("saving cache manifest: %w", err)
	}
	return entry, nil
}

// LoadSeries reads a cached prices CSV back into a series.
func (c *Cache) LoadSeries(item CacheItem) (*date.Series, error) {
	return ReadPricesCSV(item.PricesPath)
}

// LoadMeta reads the sidecar metadata of a cached series.
func (c *Cache) LoadMeta(item CacheItem) (Meta, error) {
	var meta Meta
	b, err := os.ReadFile(item.MetaPath)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("corrupt meta file %q: %w", item.MetaPath, err)
	}
	return meta, nil
}

func writePricesCSV(path string, s *date.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "adj_close"}); err != nil {
		return err
	}
	for on, v := range s.Values() {
		if err := w.Write([]string{on.String(), strconv.FormatFloat(v, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadPricesCSV parses a "date,adj_close" CSV file into a series.
func ReadPricesCSV(path string) (*date.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading prices csv %q: %w", path, err)
	}
	s := new(date.Series)
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "date" {
			continue // header
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("prices csv %q: row %d has %d columns, want 2", path, i+1, len(rec))
		}
		on, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("prices csv %q row %d: %w", path, i+1, err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("prices csv %q row %d: bad price %q: %w", path, i+1, rec[1], err)
		}
		s.Append(on, v)
	}
	return s, nil
}
