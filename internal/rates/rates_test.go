package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/launcher/internal/storage"
	"github.com/runger/launcher/internal/units"
)

const (
	namesBody = `{"eur":"Euro","usd":"US Dollar","gbp":"British Pound","btc":"Bitcoin"}`
	ratesBody = `{"date":"2026-10-18","eur":{"eur":1,"usd":1.1,"gbp":0.85,"jpy":160}}`
)

type memCache struct {
	mu      sync.Mutex
	entries map[string]storage.CacheEntry
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]storage.CacheEntry)}
}

func (m *memCache) GetCached(_ context.Context, key string) (*storage.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, storage.ErrCacheNotFound
	}
	return &e, nil
}

func (m *memCache) SetCached(_ context.Context, e *storage.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.CacheKey] = *e
	return nil
}

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/currencies.min.json", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(namesBody))
	})
	mux.HandleFunc("/currencies/eur.min.json", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(ratesBody))
	})
	mux.HandleFunc("/currencies/bad.min.json", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func quietClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.Logger = nil
	return c
}

func newTestSource(url string, cache Cache, now time.Time) *Source {
	s := NewSource(Config{BaseURL: url, Cache: cache, Client: quietClient()})
	s.now = func() time.Time { return now }
	return s
}

func TestLoad_BuildsTable(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	s := newTestSource(srv.URL, nil, time.Now())

	c, err := s.Load(context.Background(), "EUR")
	require.NoError(t, err)

	assert.Equal(t, "eur", c.Reference())
	assert.Equal(t, 3, c.Len(), "btc has no rate, jpy has no name")

	u, ok := c.Lookup("US Dollar")
	require.True(t, ok)
	v, err := units.Convert(10, units.Currency("eur"), u, c)
	require.NoError(t, err)
	assert.InDelta(t, 11, v, 1e-9)
}

func TestLoad_UsesCacheSameDay(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	cache := newMemCache()
	day := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	_, err := newTestSource(srv.URL, cache, day).Load(context.Background(), "eur")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())

	_, err = newTestSource(srv.URL, cache, day.Add(10*time.Hour)).Load(context.Background(), "eur")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "same day should not fetch")

	_, err = newTestSource(srv.URL, cache, day.Add(24*time.Hour)).Load(context.Background(), "eur")
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load(), "next day should fetch again")
}

func TestLoad_CacheDayIsUTC(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	cache := newMemCache()

	// 23:30 on the 18th west of Greenwich is already the 19th in UTC.
	evening := time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	_, err := newTestSource(srv.URL, cache, evening).Load(context.Background(), "eur")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())

	entry, err := cache.GetCached(context.Background(), namesKey)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", entry.FetchedDay)

	nextMorning := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	_, err = newTestSource(srv.URL, cache, nextMorning).Load(context.Background(), "eur")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "same UTC day should not fetch")
}

func TestLoad_CorruptCacheRefetches(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	cache := newMemCache()
	now := time.Now()
	today := now.UTC().Format(dayLayout)

	require.NoError(t, cache.SetCached(context.Background(), &storage.CacheEntry{
		CacheKey: namesKey, Body: namesBody, FetchedDay: today,
	}))
	require.NoError(t, cache.SetCached(context.Background(), &storage.CacheEntry{
		CacheKey: ratesPrefix + "eur", Body: `{"eur":`, FetchedDay: today,
	}))

	c, err := newTestSource(srv.URL, cache, now).Load(context.Background(), "eur")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int32(1), hits.Load(), "only the corrupt rates entry is refetched")

	e, err := cache.GetCached(context.Background(), ratesPrefix+"eur")
	require.NoError(t, err)
	assert.Equal(t, ratesBody, e.Body)
}

func TestLoad_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	s := newTestSource(srv.URL, nil, time.Now())

	_, err := s.Load(context.Background(), "../x")
	assert.ErrorIs(t, err, ErrBadReference)

	_, err = s.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrBadResponse)

	_, err = s.Load(context.Background(), "nope")
	assert.Error(t, err, "404")
}

func TestLoad_WithSQLiteCache(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)

	store, err := storage.NewSQLiteStore(t.TempDir() + "/state.db")
	require.NoError(t, err)
	defer store.Close()

	now := time.Now()
	_, err = newTestSource(srv.URL, store, now).Load(context.Background(), "eur")
	require.NoError(t, err)
	c, err := newTestSource(srv.URL, store, now).Load(context.Background(), "eur")
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 3, c.Len())
}
