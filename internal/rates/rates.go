// Package rates downloads currency names and exchange rates and caches the
// responses for the rest of the UTC day.
package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/runger/launcher/internal/logging"
	"github.com/runger/launcher/internal/storage"
	"github.com/runger/launcher/internal/units"
)

// DefaultBaseURL serves currencies.min.json and currencies/<code>.min.json.
const DefaultBaseURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1"

const (
	namesKey    = "currencies"
	ratesPrefix = "rates:"
	dayLayout   = "2006-01-02"
)

var (
	ErrBadReference = errors.New("invalid reference currency")
	ErrBadResponse  = errors.New("malformed currency response")
)

var codePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Cache stores raw responses. *storage.SQLiteStore implements it.
type Cache interface {
	GetCached(ctx context.Context, key string) (*storage.CacheEntry, error)
	SetCached(ctx context.Context, entry *storage.CacheEntry) error
}

// Config configures a Source.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Cache   Cache // may be nil
	Logger  *slog.Logger
	Client  *retryablehttp.Client // nil builds a default client
}

// Source loads currency tables.
type Source struct {
	baseURL string
	cache   Cache
	logger  *slog.Logger
	client  *retryablehttp.Client
	now     func() time.Time
}

// NewSource creates a Source.
func NewSource(cfg Config) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = retryablehttp.NewClient()
		client.RetryMax = 2
		client.RetryWaitMin = 200 * time.Millisecond
		client.RetryWaitMax = 2 * time.Second
		client.Logger = logger
		if cfg.Timeout > 0 {
			client.HTTPClient.Timeout = cfg.Timeout
		}
	}
	return &Source{
		baseURL: base,
		cache:   cfg.Cache,
		logger:  logger,
		client:  client,
		now:     time.Now,
	}
}

// Load returns the currency table relative to reference, e.g. "eur".
// Cached responses fetched today are used as is; a cache entry that
// doesn't parse is discarded and fetched again.
func (s *Source) Load(ctx context.Context, reference string) (*units.Currencies, error) {
	reference = strings.ToLower(strings.TrimSpace(reference))
	if !codePattern.MatchString(reference) {
		return nil, fmt.Errorf("%w: %q", ErrBadReference, reference)
	}

	names, cached, err := s.get(ctx, namesKey, s.baseURL+"/currencies.min.json", validNames)
	if err != nil {
		return nil, fmt.Errorf("currency names: %w", err)
	}
	ratesBody, ratesCached, err := s.get(ctx, ratesPrefix+reference,
		s.baseURL+"/currencies/"+reference+".min.json", validRates(reference))
	if err != nil {
		return nil, fmt.Errorf("currency rates: %w", err)
	}

	c := build(reference, names, ratesBody)
	logging.LogRatesRefreshed(s.logger, reference, c.Len(), cached && ratesCached)
	return c, nil
}

// get returns the body for key, from the cache when fresh.
func (s *Source) get(ctx context.Context, key, url string, valid func(string) bool) (string, bool, error) {
	today := s.now().UTC().Format(dayLayout)

	if s.cache != nil {
		entry, err := s.cache.GetCached(ctx, key)
		switch {
		case err == nil && entry.FetchedDay == today && valid(entry.Body):
			s.logger.Debug("using cached currency data", "key", key)
			return entry.Body, true, nil
		case err == nil && entry.FetchedDay == today:
			s.logger.Warn("corrupt currency cache, refetching", "key", key)
		case err != nil && !errors.Is(err, storage.ErrCacheNotFound):
			s.logger.Warn("currency cache read failed", "key", key, "error", err)
		}
	}

	body, err := s.fetch(ctx, url)
	if err != nil {
		return "", false, err
	}
	if !valid(body) {
		return "", false, fmt.Errorf("%w: %s", ErrBadResponse, url)
	}

	if s.cache != nil {
		err := s.cache.SetCached(ctx, &storage.CacheEntry{
			CacheKey:   key,
			Body:       body,
			FetchedDay: today,
		})
		if err != nil {
			s.logger.Warn("currency cache write failed", "key", key, "error", err)
		}
	}
	return body, false, nil
}

func (s *Source) fetch(ctx context.Context, url string) (string, error) {
	s.logger.Info("fetching currency data", "url", url)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(b), nil
}

func validNames(body string) bool {
	return gjson.Valid(body) && gjson.Parse(body).IsObject()
}

func validRates(reference string) func(string) bool {
	return func(body string) bool {
		return gjson.Valid(body) && gjson.Get(body, reference).IsObject()
	}
}

// build joins the code->name and code->rate objects. Codes without a
// numeric rate are skipped.
func build(reference, names, ratesBody string) *units.Currencies {
	byCode := make(map[string]float64)
	gjson.Get(ratesBody, reference).ForEach(func(code, rate gjson.Result) bool {
		if rate.Type == gjson.Number {
			byCode[code.String()] = rate.Float()
		}
		return true
	})

	var rows []units.CurrencyRate
	gjson.Parse(names).ForEach(func(code, name gjson.Result) bool {
		rate, ok := byCode[code.String()]
		if !ok {
			return true
		}
		rows = append(rows, units.CurrencyRate{
			Code: code.String(),
			Name: name.String(),
			Rate: rate,
		})
		return true
	})
	return units.NewCurrencies(reference, rows)
}
