package units

import (
	"os"
	"sort"
	"strings"
)

// FallbackCurrency is used when no default currency is configured and the
// locale doesn't name one.
const FallbackCurrency = "eur"

// CurrencyRate is one row of a currency table.
type CurrencyRate struct {
	Code string  // lowercase ISO code
	Name string  // full name, may be empty
	Rate float64 // units of this currency per unit of the reference currency
}

// Currencies is an immutable table of exchange rates relative to a
// reference currency.
type Currencies struct {
	reference string
	rates     map[string]CurrencyRate
	names     map[string]string // name or lowercase name -> code
}

// NewCurrencies builds a table. Rows with a non-positive rate are dropped.
func NewCurrencies(reference string, rows []CurrencyRate) *Currencies {
	c := &Currencies{
		reference: strings.ToLower(reference),
		rates:     make(map[string]CurrencyRate, len(rows)),
		names:     make(map[string]string, 2*len(rows)),
	}
	for _, r := range rows {
		if r.Rate <= 0 || r.Code == "" {
			continue
		}
		r.Code = strings.ToLower(r.Code)
		c.rates[r.Code] = r
		if r.Name != "" {
			c.names[r.Name] = r.Code
			c.names[strings.ToLower(r.Name)] = r.Code
		}
	}
	return c
}

// Reference returns the lowercase code the rates are relative to.
func (c *Currencies) Reference() string {
	return c.reference
}

// Len returns the number of known currencies.
func (c *Currencies) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rates)
}

// Get returns the row for a code.
func (c *Currencies) Get(code string) (CurrencyRate, bool) {
	if c == nil {
		return CurrencyRate{}, false
	}
	r, ok := c.rates[strings.ToLower(code)]
	return r, ok
}

// Codes returns all known codes, sorted.
func (c *Currencies) Codes() []string {
	if c == nil {
		return nil
	}
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup resolves a currency by full name or code, in either case.
func (c *Currencies) Lookup(s string) (Unit, bool) {
	if c == nil || s == "" {
		return Unit{}, false
	}
	if code, ok := c.names[s]; ok {
		return Currency(code), true
	}
	if code, ok := c.names[strings.ToLower(s)]; ok {
		return Currency(code), true
	}
	if _, ok := c.rates[strings.ToLower(s)]; ok {
		return Currency(s), true
	}
	return Unit{}, false
}

// Display returns the text shown for u: the full name for a known
// currency, the symbol otherwise.
func (c *Currencies) Display(u Unit) string {
	if u.kind == KindCurrency {
		if r, ok := c.Get(u.currency); ok && r.Name != "" {
			return r.Name
		}
	}
	return u.String()
}

var countryCurrency = map[string]string{
	"US": "usd", "GB": "gbp", "JP": "jpy", "CN": "cny", "CH": "chf",
	"SE": "sek", "NO": "nok", "DK": "dkk", "PL": "pln", "CZ": "czk",
	"HU": "huf", "CA": "cad", "AU": "aud", "NZ": "nzd", "IN": "inr",
	"BR": "brl", "MX": "mxn", "KR": "krw", "RU": "rub", "TR": "try",
	"ZA": "zar", "IL": "ils", "SG": "sgd", "HK": "hkd", "UA": "uah",
	"DE": "eur", "FR": "eur", "ES": "eur", "IT": "eur", "NL": "eur",
	"AT": "eur", "BE": "eur", "FI": "eur", "IE": "eur", "PT": "eur",
	"GR": "eur", "LU": "eur", "SK": "eur", "SI": "eur", "EE": "eur",
	"LV": "eur", "LT": "eur", "HR": "eur", "MT": "eur", "CY": "eur",
}

// LocaleCurrency derives the user's currency from LC_ALL, LC_MONETARY or
// LANG, e.g. "en_GB.UTF-8" gives "gbp". Unknown territories give
// FallbackCurrency.
func LocaleCurrency() string {
	for _, name := range []string{"LC_ALL", "LC_MONETARY", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return currencyForLocale(v)
		}
	}
	return FallbackCurrency
}

func currencyForLocale(locale string) string {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	_, territory, ok := strings.Cut(locale, "_")
	if !ok {
		return FallbackCurrency
	}
	if code, ok := countryCurrency[strings.ToUpper(territory)]; ok {
		return code
	}
	return FallbackCurrency
}
