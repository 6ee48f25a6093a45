package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the launcher configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
	Content ContentConfig `yaml:"content"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // Log file path (empty = stderr)
}

// IndexConfig holds application index settings.
type IndexConfig struct {
	Dirs      []string `yaml:"dirs"`       // Descriptor directories (empty = XDG defaults)
	Locale    string   `yaml:"locale"`     // Locale override (empty = LC_MESSAGES / LANG)
	IconTheme string   `yaml:"icon_theme"` // Icon theme searched before hicolor
	Watch     bool     `yaml:"watch"`      // Rebuild when descriptor directories change
}

// SearchConfig holds search settings.
type SearchConfig struct {
	IncrementalMinPrefix int `yaml:"incremental_min_prefix"` // Min previous query length for incremental narrowing
	MaxResults           int `yaml:"max_results"`            // Max rows rendered
	PoolSize             int `yaml:"pool_size"`              // Matcher worker pool size
}

// HistoryConfig holds launch history settings.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries"` // History capacity
}

// ContentConfig holds smart content settings.
type ContentConfig struct {
	URLMode            string `yaml:"url_mode"`            // none, http, loose
	DynamicConversions bool   `yaml:"dynamic_conversions"` // Enable currency conversion
	DefaultCurrency    string `yaml:"default_currency"`    // ISO code; empty = locale currency, else eur
	RatesTimeoutMs     int    `yaml:"rates_timeout_ms"`    // Currency rate fetch timeout
	RatesURL           string `yaml:"rates_url"`           // Base URL of the currency API
}

// DefaultRatesURL is the currency API queried when content.rates_url is empty.
const DefaultRatesURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "", // Use stderr
		},
		Index: IndexConfig{
			Dirs:      nil, // Use XDG application dirs
			Locale:    "",
			IconTheme: "",
			Watch:     true,
		},
		Search: SearchConfig{
			IncrementalMinPrefix: 3,
			MaxResults:           50,
			PoolSize:             4,
		},
		History: HistoryConfig{
			MaxEntries: 100,
		},
		Content: ContentConfig{
			URLMode:            "loose",
			DynamicConversions: true,
			DefaultCurrency:    "",
			RatesTimeoutMs:     5000,
			RatesURL:           DefaultRatesURL,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns a configuration value by its dotted key (section.key).
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "log":
		return c.getLogField(field)
	case "index":
		return c.getIndexField(field)
	case "search":
		return c.getSearchField(field)
	case "history":
		return c.getHistoryField(field)
	case "content":
		return c.getContentField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set updates a configuration value by its dotted key (section.key).
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "log":
		return c.setLogField(field, value)
	case "index":
		return c.setIndexField(field, value)
	case "search":
		return c.setSearchField(field, value)
	case "history":
		return c.setHistoryField(field, value)
	case "content":
		return c.setContentField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "format":
		return c.Log.Format, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "format":
		if !isValidLogFormat(value) {
			return fmt.Errorf("invalid format: %s (must be text or json)", value)
		}
		c.Log.Format = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func (c *Config) getIndexField(field string) (string, error) {
	switch field {
	case "dirs":
		return strings.Join(c.Index.Dirs, ":"), nil
	case "locale":
		return c.Index.Locale, nil
	case "icon_theme":
		return c.Index.IconTheme, nil
	case "watch":
		return strconv.FormatBool(c.Index.Watch), nil
	default:
		return "", fmt.Errorf("unknown field: index.%s", field)
	}
}

func (c *Config) setIndexField(field, value string) error {
	switch field {
	case "dirs":
		c.Index.Dirs = splitList(value)
	case "locale":
		c.Index.Locale = value
	case "icon_theme":
		c.Index.IconTheme = value
	case "watch":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for watch: %w", err)
		}
		c.Index.Watch = v
	default:
		return fmt.Errorf("unknown field: index.%s", field)
	}
	return nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "incremental_min_prefix":
		return strconv.Itoa(c.Search.IncrementalMinPrefix), nil
	case "max_results":
		return strconv.Itoa(c.Search.MaxResults), nil
	case "pool_size":
		return strconv.Itoa(c.Search.PoolSize), nil
	default:
		return "", fmt.Errorf("unknown field: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v < 0 {
		return fmt.Errorf("invalid %s: must be non-negative", field)
	}

	switch field {
	case "incremental_min_prefix":
		c.Search.IncrementalMinPrefix = v
	case "max_results":
		c.Search.MaxResults = v
	case "pool_size":
		c.Search.PoolSize = v
	default:
		return fmt.Errorf("unknown field: search.%s", field)
	}
	return nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "max_entries":
		return strconv.Itoa(c.History.MaxEntries), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "max_entries":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_entries: %w", err)
		}
		if v < 1 {
			return fmt.Errorf("invalid max_entries: must be at least 1")
		}
		c.History.MaxEntries = v
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

func (c *Config) getContentField(field string) (string, error) {
	switch field {
	case "url_mode":
		return c.Content.URLMode, nil
	case "dynamic_conversions":
		return strconv.FormatBool(c.Content.DynamicConversions), nil
	case "default_currency":
		return c.Content.DefaultCurrency, nil
	case "rates_timeout_ms":
		return strconv.Itoa(c.Content.RatesTimeoutMs), nil
	case "rates_url":
		return c.Content.RatesURL, nil
	default:
		return "", fmt.Errorf("unknown field: content.%s", field)
	}
}

func (c *Config) setContentField(field, value string) error {
	switch field {
	case "url_mode":
		if !isValidURLMode(value) {
			return fmt.Errorf("invalid url_mode: %s (must be none, http, or loose)", value)
		}
		c.Content.URLMode = value
	case "dynamic_conversions":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for dynamic_conversions: %w", err)
		}
		c.Content.DynamicConversions = v
	case "default_currency":
		c.Content.DefaultCurrency = strings.ToLower(strings.TrimSpace(value))
	case "rates_timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for rates_timeout_ms: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("invalid rates_timeout_ms: must be non-negative")
		}
		c.Content.RatesTimeoutMs = v
	case "rates_url":
		c.Content.RatesURL = value
	default:
		return fmt.Errorf("unknown field: content.%s", field)
	}
	return nil
}

// Validate checks the configuration and normalizes values that have a
// canonical spelling.
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	if !isValidLogFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be text or json (got: %s)", c.Log.Format)
	}

	if c.Search.IncrementalMinPrefix < 0 {
		return errors.New("search.incremental_min_prefix must be >= 0")
	}

	if c.Search.MaxResults < 0 {
		return errors.New("search.max_results must be >= 0")
	}

	if c.Search.PoolSize < 0 {
		return errors.New("search.pool_size must be >= 0")
	}

	if c.History.MaxEntries < 1 {
		return errors.New("history.max_entries must be >= 1")
	}

	// "all" is accepted as an alias for loose.
	if c.Content.URLMode == "all" {
		c.Content.URLMode = "loose"
	}
	if !isValidURLMode(c.Content.URLMode) {
		return fmt.Errorf("content.url_mode must be none, http, or loose (got: %s)", c.Content.URLMode)
	}

	if c.Content.RatesTimeoutMs < 0 {
		return errors.New("content.rates_timeout_ms must be >= 0")
	}

	c.Content.DefaultCurrency = strings.ToLower(strings.TrimSpace(c.Content.DefaultCurrency))
	if c.Content.RatesURL == "" {
		c.Content.RatesURL = DefaultRatesURL
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidLogFormat(format string) bool {
	switch format {
	case "text", "json":
		return true
	default:
		return false
	}
}

func isValidURLMode(mode string) bool {
	switch mode {
	case "none", "http", "loose":
		return true
	default:
		return false
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ":") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LAUNCHER_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("LAUNCHER_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("LAUNCHER_LOCALE"); v != "" {
		c.Index.Locale = v
	}
	if v := os.Getenv("LAUNCHER_URL_MODE"); v != "" {
		c.Content.URLMode = v
	}
	if v := os.Getenv("LAUNCHER_DEFAULT_CURRENCY"); v != "" {
		c.Content.DefaultCurrency = strings.ToLower(v)
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"log.level",
		"log.format",
		"log.file",
		"index.dirs",
		"index.locale",
		"index.icon_theme",
		"index.watch",
		"search.incremental_min_prefix",
		"search.max_results",
		"search.pool_size",
		"history.max_entries",
		"content.url_mode",
		"content.dynamic_conversions",
		"content.default_currency",
		"content.rates_timeout_ms",
		"content.rates_url",
	}
}
