package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration values.
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP
	HTTPTimeout    time.Duration
	UserAgent      string
	AcceptLanguage string
	Headers        []string // extra "Key: Value" pairs sent with every request
	Proxy          string

	// Politeness
	RateLimitRPS   float64
	RateLimitBurst int

	// Retry
	RetryAttempts   int
	RetryMinBackoff time.Duration
	RetryMaxBackoff time.Duration

	// Page cache
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Storage and exports
	DatabasePath string
	ExportDir    string

	// Person-page scrape concurrency
	BioWorkers int
}

// fileConfig mirrors Config for the optional YAML file. Pointer fields leave
// absent keys at their defaults; durations are strings ("30s", "2m").
type fileConfig struct {
	LogLevel       *string  `yaml:"log_level"`
	JSONLog        *bool    `yaml:"json_log"`
	HTTPTimeout    *string  `yaml:"http_timeout"`
	UserAgent      *string  `yaml:"user_agent"`
	AcceptLanguage *string  `yaml:"accept_language"`
	Headers        []string `yaml:"headers"`
	Proxy          *string  `yaml:"proxy"`
	RateLimitRPS   *float64 `yaml:"rate_rps"`
	RateLimitBurst *int     `yaml:"rate_burst"`
	RetryAttempts  *int     `yaml:"retry_attempts"`
	RetryMin       *string  `yaml:"retry_min_backoff"`
	RetryMax       *string  `yaml:"retry_max_backoff"`
	CacheTTL       *string  `yaml:"cache_ttl"`
	CacheMaxBytes  *int64   `yaml:"cache_max_bytes"`
	DatabasePath   *string  `yaml:"database"`
	ExportDir      *string  `yaml:"export_dir"`
	BioWorkers     *int     `yaml:"bio_workers"`
}

// Defaults returns a Config with every field at its default. Callers that
// cannot Load (corrupt config file, invalid flag values) degrade to this.
func Defaults() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		HTTPTimeout:       DefaultHTTPTimeout,
		UserAgent:         DefaultUserAgent,
		AcceptLanguage:    DefaultAcceptLanguage,
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		RetryAttempts:     DefaultRetryAttempts,
		RetryMinBackoff:   DefaultRetryMinBackoff,
		RetryMaxBackoff:   DefaultRetryMaxBackoff,
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
		DatabasePath:      DefaultDatabasePath,
		ExportDir:         DefaultExportDir,
		BioWorkers:        DefaultBioWorkers,
	}
}

// Load builds a Config by combining defaults, an optional YAML config file,
// ATLAS_* environment variables, and CLI flags, in that order of precedence.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Defaults()

	if err := applyFile(cfg, configFilePath(cmd)); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	applyFlags(cfg, cmd)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configFilePath resolves the config file location: --config flag first,
// ATLAS_CONFIG second, otherwise empty (no file).
func configFilePath(cmd *cobra.Command) string {
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	return os.Getenv("ATLAS_CONFIG")
}

func applyFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setDuration := func(dst *time.Duration, src *string) error {
		if src == nil {
			return nil
		}
		d, err := time.ParseDuration(*src)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		*dst = d
		return nil
	}

	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.JSONLog != nil {
		cfg.JSONLog = *fc.JSONLog
	}
	if err := setDuration(&cfg.HTTPTimeout, fc.HTTPTimeout); err != nil {
		return err
	}
	setString(&cfg.UserAgent, fc.UserAgent)
	setString(&cfg.AcceptLanguage, fc.AcceptLanguage)
	if len(fc.Headers) > 0 {
		cfg.Headers = append(cfg.Headers, fc.Headers...)
	}
	setString(&cfg.Proxy, fc.Proxy)
	if fc.RateLimitRPS != nil {
		cfg.RateLimitRPS = *fc.RateLimitRPS
	}
	if fc.RateLimitBurst != nil {
		cfg.RateLimitBurst = *fc.RateLimitBurst
	}
	if fc.RetryAttempts != nil {
		cfg.RetryAttempts = *fc.RetryAttempts
	}
	if err := setDuration(&cfg.RetryMinBackoff, fc.RetryMin); err != nil {
		return err
	}
	if err := setDuration(&cfg.RetryMaxBackoff, fc.RetryMax); err != nil {
		return err
	}
	if err := setDuration(&cfg.CacheTTL, fc.CacheTTL); err != nil {
		return err
	}
	if fc.CacheMaxBytes != nil {
		cfg.CacheMaxSizeBytes = *fc.CacheMaxBytes
	}
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.ExportDir, fc.ExportDir)
	if fc.BioWorkers != nil {
		cfg.BioWorkers = *fc.BioWorkers
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ATLAS_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("ATLAS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ATLAS_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("ATLAS_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("ATLAS_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
}

func applyFlags(cfg *Config, cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	flags := cmd.Flags()

	if f := flags.Lookup("user-agent"); f != nil && f.Changed {
		cfg.UserAgent = f.Value.String()
	}
	if f := flags.Lookup("proxy"); f != nil && f.Changed {
		cfg.Proxy = f.Value.String()
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if f := flags.Lookup("db"); f != nil && f.Changed {
		cfg.DatabasePath = f.Value.String()
	}
	if f := flags.Lookup("export-dir"); f != nil && f.Changed {
		cfg.ExportDir = f.Value.String()
	}
	if f := flags.Lookup("rate"); f != nil && f.Changed {
		if v, err := strconv.ParseFloat(f.Value.String(), 64); err == nil {
			cfg.RateLimitRPS = v
		}
	}
	if f := flags.Lookup("workers"); f != nil && f.Changed {
		if v, err := strconv.Atoi(f.Value.String()); err == nil {
			cfg.BioWorkers = v
		}
	}
	if f := flags.Lookup("header"); f != nil && f.Changed {
		if sv, err := flags.GetStringArray("header"); err == nil {
			cfg.Headers = append(cfg.Headers, sv...)
		}
	}
	if f := flags.Lookup("json"); f != nil && f.Value.String() == "true" {
		cfg.JSONLog = true
	}
	if f := flags.Lookup("quiet"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "error"
	}
	// Verbose wins over quiet so operators can append -v to any saved command.
	if f := flags.Lookup("verbose"); f != nil && f.Value.String() == "true" {
		cfg.LogLevel = "debug"
	}
}
