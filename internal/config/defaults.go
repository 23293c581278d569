package config

import "time"

// Default constants for application configuration.
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	// Identifies as a desktop browser; Turkish Wikipedia serves the same
	// markup either way.
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	DefaultAcceptLanguage = "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"

	DefaultHTTPTimeout = 30 * time.Second

	// 0.5 rps with burst 1 paces requests ~2s apart across all workers.
	DefaultRateLimitRPS   = 0.5
	DefaultRateLimitBurst = 1

	DefaultRetryAttempts   = 3
	DefaultRetryMinBackoff = 1 * time.Second
	DefaultRetryMaxBackoff = 30 * time.Second

	DefaultCacheTTL          = 30 * time.Minute
	DefaultCacheMaxSizeBytes = 64 * 1024 * 1024 // 64MB

	DefaultDatabasePath = "data/officials.db"
	DefaultExportDir    = "data"

	DefaultBioWorkers = 4
	MaxBioWorkers     = 16
)
