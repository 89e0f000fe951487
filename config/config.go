package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Scrape  ScrapeConfig
	Browser BrowserConfig
	Log     LogConfig
}

// ScrapeConfig controls both scrape phases.
type ScrapeConfig struct {
	// ListingURL is the paginated manuscript catalog.
	ListingURL string // default: https://ticha.haverford.edu/en/texts/handwritten/

	// BaseOrigin resolves relative document links.
	BaseOrigin string // default: https://ticha.haverford.edu

	// RateLimit is the minimum delay between outbound requests.
	// Jitter of ±20% is applied on top.
	RateLimit time.Duration // default: 2s

	// InitialTimeout bounds the wait for the first listing row after the
	// initial navigation. Expiry is fatal.
	InitialTimeout time.Duration // default: 20s

	// PaginateTimeout bounds the wait for the table to refresh after a
	// pagination click. Expiry ends traversal, keeping partial results.
	PaginateTimeout time.Duration // default: 15s

	// MaxPages is the unconditional traversal cap.
	MaxPages int // default: 100

	// FetchTimeout is the per-document HTTP deadline.
	FetchTimeout time.Duration // default: 30s

	// MaxDocuments truncates the document batch. Zero means all.
	MaxDocuments int
}

// BrowserConfig controls the Rod browser instance used by the listing phase.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects the stealth script before navigation.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types the listing session never
	// downloads. default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
// CLI flags are applied on top by the command layer.
func Load() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			ListingURL:      envOr("TICHA_LISTING_URL", "https://ticha.haverford.edu/en/texts/handwritten/"),
			BaseOrigin:      envOr("TICHA_BASE_ORIGIN", "https://ticha.haverford.edu"),
			RateLimit:       envDurationOr("TICHA_RATE_LIMIT", 2*time.Second),
			InitialTimeout:  envDurationOr("TICHA_INITIAL_TIMEOUT", 20*time.Second),
			PaginateTimeout: envDurationOr("TICHA_PAGINATE_TIMEOUT", 15*time.Second),
			MaxPages:        envPositiveIntOr("TICHA_MAX_PAGES", 100),
			FetchTimeout:    envDurationOr("TICHA_FETCH_TIMEOUT", 30*time.Second),
			MaxDocuments:    envIntOr("TICHA_MAX_DOCS", 0),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("TICHA_HEADLESS", true),
			NoSandbox:  envBoolOr("TICHA_NO_SANDBOX", false),
			BrowserBin: os.Getenv("TICHA_BROWSER_BIN"),
			Stealth:    envBoolOr("TICHA_STEALTH", false),
			BlockedResourceTypes: envSliceOr("TICHA_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Log: LogConfig{
			Level:  envOr("TICHA_LOG_LEVEL", "info"),
			Format: envOr("TICHA_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// envPositiveIntOr is envIntOr restricted to values >= 1. A zero or
// negative value would make the traversal cap stop after the first page,
// so bad input falls back instead.
func envPositiveIntOr(key string, fallback int) int {
	if v := envIntOr(key, fallback); v > 0 {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
