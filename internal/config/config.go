package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting. Everything is optional and
// defaulted so a bare `toolscout ingest` works against a local SQLite file.
type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage. A postgres:// URL selects lib/pq, anything else is treated
	// as a SQLite path / DSN.
	DatabaseURL string

	// Source adapters
	HNMaxItems       int           // number of recent Show HN stories to fetch
	SESites          []string      // stack exchange sites to query (";"-separated env)
	SEPages          int           // pages per site
	SEKey            string        // optional stack exchange API key
	GHToken          string        // optional github token
	GHPages          int           // github search pages
	GHMinStars       int           // lower bound of the star range
	GHMaxStars       int           // upper bound of the star range
	GHQueryAdditions string        // extra github search query terms
	RequestPause     time.Duration // politeness pause between source requests
	HTTPTimeout      time.Duration // timeout for source API calls
	SourcesFile      string        // optional yaml file overriding source settings

	// Liveness sweep
	ProbeTimeout time.Duration // timeout for a single reachability probe

	// Serve mode schedulers
	IngestInterval time.Duration // interval between full ingestion runs
	SweepInterval  time.Duration // interval between standalone liveness sweeps

	// Optional Redis read cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Read API rate limiting
	RateBurst        int
	RateRefillPerMin int
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		// Server settings
		ListenPort:      getenv("TOOLSCOUT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TOOLSCOUT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TOOLSCOUT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TOOLSCOUT_PRETTY_LOG", false),

		// Storage
		DatabaseURL: getenv("TOOLSCOUT_DATABASE_URL", "toolscout.db"),

		// Sources
		HNMaxItems:       getenvInt("TOOLSCOUT_HN_MAX_ITEMS", 40),
		SESites:          splitAndTrim(getenv("TOOLSCOUT_SE_SITES", "stackoverflow"), ";"),
		SEPages:          getenvInt("TOOLSCOUT_SE_PAGES", 1),
		SEKey:            getenv("TOOLSCOUT_SE_KEY", ""),
		GHToken:          getenv("TOOLSCOUT_GH_TOKEN", ""),
		GHPages:          getenvInt("TOOLSCOUT_GH_PAGES", 1),
		GHMinStars:       getenvInt("TOOLSCOUT_GH_MIN_STARS", 10),
		GHMaxStars:       getenvInt("TOOLSCOUT_GH_MAX_STARS", 600),
		GHQueryAdditions: getenv("TOOLSCOUT_GH_QUERY_ADDITIONS", ""),
		RequestPause:     mustDuration("TOOLSCOUT_REQUEST_PAUSE", 100*time.Millisecond),
		HTTPTimeout:      mustDuration("TOOLSCOUT_HTTP_TIMEOUT", 15*time.Second),
		SourcesFile:      getenv("TOOLSCOUT_SOURCES_FILE", ""),

		// Sweep
		ProbeTimeout: mustDuration("TOOLSCOUT_PROBE_TIMEOUT", 5*time.Second),

		// Schedulers
		IngestInterval: mustDuration("TOOLSCOUT_INGEST_INTERVAL", 6*time.Hour),
		SweepInterval:  mustDuration("TOOLSCOUT_SWEEP_INTERVAL", 24*time.Hour),

		// Redis cache
		RedisAddr:     getenv("TOOLSCOUT_REDIS_ADDR", ""),
		RedisUser:     getenv("TOOLSCOUT_REDIS_USERNAME", ""),
		RedisPassword: getenv("TOOLSCOUT_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("TOOLSCOUT_REDIS_DB", 0),
		CacheTTL:      mustDuration("TOOLSCOUT_CACHE_TTL", 10*time.Minute),

		// Rate limiting
		RateBurst:        getenvInt("TOOLSCOUT_RATE_BURST", 20),
		RateRefillPerMin: getenvInt("TOOLSCOUT_RATE_REFILL_PER_MIN", 60),
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
