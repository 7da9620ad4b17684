package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Lang            string        // BCP 47 tag used for the import comment (ex: "fr")
	ImportInterval  time.Duration // interval between import runs (default: 1h)
	ImportOnStart   bool          // run every source once when serving starts
	PreferencesFile string        // optional YAML file with source locations

	Backend    string // "redis" | "sqlite", where facts, secrets and bookmarks live
	DataDir    string // sqlite base directory (default: $XDG_DATA_HOME/harbor)
	SecretKey  string // passphrase sealing stored passwords
	SecretSalt string // argon2id salt, must not change once secrets are stored

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "10.0.0.0/8, 192.168.1.4")
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HARBOR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HARBOR_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HARBOR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HARBOR_PRETTY_LOG", true),

		// Import
		Lang:            getenv("HARBOR_LANG", "en"),
		ImportInterval:  mustDuration("HARBOR_IMPORT_INTERVAL", time.Hour),
		ImportOnStart:   mustBool("HARBOR_IMPORT_ON_START", true),
		PreferencesFile: getenv("HARBOR_PREFERENCES_FILE", ""),

		// Storage
		Backend:    strings.ToLower(getenv("HARBOR_BACKEND", BackendRedis)),
		DataDir:    getenv("HARBOR_DATA_DIR", filepath.Join(xdg.DataHome, "harbor")),
		SecretKey:  requireEnv("HARBOR_SECRET_KEY"),
		SecretSalt: getenv("HARBOR_SECRET_SALT", "harbor"),

		// Redis settings
		RedisAddr:             getenv("HARBOR_REDIS_ADDR", ""),
		RedisUser:             getenv("HARBOR_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("HARBOR_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("HARBOR_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("HARBOR_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("HARBOR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("HARBOR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("HARBOR_TRUST_PROXY", false),
	}

	switch cfg.Backend {
	case BackendRedis:
		if cfg.RedisAddr == "" {
			panic("❌ FATAL: HARBOR_REDIS_ADDR is required when HARBOR_BACKEND=redis")
		}
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: HARBOR_REDIS_PASSWORD is required when HARBOR_REDIS_PASSWORD_REQUIRED=true")
		}
	case BackendSQLite:
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid HARBOR_BACKEND %q (expected redis or sqlite)", cfg.Backend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.SecretKey = "***REDACTED***"
	cp.RedisPassword = "***REDACTED***"
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
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
		b, err := strconv.ParseBool(v)
		if err == nil {
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

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
