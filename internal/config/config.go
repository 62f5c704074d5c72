package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Reader  ReaderConfig
	Browser BrowserConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// ReaderConfig configures the text-extraction proxy used to fetch sources.
type ReaderConfig struct {
	BaseURL    string
	Brand      string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

type BrowserConfig struct {
	Headless          bool
	MaxSessions       int
	NavigationTimeout time.Duration
	ConsentTimeout    time.Duration
	AddToCartTimeout  time.Duration
	SettleDelay       time.Duration
	KeystrokeDelay    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Enabled reports whether proxy responses should be cached.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvInt("PORT", 8080),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*", "https://localhost:*"}),
		},
		Reader: ReaderConfig{
			BaseURL:    getEnv("READER_BASE_URL", "https://r.jina.ai/"),
			Brand:      getEnv("BRAND", "crocs"),
			Timeout:    getEnvDuration("READER_TIMEOUT", 20*time.Second),
			RatePerSec: getEnvFloat("READER_RATE_PER_SEC", 5),
			Burst:      getEnvInt("READER_BURST", 5),
		},
		Browser: BrowserConfig{
			Headless:          getEnvBool("BROWSER_HEADLESS", true),
			MaxSessions:       getEnvInt("BROWSER_MAX_SESSIONS", 2),
			NavigationTimeout: getEnvDuration("BROWSER_NAV_TIMEOUT", 45*time.Second),
			ConsentTimeout:    getEnvDuration("BROWSER_CONSENT_TIMEOUT", 5*time.Second),
			AddToCartTimeout:  getEnvDuration("BROWSER_ADD_TO_CART_TIMEOUT", 15*time.Second),
			SettleDelay:       getEnvDuration("BROWSER_SETTLE_DELAY", 3500*time.Millisecond),
			KeystrokeDelay:    getEnvDuration("BROWSER_TYPE_DELAY", 20*time.Millisecond),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("CACHE_TTL", 10*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if !strings.HasPrefix(c.Reader.BaseURL, "http") {
		return fmt.Errorf("READER_BASE_URL must be an http(s) URL, got %q", c.Reader.BaseURL)
	}

	if c.Browser.MaxSessions < 1 {
		return fmt.Errorf("BROWSER_MAX_SESSIONS must be at least 1")
	}

	budget := c.Browser.NavigationTimeout + c.Browser.ConsentTimeout + c.Browser.AddToCartTimeout + c.Browser.SettleDelay
	if budget <= 0 {
		return fmt.Errorf("browser timeouts must be positive")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
