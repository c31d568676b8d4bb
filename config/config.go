package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Document store.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firebase project used to verify ID tokens.
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// AI provider selection.
	AIProvider    string `mapstructure:"AI_PROVIDER"`
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string `mapstructure:"GEMINI_MODEL"`
	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`

	// Rate limiting.
	RateLimitWindowMs int    `mapstructure:"RATE_LIMIT_WINDOW_MS"`
	RateLimitMax      int    `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitStore    string `mapstructure:"RATE_LIMIT_STORE"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisRateLimitDB int    `mapstructure:"REDIS_RATE_LIMIT_DB"`
	RedisQueueDB     int    `mapstructure:"REDIS_QUEUE_DB"`

	// Proxies whose X-Forwarded-For is believed when keying public rate limits.
	// Comma-separated IPs or CIDRs; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Weekly suggestion job.
	SchedulerMode     string `mapstructure:"SCHEDULER_MODE"`
	SchedulerCron     string `mapstructure:"SCHEDULER_CRON"`
	SchedulerTimezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("DATABASE_NAME", "secondlife")
	v.SetDefault("FIREBASE_PROJECT_ID", "secondlife-exchange-dev")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("RATE_LIMIT_WINDOW_MS", 60000)
	v.SetDefault("RATE_LIMIT_MAX", 30)
	v.SetDefault("RATE_LIMIT_STORE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_RATE_LIMIT_DB", 3)
	v.SetDefault("REDIS_QUEUE_DB", 4)
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("SCHEDULER_MODE", "local")
	v.SetDefault("SCHEDULER_CRON", "0 8 * * 1")
	v.SetDefault("SCHEDULER_TIMEZONE", "Europe/Paris")
}

// Load reads configuration from an optional .env file, an optional config.yaml
// and the environment, in increasing order of precedence.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	cfg.RateLimitStore = strings.ToLower(strings.TrimSpace(cfg.RateLimitStore))
	cfg.SchedulerMode = strings.ToLower(strings.TrimSpace(cfg.SchedulerMode))
	proxies := make([]string, 0, len(cfg.TrustedProxies))
	for _, p := range cfg.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	cfg.TrustedProxies = proxies

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch c.AIProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("invalid AI_PROVIDER %q: expected gemini or openai", c.AIProvider)
	}
	if c.RateLimitWindowMs <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_MS must be positive, got %d", c.RateLimitWindowMs)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	switch c.RateLimitStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE %q: expected memory or redis", c.RateLimitStore)
	}
	switch c.SchedulerMode {
	case "asynq", "local", "off":
	default:
		return fmt.Errorf("invalid SCHEDULER_MODE %q: expected asynq, local or off", c.SchedulerMode)
	}
	if c.SchedulerMode != "off" {
		if _, err := time.LoadLocation(c.SchedulerTimezone); err != nil {
			return fmt.Errorf("invalid SCHEDULER_TIMEZONE %q: %w", c.SchedulerTimezone, err)
		}
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
		}
	}
	if c.DatabaseName == "" {
		return errors.New("DATABASE_NAME must not be empty")
	}
	return nil
}

// RateLimitWindow returns the refill window as a duration.
func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMs) * time.Millisecond
}

// UsesRedis reports whether any configured component needs a redis connection.
func (c Config) UsesRedis() bool {
	return c.RateLimitStore == "redis" || c.SchedulerMode == "asynq"
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
