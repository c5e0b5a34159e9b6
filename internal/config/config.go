package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	Relay    RelayConfig    `koanf:"relay"`
	Match    MatchConfig    `koanf:"match"`
}

type AppConfig struct {
	AppName     string `koanf:"name" validate:"required"`
	Environment string `koanf:"env" validate:"required"`
	HTTPPort    string `koanf:"http_port" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

type DatabaseConfig struct {
	DBHost     string `koanf:"host"`
	DBPort     string `koanf:"port"`
	DBName     string `koanf:"name"`
	DBUser     string `koanf:"user"`
	DBPassword string `koanf:"password"`
	DBSSLMode  string `koanf:"ssl_mode"`

	ConnectTimeout        time.Duration `koanf:"connect_timeout"`
	PoolMaxConns          int32         `koanf:"pool_max_conns"`
	PoolMinConns          int32         `koanf:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `koanf:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `koanf:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `koanf:"pool_health_check_period"`
}

type RedisConfig struct {
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type JWTConfig struct {
	AccessSecret    string        `koanf:"access_secret" validate:"required"`
	Issuer          string        `koanf:"issuer"`
	AccessExpiresIn time.Duration `koanf:"access_expires_in"`
}

type RelayConfig struct {
	SendBuffer      int     `koanf:"send_buffer" validate:"gte=1"`
	MaxMessageBytes int64   `koanf:"max_message_bytes" validate:"gte=512"`
	EventsPerSecond float64 `koanf:"events_per_second" validate:"gte=0"`
	EventBurst      int     `koanf:"event_burst" validate:"gte=0"`
	AllowedOrigins  string  `koanf:"allowed_origins"`
}

type MatchConfig struct {
	FeedCacheTTL time.Duration `koanf:"feed_cache_ttl"`
	LockTTL      time.Duration `koanf:"lock_ttl"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// envKeys maps environment variable names onto koanf paths. Variables not listed are ignored.
var envKeys = map[string]string{
	"APP_NAME":  "app.name",
	"APP_ENV":   "app.env",
	"HTTP_PORT": "app.http_port",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"DB_HOST":                     "database.host",
	"DB_PORT":                     "database.port",
	"DB_NAME":                     "database.name",
	"DB_USER":                     "database.user",
	"DB_PASSWORD":                 "database.password",
	"DB_SSL_MODE":                 "database.ssl_mode",
	"DB_CONNECT_TIMEOUT":          "database.connect_timeout",
	"DB_POOL_MAX_CONNS":           "database.pool_max_conns",
	"DB_POOL_MIN_CONNS":           "database.pool_min_conns",
	"DB_POOL_MAX_CONN_LIFETIME":   "database.pool_max_conn_lifetime",
	"DB_POOL_MAX_CONN_IDLE_TIME":  "database.pool_max_conn_idle_time",
	"DB_POOL_HEALTH_CHECK_PERIOD": "database.pool_health_check_period",

	"REDIS_HOST":     "redis.host",
	"REDIS_PORT":     "redis.port",
	"REDIS_PASSWORD": "redis.password",
	"REDIS_DB":       "redis.db",
	"REDIS_TTL":      "redis.ttl",

	"JWT_ACCESS_SECRET":     "jwt.access_secret",
	"JWT_ISSUER":            "jwt.issuer",
	"JWT_ACCESS_EXPIRES_IN": "jwt.access_expires_in",

	"RELAY_SEND_BUFFER":       "relay.send_buffer",
	"RELAY_MAX_MESSAGE_BYTES": "relay.max_message_bytes",
	"RELAY_EVENTS_PER_SECOND": "relay.events_per_second",
	"RELAY_EVENT_BURST":       "relay.event_burst",
	"RELAY_ALLOWED_ORIGINS":   "relay.allowed_origins",

	"MATCH_FEED_CACHE_TTL": "match.feed_cache_ttl",
	"MATCH_LOCK_TTL":       "match.lock_ttl",
}

func defaults() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			DBHost:         "localhost",
			DBPort:         "5432",
			DBSSLMode:      "disable",
			ConnectTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  600 * time.Second,
		},
		JWT: JWTConfig{AccessExpiresIn: 15 * time.Minute},
		Relay: RelayConfig{
			SendBuffer:      256,
			MaxMessageBytes: 16 * 1024,
			EventsPerSecond: 20,
			EventBurst:      40,
		},
		Match: MatchConfig{
			FeedCacheTTL: 60 * time.Second,
			LockTTL:      10 * time.Second,
		},
	}
}

// Load reads an optional .env file, then layers environment variables over the defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	envProvider := env.Provider("", ".", func(s string) string {
		return envKeys[s]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	trimStrings(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing []string
	var invalid []string
	for _, fe := range verrs {
		name, ok := fieldEnv[fe.StructNamespace()]
		if !ok {
			name = fe.StructNamespace()
		}
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s(%s)", name, fe.Tag()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
}

// fieldEnv names the environment variable behind each validated field.
var fieldEnv = map[string]string{
	"Config.App.AppName":           "APP_NAME",
	"Config.App.Environment":       "APP_ENV",
	"Config.App.HTTPPort":          "HTTP_PORT",
	"Config.Log.Format":            "LOG_FORMAT",
	"Config.JWT.AccessSecret":      "JWT_ACCESS_SECRET",
	"Config.Relay.SendBuffer":      "RELAY_SEND_BUFFER",
	"Config.Relay.MaxMessageBytes": "RELAY_MAX_MESSAGE_BYTES",
	"Config.Relay.EventsPerSecond": "RELAY_EVENTS_PER_SECOND",
	"Config.Relay.EventBurst":      "RELAY_EVENT_BURST",
}

func trimStrings(cfg *Config) {
	cfg.App.AppName = strings.TrimSpace(cfg.App.AppName)
	cfg.App.Environment = strings.TrimSpace(cfg.App.Environment)
	cfg.App.HTTPPort = strings.TrimSpace(cfg.App.HTTPPort)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.JWT.AccessSecret = strings.TrimSpace(cfg.JWT.AccessSecret)
	cfg.Relay.AllowedOrigins = strings.TrimSpace(cfg.Relay.AllowedOrigins)
}

// AllowedOriginList splits RELAY_ALLOWED_ORIGINS. Empty means any origin.
func (c RelayConfig) AllowedOriginList() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
