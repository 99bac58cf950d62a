package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Backend       BackendConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Cache         CacheConfig
	Scheduling    SchedulingConfig
	Notifications NotificationConfig
	Audit         AuditConfig
	Tracing       TracingConfig
}

// BackendConfig points at the platform API that owns courses and sessions.
type BackendConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the per-course policy cache and the mutation lock.
type CacheConfig struct {
	Enabled   bool
	PolicyTTL time.Duration
	LockTTL   time.Duration
}

// SchedulingConfig holds the rule constants applied to every course.
type SchedulingConfig struct {
	Timezone          string
	LeadTime          time.Duration
	SlotStep          time.Duration
	DefaultDuration   time.Duration
	FixedClosureQuota int
	Location          *time.Location
}

// NotificationConfig controls asynchronous delivery of booking notifications.
type NotificationConfig struct {
	Enabled    bool
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	QueueSize  int
}

// AuditConfig toggles the Postgres-backed audit trail.
type AuditConfig struct {
	Enabled bool
}

// TracingConfig configures the OTLP exporter. An empty endpoint disables tracing.
type TracingConfig struct {
	Endpoint    string
	ServiceName string
	Insecure    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Backend = BackendConfig{
		BaseURL:   strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout:   parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
		RateLimit: v.GetFloat64("BACKEND_RATE_LIMIT"),
		RateBurst: v.GetInt("BACKEND_RATE_BURST"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("ENABLE_POLICY_CACHE"),
		PolicyTTL: parseDuration(v.GetString("POLICY_CACHE_TTL"), 5*time.Minute),
		LockTTL:   parseDuration(v.GetString("POLICY_LOCK_TTL"), 15*time.Second),
	}

	loc, err := time.LoadLocation(v.GetString("SCHEDULING_TIMEZONE"))
	if err != nil {
		return nil, err
	}
	quota := v.GetInt("FIXED_CLOSURE_QUOTA")
	if quota <= 0 {
		quota = 3
	}
	cfg.Scheduling = SchedulingConfig{
		Timezone:          loc.String(),
		LeadTime:          parseDuration(v.GetString("BOOKING_LEAD_TIME"), 24*time.Hour),
		SlotStep:          parseDuration(v.GetString("SLOT_STEP"), 15*time.Minute),
		DefaultDuration:   parseDuration(v.GetString("DEFAULT_SESSION_DURATION"), 30*time.Minute),
		FixedClosureQuota: quota,
		Location:          loc,
	}

	cfg.Notifications = NotificationConfig{
		Enabled:    v.GetBool("ENABLE_NOTIFICATIONS"),
		Workers:    v.GetInt("NOTIFICATION_WORKERS"),
		MaxRetries: v.GetInt("NOTIFICATION_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICATION_RETRY_DELAY"), 2*time.Second),
		QueueSize:  v.GetInt("NOTIFICATION_QUEUE_SIZE"),
	}

	cfg.Audit = AuditConfig{Enabled: v.GetBool("ENABLE_AUDIT")}

	cfg.Tracing = TracingConfig{
		Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName: v.GetString("OTEL_SERVICE_NAME"),
		Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("BACKEND_RATE_LIMIT", 50)
	v.SetDefault("BACKEND_RATE_BURST", 10)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mentor_scheduling")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_POLICY_CACHE", true)
	v.SetDefault("POLICY_CACHE_TTL", "5m")
	v.SetDefault("POLICY_LOCK_TTL", "15s")

	v.SetDefault("SCHEDULING_TIMEZONE", "Asia/Manila")
	v.SetDefault("BOOKING_LEAD_TIME", "24h")
	v.SetDefault("SLOT_STEP", "15m")
	v.SetDefault("DEFAULT_SESSION_DURATION", "30m")
	v.SetDefault("FIXED_CLOSURE_QUOTA", 3)

	v.SetDefault("ENABLE_NOTIFICATIONS", false)
	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATION_RETRY_DELAY", "2s")
	v.SetDefault("NOTIFICATION_QUEUE_SIZE", 64)

	v.SetDefault("ENABLE_AUDIT", false)

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "mentor-scheduling-api")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
