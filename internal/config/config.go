package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/cache"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/database"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/middleware"
)

const envPrefix = "TOURGUIDE"

// JWTConfig configures session tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// KafkaConfig configures the event bus.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RabbitMQConfig configures the email dispatch queue. An empty URL logs
// emails instead of queueing them.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// AdminSeedConfig describes the admin account created on startup.
type AdminSeedConfig struct {
	Name     string
	Email    string
	Password string
}

// ReconcilerConfig configures the background task replayer.
type ReconcilerConfig struct {
	Interval    time.Duration
	MaxAttempts int
	BatchSize   int
}

// ServiceConfig holds all configuration for the tour-guide service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	CORSOrigins   []string
	MigrationsDir string
	DirectoryTTL  time.Duration
	OTLPEndpoint  string
	DBConfig      database.PostgresConfig
	JWTConfig     JWTConfig
	KafkaConfig   KafkaConfig
	RedisConfig   cache.RedisConfig
	RabbitConfig  RabbitMQConfig
	RateLimit     middleware.RateLimitConfig
	AdminSeed     AdminSeedConfig
	Reconciler    ReconcilerConfig
}

// Load reads .env (if present) and TOURGUIDE_* environment variables.
func Load() (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.port", ":8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("migrations.dir", "migrations")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "tourguide")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 20)
	v.SetDefault("db.max_idle", 5)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("jwt.issuer", "wayanad-tour-guide")

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.group_prefix", "tourguide-")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "notifications.email")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.prefix", "rl")
	v.SetDefault("ratelimit.capacity", 60)
	v.SetDefault("ratelimit.refill_tokens", 1)
	v.SetDefault("ratelimit.refill_interval", "1s")
	v.SetDefault("ratelimit.ttl", "10m")

	v.SetDefault("directory.cache_ttl", "60s")

	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("admin.email", "admin@wayanad.local")
	v.SetDefault("admin.password", "")

	v.SetDefault("reconciler.interval", "30s")
	v.SetDefault("reconciler.max_attempts", 5)
	v.SetDefault("reconciler.batch_size", 20)

	v.SetDefault("otel.endpoint", "")
}

func fromViper(v *viper.Viper) *ServiceConfig {
	return &ServiceConfig{
		Port:          v.GetString("service.port"),
		AppEnv:        v.GetString("app.env"),
		CORSOrigins:   splitList(v.GetString("cors.origins")),
		MigrationsDir: v.GetString("migrations.dir"),
		DirectoryTTL:  v.GetDuration("directory.cache_ttl"),
		OTLPEndpoint:  v.GetString("otel.endpoint"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			MaxOpen:  v.GetInt("db.max_open"),
			MaxIdle:  v.GetInt("db.max_idle"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
			Issuer: v.GetString("jwt.issuer"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("kafka.brokers")),
			GroupPrefix: v.GetString("kafka.group_prefix"),
		},
		RedisConfig: cache.RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RabbitConfig: RabbitMQConfig{
			URL:   v.GetString("rabbitmq.url"),
			Queue: v.GetString("rabbitmq.queue"),
		},
		RateLimit: middleware.RateLimitConfig{
			Enabled:        v.GetBool("ratelimit.enabled"),
			Prefix:         v.GetString("ratelimit.prefix"),
			Capacity:       v.GetInt("ratelimit.capacity"),
			RefillTokens:   v.GetInt("ratelimit.refill_tokens"),
			RefillInterval: v.GetDuration("ratelimit.refill_interval"),
			TTL:            v.GetDuration("ratelimit.ttl"),
		},
		AdminSeed: AdminSeedConfig{
			Name:     v.GetString("admin.name"),
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		Reconciler: ReconcilerConfig{
			Interval:    v.GetDuration("reconciler.interval"),
			MaxAttempts: v.GetInt("reconciler.max_attempts"),
			BatchSize:   v.GetInt("reconciler.batch_size"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
