package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	awspkg "storefront/pkg/aws"

	"github.com/joho/godotenv"
)

const dbSecretName = "storefront/DB_CREDENTIALS"

type Config struct {
	Port             string
	Env              string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string
	RedisURL         string
	// StorageBackend selects session storage: "redis" or "memory".
	StorageBackend  string
	StorageCapacity int
	SessionTTL      time.Duration
	JWTSecret       string
	KafkaBrokers    []string
	OrderEventTopic string
	OrderSNSTopic   string
	AllowedOrigins  string
	OwnerEmails     []string
	RateLimitRPS    float64
	RateLimitBurst  int
	// CloudWatch ships request metrics and a copy of the logs when enabled.
	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// DSN is the gorm postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads configuration from the environment, after loading .env if
// present. AWS_USE_SECRETS=true overrides database credentials from Secrets
// Manager.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StorageBackend:   getEnv("STORAGE_BACKEND", "redis"),
		StorageCapacity:  getEnvInt("STORAGE_CAPACITY_BYTES", 5*1024*1024),
		SessionTTL:       getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventTopic:  getEnv("ORDER_EVENTS_TOPIC", "order.placed"),
		OrderSNSTopic:    os.Getenv("ORDER_SNS_TOPIC_ARN"),
		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		OwnerEmails:      splitList(os.Getenv("OWNER_EMAILS")),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 40),

		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/api"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if err := cfg.applySecrets(context.Background()); err != nil {
			return nil, err
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.StorageBackend != "redis" && cfg.StorageBackend != "memory" {
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func (c *Config) applySecrets(ctx context.Context) error {
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return err
	}
	raw, err := awspkg.NewSecretsClient(awsCfg).GetSecret(ctx, dbSecretName)
	if err != nil {
		return err
	}
	return c.overrideDB(raw)
}

// overrideDB copies non-empty POSTGRES_* values from a JSON secret.
func (c *Config) overrideDB(raw string) error {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return fmt.Errorf("decode %s: %w", dbSecretName, err)
	}
	for key, dst := range map[string]*string{
		"POSTGRES_USER":     &c.PostgresUser,
		"POSTGRES_PASSWORD": &c.PostgresPassword,
		"POSTGRES_DB":       &c.PostgresDB,
		"POSTGRES_HOST":     &c.PostgresHost,
		"POSTGRES_PORT":     &c.PostgresPort,
	} {
		if v := m[key]; v != "" {
			*dst = v
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
