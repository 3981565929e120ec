package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	S3        S3Config    `envPrefix:"AWS_"`
	Redis     RedisConfig `envPrefix:"REDIS_"`
	Upload    UploadConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port          string `env:"SERVER_PORT" envDefault:"5000"`
	GinMode       string `env:"GIN_MODE" envDefault:"debug"`
	Environment   string `env:"ENVIRONMENT" envDefault:"development"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5000"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"homeheart"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET" envDefault:"change-me"`
	TokenTTL time.Duration `env:"JWT_TOKEN_TTL" envDefault:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:5174" envSeparator:","`
}

type S3Config struct {
	Region          string `env:"REGION" envDefault:"ap-south-1"`
	Bucket          string `env:"S3_BUCKET" envDefault:"homeheart-uploads"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BaseURL         string `env:"S3_BASE_URL"` // CloudFront or S3 direct URL
}

// RedisConfig is optional; an empty Addr disables token revocation.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type UploadConfig struct {
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	MaxWidth uint  `env:"UPLOAD_MAX_WIDTH" envDefault:"1000"`
}

type SchedulerConfig struct {
	ReconcileSchedule string `env:"RECONCILE_SCHEDULE" envDefault:"0 3 * * *"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}
