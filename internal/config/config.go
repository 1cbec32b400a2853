package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	CacheDriverRedis  = "redis"
	CacheDriverBadger = "badger"
)

type Config struct {
	Port        string `validate:"required,numeric"`
	Environment string `validate:"required"`

	MongoURI string `validate:"required"`
	DBName   string `validate:"required"`

	CacheDriver   string `validate:"required,oneof=redis badger"`
	RedisAddr     string `validate:"required_if=CacheDriver redis"`
	RedisPassword string
	RedisDB       int    `validate:"gte=0"`
	BadgerPath    string // empty runs badger in memory

	SessionKeyPrefix string        `validate:"required"`
	SessionTTL       time.Duration `validate:"gt=0"`

	FolderPath     string `validate:"required"` // Storage root for uploaded bytes
	MaxUploadBytes int    `validate:"gt=0"`

	SweepSchedule string        // cron spec, empty disables the sweeper
	SweepGrace    time.Duration `validate:"gte=0"`

	LogToDB     bool
	CORSOrigins string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	sweepGrace, err := getDuration("SWEEP_GRACE", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "")
	if mongoURI == "" {
		mongoURI = fmt.Sprintf("mongodb://%s:%s", getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "27017"))
	}

	cfg := &Config{
		Port:             getEnv("PORT", "5000"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		MongoURI:         mongoURI,
		DBName:           getEnv("DB_DATABASE", "files_manager"),
		CacheDriver:      getEnv("CACHE_DRIVER", CacheDriverRedis),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          redisDB,
		BadgerPath:       getEnv("BADGER_PATH", ""),
		SessionKeyPrefix: getEnv("SESSION_KEY_PREFIX", "auth:"),
		SessionTTL:       sessionTTL,
		FolderPath:       getEnv("FOLDER_PATH", "/tmp/files_manager"),
		MaxUploadBytes:   maxUpload,
		SweepSchedule:    getEnv("SWEEP_SCHEDULE", "@every 1h"),
		SweepGrace:       sweepGrace,
		LogToDB:          getEnv("LOG_TO_DB", "false") == "true",
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
