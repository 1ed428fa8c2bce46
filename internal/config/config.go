package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultEnvironment      = "development"
	defaultAPITimeout       = 10 * time.Second
	defaultTZOffsetHours    = 5
	defaultSurveyStorePath  = "data/pending_surveys.json"
	defaultMigrationsPath   = "migrations"
	defaultDispatchInterval = time.Minute
)

type Config struct {
	TelegramToken    string        `validate:"required"`
	APIBaseURL       string        `validate:"required,url"`
	APIToken         string
	APITimeout       time.Duration `validate:"gt=0"`
	Environment      string        `validate:"oneof=development production"`
	TZOffsetHours    int           `validate:"gte=-12,lte=14"`
	SurveyStorePath  string        `validate:"required"`
	SurveyStoreDSN   string
	MigrationsPath   string        `validate:"required"`
	DispatchInterval time.Duration `validate:"gt=0"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из переменных окружения и проверяет его
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:    getenv("TELEGRAM_TOKEN"),
		APIBaseURL:       getenv("API_BASE_URL"),
		APIToken:         getenv("API_TOKEN"),
		APITimeout:       defaultAPITimeout,
		Environment:      stringOr(getenv("ENV"), defaultEnvironment),
		TZOffsetHours:    defaultTZOffsetHours,
		SurveyStorePath:  stringOr(getenv("SURVEY_STORE_PATH"), defaultSurveyStorePath),
		SurveyStoreDSN:   getenv("SURVEY_STORE_DSN"),
		MigrationsPath:   stringOr(getenv("MIGRATIONS_PATH"), defaultMigrationsPath),
		DispatchInterval: defaultDispatchInterval,
	}

	var err error
	if cfg.APITimeout, err = durationOr(getenv("API_TIMEOUT"), defaultAPITimeout); err != nil {
		return nil, fmt.Errorf("API_TIMEOUT: %w", err)
	}
	if cfg.DispatchInterval, err = durationOr(getenv("DISPATCH_INTERVAL"), defaultDispatchInterval); err != nil {
		return nil, fmt.Errorf("DISPATCH_INTERVAL: %w", err)
	}
	if raw := getenv("TZ_OFFSET_HOURS"); raw != "" {
		if cfg.TZOffsetHours, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("TZ_OFFSET_HOURS: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Location фиксированная зона салона
func (c *Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.TZOffsetHours), c.TZOffsetHours*60*60)
}

// IsProduction включён ли боевой режим
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
