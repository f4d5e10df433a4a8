package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr           = ":8080"
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultLogLevel           = "info"
	defaultBankAPITimeout     = 15 * time.Second
	defaultBankAPIRate        = 5.0
	defaultExchangeAPIURL     = "https://open.er-api.com/v6/latest/"
	defaultArchiveAfterMonths = 24
	defaultJobWorkers         = 3
	defaultJobBuffer          = 100
)

// Config holds the service configuration.
type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	LogLevel           string
	AllowedOrigins     []string
	BankAPIURL         string
	BankAPITimeout     time.Duration
	BankAPIRate        float64
	ExchangeAPIURL     string
	ArchiveAfterMonths int
	JobWorkers         int
	JobBuffer          int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env не обязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:           env("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL:        databaseURL(),
		LogLevel:           env("LOG_LEVEL", defaultLogLevel),
		AllowedOrigins:     splitList(env("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		BankAPIURL:         strings.TrimRight(os.Getenv("BANK_API_URL"), "/"),
		BankAPITimeout:     defaultBankAPITimeout,
		BankAPIRate:        defaultBankAPIRate,
		ExchangeAPIURL:     env("EXCHANGE_API_URL", defaultExchangeAPIURL),
		ArchiveAfterMonths: defaultArchiveAfterMonths,
		JobWorkers:         defaultJobWorkers,
		JobBuffer:          defaultJobBuffer,
	}

	var err error
	if v := os.Getenv("BANK_API_TIMEOUT"); v != "" {
		if cfg.BankAPITimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("BANK_API_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("BANK_API_RATE"); v != "" {
		if cfg.BankAPIRate, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("BANK_API_RATE: %w", err)
		}
	}
	if cfg.ArchiveAfterMonths, err = envInt("ARCHIVE_AFTER_MONTHS", defaultArchiveAfterMonths); err != nil {
		return nil, err
	}
	if cfg.JobWorkers, err = envInt("JOB_WORKERS", defaultJobWorkers); err != nil {
		return nil, err
	}
	if cfg.JobBuffer, err = envInt("JOB_BUFFER", defaultJobBuffer); err != nil {
		return nil, err
	}
	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	port := defaultDBPort
	if p, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil {
		port = p
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), env("DB_HOST", defaultDBHost), port, os.Getenv("DB_NAME"))
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
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
