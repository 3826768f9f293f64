package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type Config struct {
	HTTPPort string

	// History is enabled only when DB_NAME is set.
	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// RedisAddr empty means the in-process cache.
	RedisAddr string
	CacheTTL  time.Duration

	HistoryRetention time.Duration

	// ExtraHolidays supplements the built-in calendar, e.g. ad-hoc
	// national holidays announced during the year.
	ExtraHolidays []civil.Date
}

func Load() (*Config, error) {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8084" // sensible default for local dev
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "bank_loan"
	}
	dbPass := os.Getenv("DB_PASS")
	if dbPass == "" {
		dbPass = "bank_loan"
	}
	dbName := os.Getenv("DB_NAME")

	cacheTTL := 15 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CACHE_TTL: %w", err)
		}
		cacheTTL = d
	}

	retention := 30 * 24 * time.Hour
	if v := os.Getenv("HISTORY_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("HISTORY_RETENTION: %w", err)
		}
		retention = d
	}

	var holidays []civil.Date
	if v := os.Getenv("EXTRA_HOLIDAYS"); v != "" {
		for _, s := range strings.Split(v, ",") {
			d, err := civil.ParseDate(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("EXTRA_HOLIDAYS: %w", err)
			}
			holidays = append(holidays, d)
		}
	}

	return &Config{
		HTTPPort:         port,
		DBHost:           dbHost,
		DBPort:           dbPort,
		DBName:           dbName,
		DBUser:           dbUser,
		DBPass:           dbPass,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		CacheTTL:         cacheTTL,
		HistoryRetention: retention,
		ExtraHolidays:    holidays,
	}, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func (c *Config) HistoryEnabled() bool {
	return c.DBName != ""
}

func (c *Config) PostgresDSN() string {
	// pgx format
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
	)
}
