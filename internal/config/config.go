package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string

	DatabaseURL string
	TokenKey    string
	RedisAddr   string

	CatalogFile   string
	MaterialsFile string
	DefaultGrade  string

	DeflectionLimitCommercial  int
	DeflectionLimitResidential int
	PricePerM3                 float64

	CacheTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	c := Config{
		Addr:          str("ADDR", ":8080"),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		TokenKey:      os.Getenv("TOKEN_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CatalogFile:   os.Getenv("CATALOG_FILE"),
		MaterialsFile: os.Getenv("MATERIALS_FILE"),
		DefaultGrade:  str("DEFAULT_GRADE", "GL24h"),
	}

	var err error
	if c.DeflectionLimitCommercial, err = integer("DEFLECTION_LIMIT_COMMERCIAL", 360); err != nil {
		return Config{}, err
	}
	if c.DeflectionLimitResidential, err = integer("DEFLECTION_LIMIT_RESIDENTIAL", 300); err != nil {
		return Config{}, err
	}
	if c.PricePerM3, err = float("TIMBER_PRICE_PER_M3", 1500); err != nil {
		return Config{}, err
	}
	if c.RateLimitRPS, err = float("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if c.RateLimitBurst, err = integer("RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if c.CacheTTL, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("CACHE_TTL: %w", err)
		}
	} else {
		c.CacheTTL = 10 * time.Minute
	}

	if c.DeflectionLimitCommercial <= 0 || c.DeflectionLimitResidential <= 0 {
		return Config{}, fmt.Errorf("deflection limits must be positive")
	}
	if c.PricePerM3 < 0 || c.CacheTTL < 0 || c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("price, cache ttl and rate limits must not be negative")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	return c, nil
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func float(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
