package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBackendName = "przelewy24"
	defaultHTTPTimeout = 15 * time.Second
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	AppPort    string
	AppEnv     string

	// Domain is the public host the processor and browsers reach us on.
	Domain string
	// SuccessFallbackURL may contain a {pk} placeholder for the payment id.
	SuccessFallbackURL string
	ServiceJWTSecret   string

	Przelewy24 Przelewy24
}

// Przelewy24 holds the per-deployment settings of one przelewy24 backend.
type Przelewy24 struct {
	BackendName string
	MerchantID  string
	PosID       string
	CRC         string
	Sandbox     bool
	Lang        string
	SSLReturn   bool
	HTTPTimeout time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		DBSSLMode:          os.Getenv("DB_SSLMODE"),
		AppPort:            os.Getenv("APP_PORT"),
		AppEnv:             os.Getenv("APP_ENV"),
		Domain:             os.Getenv("APP_DOMAIN"),
		SuccessFallbackURL: os.Getenv("SUCCESS_FALLBACK_URL"),
		ServiceJWTSecret:   os.Getenv("SERVICE_JWT_SECRET"),
		Przelewy24:         loadPrzelewy24(),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func loadPrzelewy24() Przelewy24 {
	p := Przelewy24{
		BackendName: os.Getenv("P24_BACKEND_NAME"),
		MerchantID:  os.Getenv("P24_MERCHANT_ID"),
		PosID:       os.Getenv("P24_POS_ID"),
		CRC:         os.Getenv("P24_CRC"),
		Sandbox:     getBool("P24_SANDBOX"),
		Lang:        os.Getenv("P24_LANG"),
		SSLReturn:   getBool("P24_SSL_RETURN"),
		HTTPTimeout: getDuration("P24_HTTP_TIMEOUT", defaultHTTPTimeout),
	}
	if p.BackendName == "" {
		p.BackendName = defaultBackendName
	}
	return p
}

// Validate reports every setting the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Domain) == "" {
		errs = append(errs, errors.New("APP_DOMAIN is required"))
	}
	if strings.TrimSpace(c.SuccessFallbackURL) == "" {
		errs = append(errs, errors.New("SUCCESS_FALLBACK_URL is required"))
	}
	if err := c.Przelewy24.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("przelewy24 backend %q: %w", c.Przelewy24.BackendName, err))
	}
	return errors.Join(errs...)
}

// Validate reports missing mandatory backend settings.
func (p Przelewy24) Validate() error {
	var errs []error
	if p.MerchantID == "" {
		errs = append(errs, errors.New("P24_MERCHANT_ID is required"))
	}
	if p.CRC == "" {
		errs = append(errs, errors.New("P24_CRC is required"))
	}
	return errors.Join(errs...)
}

// EffectivePosID falls back to the merchant id when no POS id is configured.
func (p Przelewy24) EffectivePosID() string {
	if p.PosID == "" {
		return p.MerchantID
	}
	return p.PosID
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}
