package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Ledger    LedgerConfig
	Fiscal    FiscalConfig
	Scheduler SchedulerConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	Timezone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level  string
	Format string
}

// LedgerConfig tunes transactional behaviour of the financial core
type LedgerConfig struct {
	LockTimeout        time.Duration
	IdempotencyTTL     time.Duration
	PaymentRefPrefix   string
	DefaultTaxRatePct  float64
	DefaultFacturaCode string
	DefaultBoletaCode  string
}

// FiscalConfig points at the electronic invoicing gateway
type FiscalConfig struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	RetryMax int
}

func (f FiscalConfig) Enabled() bool {
	return f.BaseURL != ""
}

type SchedulerConfig struct {
	Enabled            bool
	CleanupInterval    time.Duration
	ResetCheckInterval time.Duration
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
	Timeout time.Duration
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration from envFile (if present) and the environment.
// Environment variables win over the file.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			Timezone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute,
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Ledger: LedgerConfig{
			LockTimeout:        time.Duration(v.GetInt("LEDGER_LOCK_TIMEOUT_MS")) * time.Millisecond,
			IdempotencyTTL:     time.Duration(v.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
			PaymentRefPrefix:   v.GetString("LEDGER_PAYMENT_REF_PREFIX"),
			DefaultTaxRatePct:  v.GetFloat64("LEDGER_DEFAULT_TAX_RATE"),
			DefaultFacturaCode: v.GetString("LEDGER_DEFAULT_FACTURA_SERIES"),
			DefaultBoletaCode:  v.GetString("LEDGER_DEFAULT_BOLETA_SERIES"),
		},
		Fiscal: FiscalConfig{
			BaseURL:  v.GetString("FISCAL_BASE_URL"),
			Token:    v.GetString("FISCAL_TOKEN"),
			Timeout:  time.Duration(v.GetInt("FISCAL_TIMEOUT_SECONDS")) * time.Second,
			RetryMax: v.GetInt("FISCAL_RETRY_MAX"),
		},
		Scheduler: SchedulerConfig{
			Enabled:            v.GetBool("SCHEDULER_ENABLED"),
			CleanupInterval:    v.GetDuration("SCHEDULER_CLEANUP_INTERVAL"),
			ResetCheckInterval: v.GetDuration("SCHEDULER_RESET_CHECK_INTERVAL"),
		},
		Printer: PrinterConfig{
			Type:    v.GetString("PRINTER_TYPE"),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
			Timeout: time.Duration(v.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "hotel-ledger-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "hotel_ledger")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Request-ID,Idempotency-Key")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LEDGER_LOCK_TIMEOUT_MS", 5000)
	v.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	v.SetDefault("LEDGER_PAYMENT_REF_PREFIX", "PAY")
	v.SetDefault("LEDGER_DEFAULT_TAX_RATE", 18)
	v.SetDefault("LEDGER_DEFAULT_FACTURA_SERIES", "F001")
	v.SetDefault("LEDGER_DEFAULT_BOLETA_SERIES", "B001")
	v.SetDefault("FISCAL_BASE_URL", "")
	v.SetDefault("FISCAL_TOKEN", "")
	v.SetDefault("FISCAL_TIMEOUT_SECONDS", 15)
	v.SetDefault("FISCAL_RETRY_MAX", 3)
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_CLEANUP_INTERVAL", "24h")
	v.SetDefault("SCHEDULER_RESET_CHECK_INTERVAL", "1h")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
}

// Validate rejects settings the ledger cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.Ledger.DefaultTaxRatePct < 0 {
		return errors.New("config: LEDGER_DEFAULT_TAX_RATE must not be negative")
	}
	if len(c.Ledger.DefaultFacturaCode) != 4 || len(c.Ledger.DefaultBoletaCode) != 4 {
		return errors.New("config: default voucher series codes must be 4 characters")
	}
	if c.Scheduler.CleanupInterval <= 0 || c.Scheduler.ResetCheckInterval <= 0 {
		return errors.New("config: scheduler intervals must be positive")
	}
	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
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
