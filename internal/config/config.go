package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"gesso-pos/pkg/logger"
)

// Config holds all configuration for the POS backend
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      logger.Config
	Ledger   LedgerConfig
	Company  CompanyDefaults
}

type AppConfig struct {
	Name        string
	Environment string
	Port        string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// LedgerConfig tunes the sale/budget arithmetic.
type LedgerConfig struct {
	// ManualCostRatio estimates the cost of lines without a catalog match.
	ManualCostRatio    decimal.Decimal
	LowStockThreshold  int
	BudgetValidityDays int
}

// CompanyDefaults seed the company profile until one is saved.
type CompanyDefaults struct {
	Name    string
	CNPJ    string
	Email   string
	Phone   string
	Address string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "gesso-pos"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "gesso_pos"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "America/Sao_Paulo"),
		},
		Auth: AuthConfig{
			Secret:   getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTL: time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		},
		Log: logger.Config{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
		Ledger: LedgerConfig{
			ManualCostRatio:    getEnvDecimal("MANUAL_COST_RATIO", decimal.RequireFromString("0.30")),
			LowStockThreshold:  getEnvInt("LOW_STOCK_THRESHOLD", 5),
			BudgetValidityDays: getEnvInt("BUDGET_VALIDITY_DAYS", 15),
		},
		Company: CompanyDefaults{
			Name:    getEnv("COMPANY_NAME", "Gesso Nordeste"),
			CNPJ:    getEnv("COMPANY_CNPJ", ""),
			Email:   getEnv("COMPANY_EMAIL", ""),
			Phone:   getEnv("COMPANY_PHONE", ""),
			Address: getEnv("COMPANY_ADDRESS", ""),
		},
	}

	if cfg.Ledger.ManualCostRatio.IsNegative() || cfg.Ledger.ManualCostRatio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("MANUAL_COST_RATIO must be between 0 and 1, got %s", cfg.Ledger.ManualCostRatio)
	}

	return cfg, nil
}

// DSN prefers DATABASE_URL when set.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("invalid %s=%q, using %d\n", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Printf("invalid %s=%q, using %s\n", key, raw, fallback)
		return fallback
	}
	return v
}
