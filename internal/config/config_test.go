package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MANUAL_COST_RATIO", "0.30")
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.True(t, cfg.Ledger.ManualCostRatio.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "many")
	t.Setenv("BUDGET_VALIDITY_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Ledger.LowStockThreshold)
	assert.Equal(t, 30, cfg.Ledger.BudgetValidityDays)
}

func TestLoad_RejectsRatioOutOfRange(t *testing.T) {
	t.Setenv("MANUAL_COST_RATIO", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_PrefersURL(t *testing.T) {
	db := DatabaseConfig{URL: "postgres://u:p@db/pos", Host: "ignored"}
	assert.Equal(t, "postgres://u:p@db/pos", db.DSN())

	db.URL = ""
	db.Host, db.User, db.DBName, db.Port, db.SSLMode, db.TimeZone = "h", "u", "d", "5432", "disable", "America/Sao_Paulo"
	assert.Contains(t, db.DSN(), "TimeZone=America/Sao_Paulo")
}
