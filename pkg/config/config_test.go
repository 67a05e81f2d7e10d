package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.True(t, cfg.Sales.TaxRate.Equal(decimal.RequireFromString("0.19")))
	assert.True(t, cfg.Alerts.LowStockThreshold.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 7, cfg.Alerts.ExpiryDays)
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, 15*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("SALES_TAX_RATE", "0.16")
	v.Set("ALERT_LOW_STOCK_THRESHOLD", "2.5")
	v.Set("DB_PORT", "6543")
	v.Set("DB_PASSWORD", "p@ss:word")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.True(t, cfg.Sales.TaxRate.Equal(decimal.RequireFromString("0.16")))
	assert.True(t, cfg.Alerts.LowStockThreshold.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword@localhost:6543")
}

func TestFromViper_TasaInvalida(t *testing.T) {
	v := viper.New()
	v.Set("SALES_TAX_RATE", "abc")
	_, err := config.FromViper(v)
	assert.Error(t, err)

	v.Set("SALES_TAX_RATE", "1.5")
	_, err = config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionStringPrefiereURL(t *testing.T) {
	c := config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/x", Host: "localhost"}
	assert.Equal(t, "postgres://u:p@db:5432/x", c.ConnectionString())
}
