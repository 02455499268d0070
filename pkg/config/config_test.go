package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: test
price_source:
  type: clickhouse
forecast:
  epochs: 3
  residual_head: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "clickhouse", cfg.PriceSource.Type)
	assert.Equal(t, "daily_candles", cfg.ClickHouse.Table)

	assert.Equal(t, 3, cfg.Forecast.Epochs)
	assert.Equal(t, 60, cfg.Forecast.LookbackLength)
	assert.Equal(t, 0.95, cfg.Forecast.TrainFraction)
	assert.Equal(t, 7, cfg.Forecast.Horizon)
	assert.False(t, cfg.Forecast.ResidualHead)
	assert.Equal(t, 5*time.Minute, cfg.Forecast.TrainTimeout)

	assert.Equal(t, "0 0 22 * * 1-5", cfg.Scheduler.Spec)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "JPM", "JNJ", "NVDA", "V", "NFLX"}, cfg.Watchlist)
}

func TestLoadSampleConfig(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "sample-key")
	cfg, err := LoadWithEnv(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sample-key", cfg.Finnhub.APIKey)
	assert.Equal(t, "finnhub", cfg.PriceSource.Type)
	assert.Len(t, cfg.Watchlist, 10)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"finnhub without key": `
price_source:
  type: finnhub
`,
		"unknown source": `
price_source:
  type: csv
`,
		"bad train fraction": `
price_source:
  type: clickhouse
forecast:
  train_fraction: 1.5
`,
		"kafka without brokers": `
price_source:
  type: clickhouse
kafka:
  enabled: true
  brokers: []
`,
		"empty watchlist": `
price_source:
  type: clickhouse
watchlist: []
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
price_source:
  type: clickhouse
`)
	t.Setenv("PRICE_SOURCE", "finnhub")
	t.Setenv("FINNHUB_API_KEY", "k")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("REDIS_ADDR", "cache.internal:6380")
	t.Setenv("WATCHLIST", "AAPL,NVDA")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "finnhub", cfg.PriceSource.Type)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Cache.Redis.Enabled)
	assert.Equal(t, "cache.internal", cfg.Cache.Redis.Host)
	assert.Equal(t, 6380, cfg.Cache.Redis.Port)
	assert.Equal(t, []string{"AAPL", "NVDA"}, cfg.Watchlist)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
