package clickhouse

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := defaultClientConfig()
	for _, opt := range []ClientOption{
		WithHost("ch.local"),
		WithPort(9440),
		WithDatabase("stockhub"),
		WithCredentials("svc", "p@ss"),
		WithMaxExecutionTime(90 * time.Second),
	} {
		opt(cfg)
	}

	u, err := url.Parse(BuildDSN(*cfg))
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "ch.local:9440", u.Host)
	assert.Equal(t, "/stockhub", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "90", u.Query().Get("max_execution_time"))
	assert.Equal(t, "5s", u.Query().Get("dial_timeout"))
}

func TestBuildDSNHTTP(t *testing.T) {
	cfg := defaultClientConfig()
	WithHost("h")(cfg)
	WithHTTP(true)(cfg)
	assert.True(t, strings.HasPrefix(BuildDSN(*cfg), "http://"))
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient()
	assert.Error(t, err)
}

func TestCandleSchema(t *testing.T) {
	stmts := CandleSchema("stockhub", "daily_candles")
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE DATABASE IF NOT EXISTS stockhub")
	assert.Contains(t, stmts[1], "stockhub.daily_candles")
	assert.Contains(t, stmts[1], "ORDER BY (symbol, day)")
}
