package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, CommissionRate, cfg.CommissionPolicy)
	assert.Equal(t, "0.2", cfg.CommissionRate.String())
	assert.Equal(t, 3, cfg.OrderMaxAttempts)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Second, cfg.OrderRateWindow)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COMMISSION_POLICY", "FULL")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("WALLET_LOCK_TTL_MS", "1500")
	t.Setenv("EVENTS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CommissionFull, cfg.CommissionPolicy)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1500*time.Millisecond, cfg.WalletLockTTL)
	assert.False(t, cfg.EventsEnabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string][2]string{
		"unknown driver":  {"DB_DRIVER", "postgres"},
		"mysql no dsn":    {"DB_DRIVER", "mysql"},
		"bad rate":        {"COMMISSION_RATE", "1.5"},
		"zero rate":       {"COMMISSION_RATE", "0"},
		"not a number":    {"ORDER_RATE_LIMIT", "many"},
		"unknown policy":  {"COMMISSION_POLICY", "half"},
		"zero attempts":   {"ORDER_MAX_ATTEMPTS", "0"},
		"bad events flag": {"EVENTS_ENABLED", "maybe"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
