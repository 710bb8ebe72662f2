package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(configFileEnvName, path)
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv(configFileEnvName, "")

		cfg := Load()

		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.Equal(t, DriverLevelDB, cfg.Storage.Driver)
		assert.Equal(t, "customTee", cfg.Storage.Namespace)
		assert.Equal(t, 3, cfg.Storage.SaveAttempts)
		assert.Equal(t, 2*time.Second, cfg.Checkout.Latency)
		assert.Equal(t, 800*time.Millisecond, cfg.Customizer.AddDelay)
		assert.Equal(t, 1500*time.Millisecond, cfg.Contact.SendDelay)
		assert.Equal(t, 10*time.Second, cfg.HTTPHandlerTimeout)
		assert.Equal(t, 50, cfg.History.CustomizationsCap)
		assert.False(t, cfg.Broker.Enabled)
	})

	t.Run("File", func(t *testing.T) {
		writeConfig(t, `
log_level: debug
http_server_addr: 0.0.0.0:9000
storage:
  driver: memory
  save_attempts: 5
checkout:
  latency: 250ms
  fail_every: 3
broker:
  enabled: true
  seed_brokers: [kafka-1:9092, kafka-2:9092]
  topics:
    orders: orders-v1
`)

		cfg := Load()

		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, "0.0.0.0:9000", cfg.HTTPServerAddr)
		assert.Equal(t, DriverMemory, cfg.Storage.Driver)
		assert.Equal(t, 5, cfg.Storage.SaveAttempts)
		assert.Equal(t, 250*time.Millisecond, cfg.Checkout.Latency)
		assert.Equal(t, 3, cfg.Checkout.FailEvery)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Broker.SeedBrokers)
		assert.Equal(t, "orders-v1", cfg.Broker.Topics.Orders)
		assert.Equal(t, "teeshop-subscribers", cfg.Broker.Topics.Subscribers)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		writeConfig(t, "storage:\n  driver: memory\n")
		t.Setenv("TEESHOP_HTTP_SERVER_ADDR", "127.0.0.1:7000")
		t.Setenv("TEESHOP_HISTORY_ORDERS_CAP", "7")

		cfg := Load()

		assert.Equal(t, "127.0.0.1:7000", cfg.HTTPServerAddr)
		assert.Equal(t, 7, cfg.History.OrdersCap)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTPHandlerTimeout: 10 * time.Second,
		Storage:            storage{Driver: DriverMemory, SaveAttempts: 1},
		Checkout:           checkout{Latency: 2 * time.Second},
		Customizer:         customizer{AddDelay: 800 * time.Millisecond},
		Contact:            contact{SendDelay: 1500 * time.Millisecond},
		Images:             images{Quality: 80},
	}
	require.NoError(t, valid.validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"UnknownDriver", func(c *Config) { c.Storage.Driver = "redis" }},
		{"LevelDBWithoutPath", func(c *Config) { c.Storage.Driver = DriverLevelDB }},
		{"PostgresWithoutDSN", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"NoSaveAttempts", func(c *Config) { c.Storage.SaveAttempts = 0 }},
		{"BadQuality", func(c *Config) { c.Images.Quality = 101 }},
		{"BrokerWithoutSeeds", func(c *Config) { c.Broker.Enabled = true }},
		{"NoHandlerTimeout", func(c *Config) { c.HTTPHandlerTimeout = 0 }},
		{"LatencyReachesHandlerTimeout", func(c *Config) {
			c.Checkout.Latency = c.HTTPHandlerTimeout
		}},
		{"AddDelayOverHandlerTimeout", func(c *Config) {
			c.Customizer.AddDelay = time.Minute
		}},
		{"SendDelayOverHandlerTimeout", func(c *Config) {
			c.Contact.SendDelay = 11 * time.Second
		}},
		{"NegativeLatency", func(c *Config) { c.Checkout.Latency = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.validate())
		})
	}

	t.Run("LatencyJustUnderHandlerTimeout", func(t *testing.T) {
		c := valid
		c.Checkout.Latency = c.HTTPHandlerTimeout - time.Millisecond
		assert.NoError(t, c.validate())
	})
}
