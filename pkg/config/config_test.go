package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-stock/pkg/config"
)

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("NOTIFIER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_DB", "no-numero")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.Equal(t, config.NotifierKafka, cfg.Notifier.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notifier.Kafka.Brokers)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 0, cfg.Notifier.Redis.DB, "valor inválido cae al default")
	assert.Equal(t, 100, cfg.Notifier.Kafka.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.Notifier.Kafka.BatchTimeout)
}

func TestLoad_LoteDeKafkaConfigurable(t *testing.T) {
	t.Setenv("NOTIFIER", "kafka")
	t.Setenv("KAFKA_BATCH_SIZE", "1")
	t.Setenv("KAFKA_BATCH_TIMEOUT_MS", "250")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Notifier.Kafka.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Notifier.Kafka.BatchTimeout)
}

func TestLoad_RechazaDriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ferreteria", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ferreteria?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
