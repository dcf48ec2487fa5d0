package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad(t *testing.T) {
	t.Run("defaults to in-memory storage", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", testSecret)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, StorageMemory, cfg.Storage.Type)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 2*time.Second, cfg.Simulation.PaymentDelay)
		assert.False(t, cfg.Usage.RecordSuggestions)
		assert.Equal(t, 24*7, cfg.JWT.AccessExpiryHours)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", testSecret)
		t.Setenv("STORAGE_TYPE", StorageSQLite)
		t.Setenv("STORAGE_PATH", "/tmp/qupid.db")
		t.Setenv("USAGE_TIMEZONE", "Europe/Berlin")
		t.Setenv("USAGE_RECORD_SUGGESTIONS", "true")
		t.Setenv("PAYMENT_DELAY", "0s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, StorageSQLite, cfg.Storage.Type)
		assert.Equal(t, "/tmp/qupid.db", cfg.Storage.Path)
		assert.True(t, cfg.Usage.RecordSuggestions)
		assert.Zero(t, cfg.Simulation.PaymentDelay)

		loc, err := cfg.Usage.Location()
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", loc.String())
	})

	t.Run("missing secret fails", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:     JWTConfig{AccessSecret: testSecret},
			Storage: StorageConfig{Type: StorageMemory},
		}
	}

	t.Run("valid memory config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.AccessSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown storage", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Type = "etcd"
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres requires database settings", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Type = StoragePostgres
		assert.Error(t, cfg.Validate())

		cfg.Database = DatabaseConfig{Host: "localhost", User: "qupid", DBName: "qupid"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("redis requires a host", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Type = StorageRedis
		assert.Error(t, cfg.Validate())

		cfg.Redis.Host = "localhost"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad timezone", func(t *testing.T) {
		cfg := valid()
		cfg.Usage.Timezone = "Mars/Olympus_Mons"
		assert.Error(t, cfg.Validate())
	})
}

func TestDSNAndAddr(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "qupid", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=qupid sslmode=disable", db.GetDSN())

	r := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.GetAddr())
}
