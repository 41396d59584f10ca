package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CACHE_TTL_SECONDS", "nope")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
}

func TestDSN(t *testing.T) {
	mysqlCfg := &Config{DBDriver: DriverMySQL, DBUser: "u", DBPassword: "p", DBHost: "db", DBName: "space"}
	assert.Equal(t, "u:p@tcp(db:3306)/space?charset=utf8mb4&parseTime=true", mysqlCfg.DSN())

	pgCfg := &Config{DBDriver: DriverPostgres, DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "6543", DBName: "space"}
	assert.Equal(t, "host=db user=u password=p dbname=space port=6543 sslmode=disable TimeZone=UTC", pgCfg.DSN())
}
