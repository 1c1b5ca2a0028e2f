package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("REFUND_POLICY_CACHE_TTL", "90s")
	t.Setenv("MIDTRANS_IS_PRODUCTION", "true")

	cfg := Load()

	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Second, cfg.Refund.PolicyCacheTTL)
	assert.True(t, cfg.Midtrans.IsProduction)
	assert.Len(t, cfg.Refund.ExceptionReasons, 4)
}

func TestEnvHelpersFallback(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	t.Setenv("SOME_LIST", " , ")

	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
	assert.Equal(t, []string{"x"}, getEnvAsList("SOME_LIST", []string{"x"}))
	assert.False(t, getEnvAsBool("MISSING_BOOL_KEY", false))
	assert.Equal(t, time.Minute, getEnvAsDuration("MISSING_DURATION_KEY", time.Minute))
}
