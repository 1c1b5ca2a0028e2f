package refund

import (
	"context"
	"testing"
	"time"

	"matchtrip-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidatorWithoutRedisClearsLocalCache(t *testing.T) {
	loader := &stubLoader{bands: DefaultBands()}
	p := NewProvider(loader, time.Minute, logger.NewNopLogger())

	inv := NewInvalidator(nil, p, logger.NewNopLogger())
	_, isRedis := inv.(*RedisInvalidator)
	assert.False(t, isRedis)

	p.Policy(context.Background(), RoleTraveler)
	require.NoError(t, inv.Invalidate(context.Background()))
	p.Policy(context.Background(), RoleTraveler)
	assert.Equal(t, 2, loader.calls)
}

func TestNewInvalidatorWithRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { rdb.Close() })

	inv := NewInvalidator(rdb, NewProvider(nil, 0, logger.NewNopLogger()), logger.NewNopLogger())
	_, isRedis := inv.(*RedisInvalidator)
	assert.True(t, isRedis)
}
