package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-workers/internal/common/config"
)

func TestNewRedis(t *testing.T) {
	t.Run("empty address disables cache", func(t *testing.T) {
		var c *RedisClient = NewRedis(config.RedisConfig{})
		assert.Nil(t, c)
		assert.Nil(t, c.GetClient())
	})

	t.Run("ping against miniredis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c := NewRedis(config.RedisConfig{Address: mr.Addr()})
		require.NotNil(t, c)
		defer c.Close()
		assert.NoError(t, c.Ping(context.Background()))
	})
}

func TestNewPostgres_LazyOpen(t *testing.T) {
	c, err := NewPostgres(config.PostgresConfig{Host: "localhost", Port: 5432, User: "u", Database: "d", SSLMode: "disable", MaxConnections: 2, MaxIdle: 1})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
