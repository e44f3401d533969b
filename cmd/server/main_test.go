package main

import (
	"testing"

	"bankoffice/internal/config"
	"bankoffice/internal/notify"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSenderRequiresRedisOutsideDevelopment(t *testing.T) {
	for _, env := range []string{"production", "staging", ""} {
		sender, client, err := newSender(config.Config{AppEnv: env}, zerolog.Nop())
		assert.ErrorIs(t, err, errRedisRequired, env)
		assert.Nil(t, sender, env)
		assert.Nil(t, client, env)
	}
}

func TestNewSenderLogsTokensInDevelopment(t *testing.T) {
	sender, client, err := newSender(config.Config{AppEnv: "development"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, notify.LogSender{}, sender)
}

func TestNewSenderUsesRedisWhenConfigured(t *testing.T) {
	sender, client, err := newSender(config.Config{AppEnv: "production", RedisURL: "redis://localhost:6379/0", NotifyQueue: "q"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.IsType(t, &notify.RedisSender{}, sender)
}
