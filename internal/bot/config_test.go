package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("ADMIN_IDS", "100, 200,abc,300")
	t.Setenv("SESSION_MAX_IDLE_MINUTES", "30")
	t.Setenv("ENABLE_SCHEDULER", "")

	config, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test-token", config.Token)
	assert.True(t, config.IsAdmin(100))
	assert.True(t, config.IsAdmin(200))
	assert.True(t, config.IsAdmin(300))
	assert.False(t, config.IsAdmin(999))
	assert.Equal(t, 30*time.Minute, config.SessionMaxIdle)
	assert.True(t, config.SchedulerEnabled)
}

func TestConfigFromEnvWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := ConfigFromEnv()
	require.Error(t, err)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("ADMIN_IDS", "")
	t.Setenv("SESSION_MAX_IDLE_MINUTES", "")

	config, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 60*time.Minute, config.SessionMaxIdle)
	assert.Equal(t, 10, config.ResultsLimit)
	assert.False(t, config.IsAdmin(1))
}

func TestConfigSchedulerDisabled(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("ENABLE_SCHEDULER", "false")

	config, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.False(t, config.SchedulerEnabled)
}

func TestSplitCallback(t *testing.T) {
	name, arg := splitCallback("start_test:42")
	assert.Equal(t, "start_test", name)
	assert.Equal(t, "42", arg)

	name, arg = splitCallback("main_menu")
	assert.Equal(t, "main_menu", name)
	assert.Equal(t, "", arg)

	name, arg = splitCallback("answer:7_15_B")
	assert.Equal(t, "answer", name)
	assert.Equal(t, "7_15_B", arg)
}
