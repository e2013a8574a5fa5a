package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "bustracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), config)
	assert.Equal(t, ":3000", config.Listen)
	assert.False(t, config.Feed.Enabled)
	assert.NoError(t, config.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `listen: "127.0.0.1:8080"
feed:
  enabled: true
  queue: "fixes"
  redis:
    address: "redis:6379"
    database: 2
  change_detection:
    enabled: true
    min_location_change_meters: 50
    max_time_between_publishes: 2m
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Listen: "127.0.0.1:8080",
		Feed: FeedConfig{
			Enabled: true,
			Queue:   "fixes",
			Redis: RedisConfig{
				Address:  "redis:6379",
				Database: 2,
			},
			ChangeDetection: ChangeDetectionConfig{
				Enabled:                 true,
				MinLocationChangeMeters: 50,
				MinSpeedChangeKmh:       5,
				MaxTimeBetweenPublishes: 2 * time.Minute,
			},
		},
	}, config)
	assert.NoError(t, config.Validate())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `listen: ":9000"`)

	t.Setenv("BUSTRACKER_LISTEN", ":9100")
	t.Setenv("BUSTRACKER_FEED_ENABLED", "YES")
	t.Setenv("BUSTRACKER_REDIS_ADDRESS", "cache:6380")
	t.Setenv("BUSTRACKER_REDIS_PASSWORD", "secret")
	t.Setenv("BUSTRACKER_REDIS_DATABASE", "4")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", config.Listen)
	assert.True(t, config.Feed.Enabled)
	assert.Equal(t, "bus-locations", config.Feed.Queue)
	assert.Equal(t, RedisConfig{Address: "cache:6380", Password: "secret", Database: 4}, config.Feed.Redis)
}

func TestLoadChangeDetectionEnvironment(t *testing.T) {
	t.Setenv("BUSTRACKER_FEED_CHANGE_DETECTION", "yes")
	t.Setenv("BUSTRACKER_FEED_MIN_LOCATION_CHANGE_METERS", "10.5")
	t.Setenv("BUSTRACKER_FEED_MIN_SPEED_CHANGE_KMH", "7.5")
	t.Setenv("BUSTRACKER_FEED_MAX_TIME_BETWEEN_PUBLISHES", "30s")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ChangeDetectionConfig{
		Enabled:                 true,
		MinLocationChangeMeters: 10.5,
		MinSpeedChangeKmh:       7.5,
		MaxTimeBetweenPublishes: 30 * time.Second,
	}, config.Feed.ChangeDetection)
}

func TestLoadBadEnvironmentValues(t *testing.T) {
	tests := []struct {
		variable string
		value    string
	}{
		{variable: "BUSTRACKER_REDIS_DATABASE", value: "zero"},
		{variable: "BUSTRACKER_FEED_MIN_LOCATION_CHANGE_METERS", value: "far"},
		{variable: "BUSTRACKER_FEED_MIN_SPEED_CHANGE_KMH", value: "fast"},
		{variable: "BUSTRACKER_FEED_MAX_TIME_BETWEEN_PUBLISHES", value: "5 minutes"},
	}

	for _, test := range tests {
		t.Run(test.variable, func(t *testing.T) {
			t.Setenv(test.variable, test.value)

			_, err := Load("")
			assert.ErrorContains(t, err, test.variable)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	config := Default()
	config.Listen = "not an address"
	assert.Error(t, config.Validate())

	config = Default()
	config.Feed.Enabled = true
	config.Feed.Queue = ""
	assert.Error(t, config.Validate())

	config = Default()
	config.Feed.Enabled = true
	config.Feed.Redis.Address = ""
	assert.Error(t, config.Validate())

	config = Default()
	config.Feed.Redis.Database = -1
	assert.Error(t, config.Validate())

	config = Default()
	config.Feed.ChangeDetection.MinLocationChangeMeters = -1
	assert.Error(t, config.Validate())
}
