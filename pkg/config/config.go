package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultListen        = ":3000"
	defaultFeedQueue     = "bus-locations"
	defaultRedisAddress  = "localhost:6379"
	defaultRedisDatabase = 0
)

type Config struct {
	Listen string     `yaml:"listen" validate:"required,hostname_port"`
	Feed   FeedConfig `yaml:"feed"`
}

// FeedConfig controls publishing of accepted fixes onto a redis backed queue
type FeedConfig struct {
	Enabled bool        `yaml:"enabled"`
	Queue   string      `yaml:"queue" validate:"required_if=Enabled true"`
	Redis   RedisConfig `yaml:"redis"`

	ChangeDetection ChangeDetectionConfig `yaml:"change_detection"`
}

// ChangeDetectionConfig drops fixes that barely differ from the last one published
type ChangeDetectionConfig struct {
	Enabled                 bool          `yaml:"enabled"`
	MinLocationChangeMeters float64       `yaml:"min_location_change_meters" validate:"gte=0"`
	MinSpeedChangeKmh       float64       `yaml:"min_speed_change_kmh" validate:"gte=0"`
	MaxTimeBetweenPublishes time.Duration `yaml:"max_time_between_publishes"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database" validate:"gte=0"`
}

func Default() Config {
	return Config{
		Listen: defaultListen,
		Feed: FeedConfig{
			Queue: defaultFeedQueue,
			Redis: RedisConfig{
				Address:  defaultRedisAddress,
				Database: defaultRedisDatabase,
			},
			ChangeDetection: ChangeDetectionConfig{
				MinLocationChangeMeters: 25.0,
				MinSpeedChangeKmh:       5.0,
				MaxTimeBetweenPublishes: 5 * time.Minute,
			},
		},
	}
}

// Load builds the configuration from the defaults, then the optional YAML file at path,
// then any BUSTRACKER_* environment variables
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := config.applyEnvironment(util.GetEnvironmentVariables()); err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	if env["BUSTRACKER_LISTEN"] != "" {
		c.Listen = env["BUSTRACKER_LISTEN"]
	}

	if env["BUSTRACKER_FEED_ENABLED"] != "" {
		c.Feed.Enabled = util.IsTruthy(env["BUSTRACKER_FEED_ENABLED"])
	}

	if env["BUSTRACKER_FEED_QUEUE"] != "" {
		c.Feed.Queue = env["BUSTRACKER_FEED_QUEUE"]
	}

	if env["BUSTRACKER_REDIS_ADDRESS"] != "" {
		c.Feed.Redis.Address = env["BUSTRACKER_REDIS_ADDRESS"]
	}

	if env["BUSTRACKER_REDIS_PASSWORD"] != "" {
		c.Feed.Redis.Password = env["BUSTRACKER_REDIS_PASSWORD"]
	}

	if env["BUSTRACKER_REDIS_DATABASE"] != "" {
		database, err := strconv.Atoi(env["BUSTRACKER_REDIS_DATABASE"])
		if err != nil {
			return fmt.Errorf("BUSTRACKER_REDIS_DATABASE: %w", err)
		}

		c.Feed.Redis.Database = database
	}

	changeDetection := &c.Feed.ChangeDetection

	if env["BUSTRACKER_FEED_CHANGE_DETECTION"] != "" {
		changeDetection.Enabled = util.IsTruthy(env["BUSTRACKER_FEED_CHANGE_DETECTION"])
	}

	if val := env["BUSTRACKER_FEED_MIN_LOCATION_CHANGE_METERS"]; val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("BUSTRACKER_FEED_MIN_LOCATION_CHANGE_METERS: %w", err)
		}

		changeDetection.MinLocationChangeMeters = parsed
	}

	if val := env["BUSTRACKER_FEED_MIN_SPEED_CHANGE_KMH"]; val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("BUSTRACKER_FEED_MIN_SPEED_CHANGE_KMH: %w", err)
		}

		changeDetection.MinSpeedChangeKmh = parsed
	}

	if val := env["BUSTRACKER_FEED_MAX_TIME_BETWEEN_PUBLISHES"]; val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("BUSTRACKER_FEED_MAX_TIME_BETWEEN_PUBLISHES: %w", err)
		}

		changeDetection.MaxTimeBetweenPublishes = parsed
	}

	return nil
}

func (c *Config) Validate() error {
	v := validator.New()

	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Feed.Enabled && c.Feed.Redis.Address == "" {
		return fmt.Errorf("feed is enabled but no redis address is configured")
	}

	if c.Feed.ChangeDetection.MaxTimeBetweenPublishes < 0 {
		return fmt.Errorf("feed max_time_between_publishes cannot be negative")
	}

	return nil
}
