package feeder

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tuning knobs for the order feeder
type Config struct {
	// Maximum orders per second fed into the engine
	RateLimit float64
	// Burst allowance for the rate limiter
	Burst int
	// StopOnError aborts the run on the first rejected command
	StopOnError bool
}

// LoadConfig loads feeder tuning from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("FEED_RATE_LIMIT", 1000.0)
	v.SetDefault("FEED_BURST", 10)
	v.SetDefault("FEED_STOP_ON_ERROR", false)

	v.AutomaticEnv()

	cfg := &Config{
		RateLimit:   v.GetFloat64("FEED_RATE_LIMIT"),
		Burst:       v.GetInt("FEED_BURST"),
		StopOnError: v.GetBool("FEED_STOP_ON_ERROR"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("FEED_RATE_LIMIT must be positive, got %f", cfg.RateLimit)
	}
	if cfg.Burst <= 0 {
		return fmt.Errorf("FEED_BURST must be positive, got %d", cfg.Burst)
	}
	return nil
}
