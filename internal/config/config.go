// Package config loads shiftsolve's runtime configuration from
// environment variables and an optional YAML file, in that precedence
// order, over built-in defaults, using viper. Command-line flags are not
// consulted.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DaysOfWeek is the canonical week ordering. Rotate returns it shifted to
// start on startDay, restoring the rotation affordance an organization's
// configured week start implies.
var DaysOfWeek = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Rotate returns DaysOfWeek rotated so startDay is first. Unknown
// startDay values return the canonical order unchanged.
func Rotate(startDay string) []string {
	for i, d := range DaysOfWeek {
		if d == startDay {
			out := make([]string, len(DaysOfWeek))
			copy(out, DaysOfWeek[i:])
			copy(out[len(DaysOfWeek)-i:], DaysOfWeek[:i])
			return out
		}
	}
	return DaysOfWeek
}

// Config is shiftsolve's full runtime configuration.
type Config struct {
	Env string `mapstructure:"env"`

	CalculationTimeoutSeconds int `mapstructure:"calculation_timeout_seconds"`
	BifurcationThreshold      int `mapstructure:"bifurcation_threshold"`
	MaxShiftLengthHours       int `mapstructure:"max_shift_length_hours"`

	TaskingFetchIntervalSeconds int  `mapstructure:"tasking_fetch_interval_seconds"`
	KillOnError                 bool `mapstructure:"kill_on_error"`
	KillDelaySeconds            int  `mapstructure:"kill_delay_seconds"`

	CacheBackend string `mapstructure:"cache_backend"`
	RedisAddr    string `mapstructure:"redis_addr"`

	HTTPListenAddr string `mapstructure:"http_listen_addr"`
	LogLevel       string `mapstructure:"log_level"`

	MinLength int `mapstructure:"min_length"`
	MaxLength int `mapstructure:"max_length"`

	WindowWorkers int `mapstructure:"window_workers"`
}

// CalculationTimeout returns CalculationTimeoutSeconds as a time.Duration.
func (c Config) CalculationTimeout() time.Duration {
	return time.Duration(c.CalculationTimeoutSeconds) * time.Second
}

// Load populates a Config with defaults for env, then overrides from
// environment variables prefixed SHIFTSOLVE_ (e.g. SHIFTSOLVE_REDIS_ADDR
// sets redis_addr) and an optional shiftsolve.yaml in the working
// directory. Mirrors the precedence and env-var-flattening approach the
// rest of the pack uses for exactly this. No cobra command binds a flag
// to any of these settings.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("shiftsolve")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v, env)

	v.SetEnvPrefix("SHIFTSOLVE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading shiftsolve.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("env", env)

	timeout := 600
	fetchInterval := 20
	killOnError := true
	if env != "production" {
		timeout = 300
		fetchInterval = 5
		killOnError = false
	}

	v.SetDefault("calculation_timeout_seconds", timeout)
	v.SetDefault("bifurcation_threshold", 100)
	v.SetDefault("max_shift_length_hours", 23)
	v.SetDefault("tasking_fetch_interval_seconds", fetchInterval)
	v.SetDefault("kill_on_error", killOnError)
	v.SetDefault("kill_delay_seconds", 60)
	v.SetDefault("cache_backend", "memory")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("http_listen_addr", ":8099")
	v.SetDefault("log_level", "info")
	v.SetDefault("min_length", 4)
	v.SetDefault("max_length", 10)
	v.SetDefault("window_workers", 4)
}

// Validate checks the invariants a Decompose/Splitter call requires
// before it ever reaches the core, matching the teacher's pattern of
// validating a Model before search begins rather than deep in the hot
// loop.
func (c Config) Validate() error {
	if c.MinLength <= 0 || c.MaxLength <= 0 {
		return fmt.Errorf("config: min_length and max_length must be positive (got %d, %d)", c.MinLength, c.MaxLength)
	}
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("config: min_length (%d) must not exceed max_length (%d)", c.MinLength, c.MaxLength)
	}
	if c.CalculationTimeoutSeconds <= 0 {
		return fmt.Errorf("config: calculation_timeout_seconds must be positive (got %d)", c.CalculationTimeoutSeconds)
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "redis" {
		return fmt.Errorf("config: cache_backend must be \"memory\" or \"redis\" (got %q)", c.CacheBackend)
	}
	if c.WindowWorkers <= 0 {
		return fmt.Errorf("config: window_workers must be positive (got %d)", c.WindowWorkers)
	}
	return nil
}
