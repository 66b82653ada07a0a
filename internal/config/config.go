package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SANDBOX_"

//go:embed config.default.yaml
var defaultConfigYAML []byte

type Config struct {
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR"`
	LogFile  string `yaml:"log_file" env:"LOG_FILE"`

	History   History   `yaml:"history" envPrefix:"HISTORY_"`
	Scenarios Scenarios `yaml:"scenarios" envPrefix:"SCENARIOS_"`
	Retry     Retry     `yaml:"retry" envPrefix:"RETRY_"`
	Schedule  Schedule  `yaml:"schedule" envPrefix:"SCHEDULE_"`
}

type History struct {
	SignalSize int `yaml:"signal_size" env:"SIGNAL_SIZE"`
	LogSize    int `yaml:"log_size" env:"LOG_SIZE"`
}

type Scenarios struct {
	// TimeUnit spaces the emissions of the time-based scenarios.
	TimeUnit  time.Duration `yaml:"time_unit" env:"TIME_UNIT"`
	RaceDelay time.Duration `yaml:"race_delay" env:"RACE_DELAY"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type Retry struct {
	InitialInterval time.Duration `yaml:"initial_interval" env:"INITIAL_INTERVAL"`
	MaxRetries      int           `yaml:"max_retries" env:"MAX_RETRIES"`
}

type Schedule struct {
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
}

func (c *Config) validate() error {
	var errs []error
	if c.History.SignalSize <= 0 || c.History.LogSize <= 0 {
		errs = append(errs, errors.New("history sizes must be positive"))
	}
	if c.Scenarios.TimeUnit <= 0 {
		errs = append(errs, errors.New("scenarios.time_unit must be positive"))
	}
	if c.Scenarios.RaceDelay < c.Scenarios.TimeUnit {
		errs = append(errs, errors.New("scenarios.race_delay must not be shorter than scenarios.time_unit"))
	}
	if c.Scenarios.Timeout <= 0 {
		errs = append(errs, errors.New("scenarios.timeout must be positive"))
	}
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("retry.max_retries must not be negative"))
	}
	return errors.Join(errs...)
}

func DefaultConfig() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		panic(fmt.Errorf("failed to load default config: %w", err))
	}
	return &cfg
}

// LoadConfig decodes file (when not empty) over the defaults and then applies
// SANDBOX_* environment overrides.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
