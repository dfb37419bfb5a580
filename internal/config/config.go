package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Quiz struct {
		HanStrategy   string `yaml:"han_strategy" env:"QUIZ_HAN_STRATEGY"`
		Validator     string `yaml:"validator" env:"QUIZ_VALIDATOR"`
		ResetDelay    string `yaml:"reset_delay" env:"QUIZ_RESET_DELAY"`
		VerifyTimeout string `yaml:"verify_timeout" env:"QUIZ_VERIFY_TIMEOUT"`
	} `yaml:"quiz"`
	Oracle struct {
		APIRoot  string `yaml:"api_root" env:"API_ROOT"`
		Timeout  string `yaml:"timeout" env:"ORACLE_TIMEOUT"`
		CacheTTL string `yaml:"cache_ttl" env:"ORACLE_CACHE_TTL"`
	} `yaml:"oracle"`
	Logger struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
		Env   string `yaml:"env" env:"APP_ENV"`
	} `yaml:"logger"`
}

const (
	ValidatorChart  = "chart"
	ValidatorTable  = "table"
	ValidatorRemote = "remote"
)

// Load reads YAML config from path, then applies environment overrides.
// A missing file is not an error; the environment alone can configure the service.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Quiz.Validator {
	case "", ValidatorChart, ValidatorTable:
	case ValidatorRemote:
		if c.Oracle.APIRoot == "" {
			return fmt.Errorf("quiz.validator %q requires oracle.api_root", ValidatorRemote)
		}
	default:
		return fmt.Errorf("unknown quiz.validator %q", c.Quiz.Validator)
	}

	durations := []struct{ name, raw string }{
		{"redis.ttl", c.Redis.TTL},
		{"quiz.reset_delay", c.Quiz.ResetDelay},
		{"quiz.verify_timeout", c.Quiz.VerifyTimeout},
		{"oracle.timeout", c.Oracle.Timeout},
		{"oracle.cache_ttl", c.Oracle.CacheTTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		if v, err := time.ParseDuration(d.raw); err != nil || v <= 0 {
			return fmt.Errorf("invalid %s %q: want a positive duration such as 3s", d.name, d.raw)
		}
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
