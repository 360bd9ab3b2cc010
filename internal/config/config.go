// Package config is the configuration of the wt-summariser binary.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	"wt-summariser/internal/cache"
	"wt-summariser/internal/components/configutil"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/generation"
	"wt-summariser/internal/scrapers/wol"
)

const DefaultFile = "config.json5"

type WolConfig struct {
	BaseURL           string   `json:"base_url"`
	MeetingPath       string   `json:"meeting_path"`
	UserAgents        []string `json:"user_agents"`
	TimeoutSeconds    int      `json:"timeout_seconds"`
	// RequestsPerSecond is a pointer so an explicit 0 (no limit) survives defaults.
	RequestsPerSecond *float64 `json:"rate_limit"`
	DumpDir           string   `json:"dump_dir"`
}

func (c WolConfig) Options() wol.Options {
	return wol.Options{
		BaseURL:           c.BaseURL,
		MeetingPath:       c.MeetingPath,
		UserAgents:        c.UserAgents,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: deref(c.RequestsPerSecond),
		DumpDir:           c.DumpDir,
	}
}

type GenerationConfig struct {
	// APIKey is normally provided through ANTHROPIC_API_KEY.
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	MaxTokens   int    `json:"max_tokens"`
	// MaxRetries is a pointer so an explicit 0 survives defaults.
	MaxRetries  *int   `json:"max_retries"`
	Concurrency int    `json:"concurrency"`
}

func (c GenerationConfig) Options() generation.AnthropicOptions {
	return generation.AnthropicOptions{
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Model:      c.Model,
		MaxTokens:  c.MaxTokens,
		MaxRetries: deref(c.MaxRetries),
	}
}

type ScheduleConfig struct {
	// Cron is a standard 5 field cron spec evaluated in Timezone.
	Cron string `json:"cron"`
}

type Config struct {
	// Timezone is an IANA name, empty means the machine's local zone.
	Timezone   string           `json:"timezone"`
	Wol        WolConfig        `json:"wol"`
	Generation GenerationConfig `json:"generation"`
	Cache      cache.Config     `json:"cache"`
	Telemetry  telemetry.Config `json:"telemetry"`
	Schedule   ScheduleConfig   `json:"schedule"`
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func Default() Config {
	return Config{
		Wol: WolConfig{
			BaseURL:     "https://wol.jw.org",
			MeetingPath: "/en/wol/meetings/r1/lp-e/",
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			},
			TimeoutSeconds:    30,
			RequestsPerSecond: ptr(2.0),
		},
		Generation: GenerationConfig{
			BaseURL:    generation.DefaultBaseURL,
			Model:      generation.DefaultModel,
			MaxTokens:  generation.DefaultMaxTokens,
			MaxRetries: ptr(2),
		},
		Cache: cache.Config{
			Backend: cache.BackendRedis,
			Redis: cache.RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
			SQLite: cache.SQLiteConfig{
				File: "data/cache.db",
			},
		},
		Schedule: ScheduleConfig{
			Cron: "0 6 * * 1",
		},
	}
}

// Load reads the config file (and its .local override) if it exists, fills
// the remaining fields with defaults and applies environment overrides. An
// empty name looks for config.json5 from the working directory upwards.
func Load(name string) (Config, error) {
	var cfg Config
	var err error
	if name == "" {
		cfg, err = configutil.ReadRecursively[Config](DefaultFile)
	} else {
		cfg, err = configutil.ReadConfig[Config](name)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err != nil && name != "" {
		return Config{}, fmt.Errorf("read config %s: %w", name, err)
	}

	err = configutil.WithDefaults(&cfg, Default())
	if err != nil {
		return Config{}, err
	}
	err = cfg.applyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ANTHROPIC_API_KEY"); ok && v != "" {
		c.Generation.APIKey = v
	}
	if v, ok := lookup("REDIS_HOST"); ok && v != "" {
		c.Cache.Redis.Host = v
	}
	if v, ok := lookup("REDIS_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT %q: %w", v, err)
		}
		c.Cache.Redis.Port = port
	}
	if v, ok := lookup("REDIS_PASSWORD"); ok && v != "" {
		c.Cache.Redis.Password = v
	}
	if v, ok := lookup("CACHE_BACKEND"); ok && v != "" {
		c.Cache.Backend = v
	}
	if v, ok := lookup("TZ_NAME"); ok && v != "" {
		c.Timezone = v
	}
	return nil
}

// Validate checks the fields a run cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.Generation.APIKey == "" {
		errs = append(errs, errors.New("generation api key is not set (ANTHROPIC_API_KEY)"))
	}
	if c.Wol.BaseURL == "" {
		errs = append(errs, errors.New("wol.base_url is empty"))
	}
	if c.Generation.Concurrency < 0 {
		errs = append(errs, errors.New("generation.concurrency must not be negative"))
	}
	return errors.Join(errs...)
}
