// Package config loads planora settings from defaults, an optional YAML
// file and PLANORA_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planora/internal/llm"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUserID        = "local"
	DefaultDraftTTL      = 24 * time.Hour
	DefaultPurgeSchedule = "@hourly"
)

type Config struct {
	DBPath        string        `yaml:"db_path"`
	UserID        string        `yaml:"user_id"`
	DraftTTL      time.Duration `yaml:"draft_ttl"`
	PurgeSchedule string        `yaml:"purge_schedule"`
	LogCalls      bool          `yaml:"log_calls"`
	LLM           llm.LLMConfig `yaml:"llm"`
}

// Default returns the configuration used when nothing is set.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		DBPath:        filepath.Join(dir, "planora.db"),
		UserID:        DefaultUserID,
		DraftTTL:      DefaultDraftTTL,
		PurgeSchedule: DefaultPurgeSchedule,
		LLM:           llm.DefaultConfig(),
	}, nil
}

// Dir is the planora home directory, ~/.planora.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".planora"), nil
}

// Path returns the config file location: PLANORA_CONFIG when set, otherwise
// ~/.planora/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("PLANORA_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error. An empty path means Path().
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	llm.ApplyEnv(&cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PLANORA_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PLANORA_USER"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("PLANORA_DRAFT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PLANORA_DRAFT_TTL: %w", err)
		}
		c.DraftTTL = d
	}
	if v := os.Getenv("PLANORA_PURGE_SCHEDULE"); v != "" {
		c.PurgeSchedule = v
	}
	if v := os.Getenv("PLANORA_LOG_CALLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PLANORA_LOG_CALLS: %w", err)
		}
		c.LogCalls = b
	}
	return nil
}

// Validate rejects settings the rest of the program cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id must not be empty")
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("draft_ttl must be positive, got %s", c.DraftTTL)
	}
	if _, err := cron.ParseStandard(c.PurgeSchedule); err != nil {
		return fmt.Errorf("purge_schedule %q: %w", c.PurgeSchedule, err)
	}
	switch c.LLM.Provider {
	case llm.ProviderOllama, llm.ProviderGemini:
	default:
		return fmt.Errorf("llm provider %q is not supported", c.LLM.Provider)
	}
	return nil
}
