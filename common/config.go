package common

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxOpenHandles    = 64
	DefaultEqualityReduction = 10
	DefaultRangeReduction    = 3
	DefaultMaxCNFClauses     = 256
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Planner PlannerConfig `yaml:"planner"`
	Log     LogConfig     `yaml:"log"`
	Repl    ReplConfig    `yaml:"repl"`
}

type StorageConfig struct {
	// Dir is the data directory. Empty keeps everything in memory.
	Dir            string `yaml:"dir"`
	MaxOpenHandles int    `yaml:"max_open_handles"`
}

type PlannerConfig struct {
	EqualityReduction float64 `yaml:"equality_reduction"`
	RangeReduction    float64 `yaml:"range_reduction"`
	MaxCNFClauses     int     `yaml:"max_cnf_clauses"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error or off.
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type ReplConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			MaxOpenHandles: DefaultMaxOpenHandles,
		},
		Planner: PlannerConfig{
			EqualityReduction: DefaultEqualityReduction,
			RangeReduction:    DefaultRangeReduction,
			MaxCNFClauses:     DefaultMaxCNFClauses,
		},
		Log: LogConfig{
			Level: "info",
		},
		Repl: ReplConfig{
			Prompt: "tsumiki > ",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Storage.MaxOpenHandles <= 0 {
		return errors.Newf("storage.max_open_handles must be positive. got: %d", c.Storage.MaxOpenHandles)
	}
	if c.Planner.EqualityReduction < 1 || c.Planner.RangeReduction < 1 {
		return errors.New("planner reduction factors must be >= 1")
	}
	if c.Planner.MaxCNFClauses <= 0 {
		return errors.Newf("planner.max_cnf_clauses must be positive. got: %d", c.Planner.MaxCNFClauses)
	}
	return nil
}
