package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Optimizer Optimizer `yaml:"optimizer"`
	Logging   Logging   `yaml:"logging"`
	Explain   Explain   `yaml:"explain"`
}

type Optimizer struct {
	PredicatePushdown bool `yaml:"predicatePushdown"`
	// Strict makes optimization failures fatal instead of falling back to the unoptimized plan.
	Strict bool `yaml:"strict"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Explain struct {
	Format string `yaml:"format"`
}

const (
	ExplainText = "text"
	ExplainDot  = "dot"
)

func Default() *Config {
	return &Config{
		Optimizer: Optimizer{
			PredicatePushdown: true,
		},
		Logging: Logging{
			Level: "info",
			File:  filepath.Join(LazyplanDir(), "logs.txt"),
		},
		Explain: Explain{
			Format: ExplainText,
		},
	}
}

// LazyplanDir is the directory holding the default configuration and logs.
func LazyplanDir() string {
	dir, err := homedir.Dir()
	if err != nil {
		return ".lazyplan"
	}
	return filepath.Join(dir, ".lazyplan")
}

// Read reads the configuration from path, missing fields keep their defaults.
// An empty path means ~/.lazyplan/config.yaml, which may not exist.
func Read(path string) (*Config, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(LazyplanDir(), "config.yaml")
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't expand config path")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config, nil
		}
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}

	if config.Logging.File, err = homedir.Expand(config.Logging.File); err != nil {
		return nil, errors.Wrap(err, "couldn't expand log file path")
	}
	switch config.Explain.Format {
	case ExplainText, ExplainDot:
	default:
		return nil, errors.Errorf("invalid explain format %q, expected %s or %s", config.Explain.Format, ExplainText, ExplainDot)
	}

	return config, nil
}
