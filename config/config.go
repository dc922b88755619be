// Package config loads the krona settings from an optional YAML file and
// KRONA_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/etnz/krona"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding config keys, e.g.
// KRONA_MATCHING_MIN_CONFIDENCE for matching.min_confidence.
const EnvPrefix = "KRONA"

type Config struct {
	Matching   MatchingConfig   `mapstructure:"matching"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Log        LogConfig        `mapstructure:"log"`
}

type MatchingConfig struct {
	MinConfidence   float64 `mapstructure:"min_confidence"`
	ConflictEpsilon float64 `mapstructure:"conflict_epsilon"`
}

type ProcessingConfig struct {
	AutoAccept          bool    `mapstructure:"auto_accept"`
	AutoAcceptThreshold float64 `mapstructure:"auto_accept_threshold"`
	CostBasis           string  `mapstructure:"cost_basis"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the config file at path on top of the defaults. An empty path
// or a missing file only applies the defaults and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.ErrorUnused = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.Processing.CostBasis = strings.ToLower(strings.TrimSpace(cfg.Processing.CostBasis))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MatchingOptions returns the strategy options.
func (c *Config) MatchingOptions() krona.MatchingOptions {
	return krona.MatchingOptions{
		MinConfidence:   c.Matching.MinConfidence,
		ConflictEpsilon: c.Matching.ConflictEpsilon,
	}
}

// ProcessorOptions returns the processor options, without logger.
func (c *Config) ProcessorOptions() krona.ProcessorOptions {
	// validated by Load.
	method, _ := krona.ParseCostBasisMethod(c.Processing.CostBasis)
	return krona.ProcessorOptions{
		AutoAccept:          c.Processing.AutoAccept,
		AutoAcceptThreshold: c.Processing.AutoAcceptThreshold,
		CostBasis:           method,
	}
}
