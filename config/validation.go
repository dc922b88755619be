package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/etnz/krona"
)

func validate(cfg *Config) error {
	var errs []error
	unit := func(key string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", key, v))
		}
	}
	unit("matching.min_confidence", cfg.Matching.MinConfidence)
	unit("matching.conflict_epsilon", cfg.Matching.ConflictEpsilon)
	unit("processing.auto_accept_threshold", cfg.Processing.AutoAcceptThreshold)
	if _, err := krona.ParseCostBasisMethod(cfg.Processing.CostBasis); err != nil {
		errs = append(errs, fmt.Errorf("processing.cost_basis: %w", err))
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel converts a log level name into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", level)
	}
	return l, nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.Log.Level)
	return l
}
