package config

import "github.com/spf13/viper"

var defaults = map[string]any{
	"matching.min_confidence":          0.6,
	"matching.conflict_epsilon":        0.05,
	"processing.auto_accept":           true,
	"processing.auto_accept_threshold": 0.95,
	"processing.cost_basis":            "average",
	"log.level":                        "info",
}

// setDefaults registers every key, which also lets AutomaticEnv find them.
func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Matching:   MatchingConfig{MinConfidence: 0.6, ConflictEpsilon: 0.05},
		Processing: ProcessingConfig{AutoAccept: true, AutoAcceptThreshold: 0.95, CostBasis: "average"},
		Log:        LogConfig{Level: "info"},
	}
}
