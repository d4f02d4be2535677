package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Targets holds the daily production targets reports compare against.
type Targets struct {
	Ore   int `mapstructure:"meta_minerio"`
	Waste int `mapstructure:"meta_esteril"`
}

// DefaultTargets are used for any key missing from the targets file.
var DefaultTargets = Targets{Ore: 5500, Waste: 23000}

// LoadTargets reads production targets from a JSON file and merges them over
// the defaults. A missing or malformed file is an error; callers that can run
// without targets should fall back to DefaultTargets themselves.
func LoadTargets(path string) (Targets, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("meta_minerio", DefaultTargets.Ore)
	v.SetDefault("meta_esteril", DefaultTargets.Waste)

	if err := v.ReadInConfig(); err != nil {
		return Targets{}, fmt.Errorf("read targets %s: %w", path, err)
	}
	var t Targets
	if err := v.Unmarshal(&t); err != nil {
		return Targets{}, fmt.Errorf("unmarshal targets %s: %w", path, err)
	}
	return t, nil
}
