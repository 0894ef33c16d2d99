package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRootSeedName is the name used for the root schema when the caller
// supplies none (spec §4.1).
const DefaultRootSeedName = "root"

// DefaultSupportedSchemaDrafts lists the $schema URIs the core recognizes
// when input declares one explicitly (spec §4.5 step 1: currently draft-07).
var DefaultSupportedSchemaDrafts = []string{
	"http://json-schema.org/draft-07/schema#",
	"https://json-schema.org/draft-07/schema#",
}

// Config configures a Processor. Loadable from YAML, following the
// teacher's config-loading convention (internal/config.GeneratorConfig).
type Config struct {
	// RootSeedName seeds the name reflector for the root schema.
	RootSeedName string `yaml:"rootSeedName"`

	// SupportedSchemaDrafts lists the $schema URIs Process accepts. An
	// input with no $schema is always accepted.
	SupportedSchemaDrafts []string `yaml:"supportedSchemaDrafts"`

	// Strict turns simplifier merge-conflict warnings into a returned
	// ErrMergeConflict instead of a side-channel warning (spec §7).
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns the Config a Processor uses when none is supplied.
func DefaultConfig() Config {
	return Config{
		RootSeedName:          DefaultRootSeedName,
		SupportedSchemaDrafts: append([]string{}, DefaultSupportedSchemaDrafts...),
		Strict:                false,
	}
}

// LoadConfig reads a YAML config file, filling any unset field from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("pipeline: parse config %s: %w", path, err)
	}
	if cfg.RootSeedName == "" {
		cfg.RootSeedName = DefaultRootSeedName
	}
	if len(cfg.SupportedSchemaDrafts) == 0 {
		cfg.SupportedSchemaDrafts = append([]string{}, DefaultSupportedSchemaDrafts...)
	}
	return cfg, nil
}

func (c Config) supportsDraft(uri string) bool {
	for _, d := range c.SupportedSchemaDrafts {
		if d == uri {
			return true
		}
	}
	return false
}
