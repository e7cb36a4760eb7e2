package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys.
const (
	keyLogging   = "logging"
	keySource    = "source"
	keyCache     = "cache"
	keySession   = "session"
	keyAnalytics = "analytics"
	keyUI        = "ui"
)

// ShallowMergeYAML loads a YAML file and merges its top-level sections onto
// target. A section present in the file is decoded over the target's current
// values, so keys the file omits keep their defaults. Unknown sections are
// ignored.
func ShallowMergeYAML(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", path, err)
	}

	for key, node := range overlay {
		section := sectionFor(target, key)
		if section == nil {
			continue
		}
		if err = node.Decode(section); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}
	return nil
}

func sectionFor(c *Config, key string) any {
	switch key {
	case keyLogging:
		return &c.Logging
	case keySource:
		return &c.Source
	case keyCache:
		return &c.Cache
	case keySession:
		return &c.Session
	case keyAnalytics:
		return &c.Analytics
	case keyUI:
		return &c.UI
	default:
		return nil
	}
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
