package clixon

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Config is the datastore configuration loaded from YAML at startup
// (SPEC_FULL.md §2.3): which YANG files/search directories build the
// YangSpec, which modules to exclude, and where each named datastore
// (running, candidate, startup, ...) keeps its backing file.
type Config struct {
	Yang struct {
		Files    []string `yaml:"files"`
		Dirs     []string `yaml:"dirs"`
		Excluded []string `yaml:"excluded"`
	} `yaml:"yang"`
	Datastores map[string]string `yaml:"datastores"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatastorePath resolves the backing-file path configured for a named
// datastore, falling back to the name itself when unconfigured.
func (c *Config) DatastorePath(name string) string {
	if c == nil {
		return name
	}
	if p, ok := c.Datastores[name]; ok {
		return p
	}
	return name
}
