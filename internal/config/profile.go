package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named, version-controllable tuning preset, loaded from YAML
// so a host can check in e.g. profiles/high-recall.yaml instead of
// reconstructing a long flag invocation every run.
type Profile struct {
	Dim            int    `yaml:"dim"`
	M              int    `yaml:"m"`
	EfConstruction int    `yaml:"ef_construction"`
	EfSearch       int    `yaml:"ef_search"`
	Metric         string `yaml:"metric"`
}

// LoadProfile reads and parses a YAML tuning profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse profile: %w", err)
	}
	return &p, nil
}

// Apply overrides the matching fields of cfg with the profile's values.
func (p *Profile) Apply(cfg *HNSWConfig) error {
	cfg.Dim = p.Dim
	cfg.M = p.M
	cfg.EfConstruction = p.EfConstruction
	cfg.EfSearch = p.EfSearch
	if p.Metric != "" {
		tag, err := parseMetricTag(p.Metric)
		if err != nil {
			return err
		}
		cfg.Metric = tag
	}
	return nil
}
