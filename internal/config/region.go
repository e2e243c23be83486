package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed region_default.yaml
var defaultRegionYAML []byte

// BoundsConfig is a latitude/longitude rectangle.
type BoundsConfig struct {
	North float64 `yaml:"north"`
	South float64 `yaml:"south"`
	East  float64 `yaml:"east"`
	West  float64 `yaml:"west"`
}

// RegionConfig describes the metro area and business domain a deployment syncs.
type RegionConfig struct {
	Name        string       `yaml:"name"`
	Bounds      BoundsConfig `yaml:"bounds"`
	Country     string       `yaml:"country"`
	States      []string     `yaml:"states"`
	Keywords    []string     `yaml:"keywords"`
	SearchTerms []string     `yaml:"search_terms"`
}

// LoadRegion parses the region profile at path, or the embedded default when path is empty.
func LoadRegion(path string) (*RegionConfig, error) {
	data := defaultRegionYAML
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read region config: %w", err)
		}
		data = raw
	}
	return parseRegion(data)
}

func parseRegion(data []byte) (*RegionConfig, error) {
	var region RegionConfig
	if err := yaml.Unmarshal(data, &region); err != nil {
		return nil, fmt.Errorf("parse region config: %w", err)
	}
	if err := region.validate(); err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *RegionConfig) validate() error {
	b := r.Bounds
	if b.North <= b.South {
		return fmt.Errorf("region %q: north (%v) must be greater than south (%v)", r.Name, b.North, b.South)
	}
	if b.East <= b.West {
		return fmt.Errorf("region %q: east (%v) must be greater than west (%v)", r.Name, b.East, b.West)
	}
	if len(r.SearchTerms) == 0 {
		return fmt.Errorf("region %q: at least one search term is required", r.Name)
	}
	return nil
}
