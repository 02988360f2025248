// Package config loads engine settings from YAML
package config

import (
	"fmt"
	"io"
	"os"

	"collidex/internal/core"
	"collidex/internal/logging"
	"collidex/internal/spatial"

	"gopkg.in/yaml.v3"
)

// Config is the root of a collidex YAML file
type Config struct {
	LogLevel   string     `json:"log_level" yaml:"log_level"`
	Broadphase Broadphase `json:"broadphase" yaml:"broadphase"`
	Debug      Debug      `json:"debug" yaml:"debug"`
}

// Broadphase selects and tunes the spatial index
type Broadphase struct {
	Kind       string  `json:"kind" yaml:"kind"`
	CellSize   float64 `json:"cell_size" yaml:"cell_size"`
	Bounds     Bounds  `json:"bounds" yaml:"bounds"`
	MaxObjects int     `json:"max_objects" yaml:"max_objects"`
	MaxDepth   int     `json:"max_depth" yaml:"max_depth"`
}

// Bounds is the world extent used by the grid and quadtree. Each corner has
// two coordinates for 2D worlds or three for 3D worlds.
type Bounds struct {
	Min []float64 `json:"min" yaml:"min"`
	Max []float64 `json:"max" yaml:"max"`
}

// Debug toggles expensive consistency checks
type Debug struct {
	Validate bool `json:"validate" yaml:"validate"`
}

// Default returns a config for a tree broadphase over a 1024 unit world
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Broadphase: Broadphase{
			Kind:     string(spatial.KindTree),
			CellSize: 64,
			Bounds: Bounds{
				Min: []float64{0, 0, 0},
				Max: []float64{1024, 1024, 1024},
			},
			MaxObjects: spatial.MaxEntitiesPerNode,
			MaxDepth:   spatial.MaxDepth,
		},
	}
}

// Load reads and validates a YAML file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadYAML loads config from YAML reader
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field, wrapping core.ErrInvalidConfig
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %v: %w", err, core.ErrInvalidConfig)
	}
	if _, err := spatial.ParseKind(c.Broadphase.Kind); err != nil {
		return fmt.Errorf("broadphase.kind: %v: %w", err, core.ErrInvalidConfig)
	}
	if c.Broadphase.CellSize <= 0 {
		return fmt.Errorf("broadphase.cell_size must be positive: %w", core.ErrInvalidConfig)
	}
	if c.Broadphase.MaxObjects < 0 || c.Broadphase.MaxDepth < 0 {
		return fmt.Errorf("broadphase.max_objects and max_depth must not be negative: %w", core.ErrInvalidConfig)
	}

	b := c.Broadphase.Bounds
	if len(b.Min) != len(b.Max) || len(b.Min) < 2 || len(b.Min) > 3 {
		return fmt.Errorf("broadphase.bounds needs 2 or 3 coordinates per corner: %w", core.ErrInvalidConfig)
	}
	for i := range b.Min {
		if b.Min[i] > b.Max[i] {
			return fmt.Errorf("broadphase.bounds min exceeds max on axis %d: %w", i, core.ErrInvalidConfig)
		}
	}
	return nil
}

// Kind returns the parsed broadphase kind
func (c *Config) Kind() spatial.Kind {
	k, err := spatial.ParseKind(c.Broadphase.Kind)
	if err != nil {
		return spatial.KindTree
	}
	return k
}

// Options2D converts the broadphase section to index options for a 2D world
func (c *Config) Options2D() spatial.Options[core.AABB] {
	b := c.Broadphase.Bounds
	return spatial.Options[core.AABB]{
		Bounds: core.AABB{
			Min: core.Vector2D{X: coord(b.Min, 0), Y: coord(b.Min, 1)},
			Max: core.Vector2D{X: coord(b.Max, 0), Y: coord(b.Max, 1)},
		},
		CellSize:   c.Broadphase.CellSize,
		MaxObjects: c.Broadphase.MaxObjects,
		MaxDepth:   c.Broadphase.MaxDepth,
	}
}

// Options3D converts the broadphase section to index options for a 3D world.
// A 2D extent gets a z range equal to its y range.
func (c *Config) Options3D() spatial.Options[core.AABB3D] {
	b := c.Broadphase.Bounds
	minZ, maxZ := coord(b.Min, 1), coord(b.Max, 1)
	if len(b.Min) == 3 {
		minZ, maxZ = b.Min[2], b.Max[2]
	}
	return spatial.Options[core.AABB3D]{
		Bounds: core.AABB3D{
			Min: core.Vector3D{X: coord(b.Min, 0), Y: coord(b.Min, 1), Z: minZ},
			Max: core.Vector3D{X: coord(b.Max, 0), Y: coord(b.Max, 1), Z: maxZ},
		},
		CellSize:   c.Broadphase.CellSize,
		MaxObjects: c.Broadphase.MaxObjects,
		MaxDepth:   c.Broadphase.MaxDepth,
	}
}

func coord(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
