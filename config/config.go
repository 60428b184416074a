package config

import (
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/figure_anim/skeleton"
)

const ENV_PREFIX = "ANIMHOST_"

const DEFAULT_PRESET = "default"

type Config struct {
	Addr string `yaml:"addr" env:"ADDR"`
	// Number of independent module instances served concurrently
	Instances int `yaml:"instances" env:"INSTANCES"`
	// Frames per second of websocket figure streams
	StreamFPS int `yaml:"stream_fps" env:"STREAM_FPS"`

	Presets map[string]skeleton.CharacterAttr `yaml:"presets"`
}

func Default() *Config {
	return &Config{
		Addr:      ":8000",
		Instances: 4,
		StreamFPS: 30,
		Presets: map[string]skeleton.CharacterAttr{
			DEFAULT_PRESET: {},
		},
	}
}

// Load reads path over the defaults (empty path skips the file),
// then applies ANIMHOST_* environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read config %q", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "Unmarshaling config %q", path)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: ENV_PREFIX}); err != nil {
		return nil, errors.Wrapf(err, "Parsing environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Instances < 1 {
		return errors.Errorf("instances must be positive, got %d", c.Instances)
	}
	if c.StreamFPS < 1 || c.StreamFPS > 240 {
		return errors.Errorf("stream_fps out of range: %d", c.StreamFPS)
	}
	if _, ok := c.Presets[DEFAULT_PRESET]; !ok {
		if c.Presets == nil {
			c.Presets = make(map[string]skeleton.CharacterAttr)
		}
		c.Presets[DEFAULT_PRESET] = skeleton.CharacterAttr{}
	}
	return nil
}

// Preset returns a copy of the named attribute preset, empty name means default
func (c *Config) Preset(name string) (*skeleton.CharacterAttr, error) {
	if name == "" {
		name = DEFAULT_PRESET
	}
	attr, ok := c.Presets[name]
	if !ok {
		return nil, errors.Errorf("Failed to find preset %q", name)
	}
	return &attr, nil
}

func (c *Config) ListPresets() []string {
	list := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
