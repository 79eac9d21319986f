package config

import "sort"

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	"baseline": DefaultConfig(),
	"converge": preset(func(c *Config) {
		c.EndTime = 0
	}),
	"converge-loose": preset(func(c *Config) {
		c.EndTime = 0
		c.Tolerance = 1e-4
	}),
	"fine": preset(func(c *Config) {
		c.Dt = 0.01
	}),
	"coarse": preset(func(c *Config) {
		c.Dt = 0.5
	}),
	"no-transmission": preset(func(c *Config) {
		c.Lambda = 0
	}),
	"decimal": preset(func(c *Config) {
		c.Precision = "decimal"
	}),
	"native": preset(func(c *Config) {
		c.Runner = "native"
		c.Output = "datacpp.csv"
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
