package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MBP16/SIR-Modeling/internal/numeric"
	"github.com/MBP16/SIR-Modeling/internal/sim"
)

const (
	DefaultDt      = 0.1
	DefaultLambda  = 0.03
	DefaultGamma   = 0.5
	DefaultS       = 299.0
	DefaultI       = 1.0
	DefaultEndTime = 20.0
	DefaultRunner  = "euler"

	DefaultTitle     = "SIR Model Graph"
	DefaultXLabel    = "Time"
	DefaultYLabel    = "Number of people"
	DefaultImageFile = "SIR_MODEL_GRAPH.png"
	DefaultDPI       = 300
	DefaultDataFile  = "data.csv"
)

type Config struct {
	Dt            float64       `yaml:"dt"`
	Lambda        float64       `yaml:"lambda"`
	Gamma         float64       `yaml:"gamma"`
	Initial       InitialConfig `yaml:"initial"`
	EndTime       float64       `yaml:"end_time"`
	Precision     string        `yaml:"precision"`
	DecimalDigits uint32        `yaml:"decimal_digits"`
	Tolerance     float64       `yaml:"tolerance"`
	MaxSteps      int           `yaml:"max_steps"`
	ConvergeEarly bool          `yaml:"converge_early"`
	Runner        string        `yaml:"runner"`
	Plot          PlotConfig    `yaml:"plot"`
	Output        string        `yaml:"output"`
}

type InitialConfig struct {
	S float64 `yaml:"s"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
	T float64 `yaml:"t"`
}

type PlotConfig struct {
	Title       string `yaml:"title"`
	XLabel      string `yaml:"x_label"`
	YLabel      string `yaml:"y_label"`
	SLabel      string `yaml:"s_label"`
	ILabel      string `yaml:"i_label"`
	RLabel      string `yaml:"r_label"`
	ExportImage bool   `yaml:"export_image"`
	File        string `yaml:"file"`
	DPI         int    `yaml:"dpi"`
}

func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Title:  DefaultTitle,
		XLabel: DefaultXLabel,
		YLabel: DefaultYLabel,
		SLabel: "Susceptible",
		ILabel: "Infected",
		RLabel: "Recovered",
		File:   DefaultImageFile,
		DPI:    DefaultDPI,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Dt:      DefaultDt,
		Lambda:  DefaultLambda,
		Gamma:   DefaultGamma,
		Initial: InitialConfig{S: DefaultS, I: DefaultI},
		EndTime: DefaultEndTime,

		Precision:     numeric.FloatMode.String(),
		DecimalDigits: numeric.DefaultDigits,
		Tolerance:     sim.DefaultTolerance,
		MaxSteps:      sim.DefaultMaxSteps,
		Runner:        DefaultRunner,
		Plot:          DefaultPlotConfig(),
		Output:        DefaultDataFile,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file representation into validated run parameters.
func (c *Config) Params() (sim.Params, error) {
	mode, err := numeric.ParseMode(c.Precision)
	if err != nil {
		return sim.Params{}, err
	}
	p := sim.Params{
		Dt:            c.Dt,
		Lambda:        c.Lambda,
		Gamma:         c.Gamma,
		S0:            c.Initial.S,
		I0:            c.Initial.I,
		R0:            c.Initial.R,
		T0:            c.Initial.T,
		EndTime:       c.EndTime,
		Mode:          mode,
		DecimalDigits: c.DecimalDigits,
		Tolerance:     c.Tolerance,
		MaxSteps:      c.MaxSteps,
		ConvergeEarly: c.ConvergeEarly,
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
