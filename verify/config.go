package verify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aisplang/tempus/kripke"
	"github.com/aisplang/tempus/solver"
)

// Config controls one verification run.
type Config struct {
	// Workers bounds concurrent property checks; each worker owns its
	// state space and formulas exclusively.
	Workers int `yaml:"workers"`
	// MaxFormulaSize routes oversized CTL formulas to the solver
	// instead of the explicit-state checker.
	MaxFormulaSize int `yaml:"max_formula_size"`

	Checker kripke.CheckerConfig `yaml:"checker"`
	Solver  solver.Config        `yaml:"solver"`
}

// DefaultConfig returns the stock run configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        4,
		MaxFormulaSize: 64,
		Checker:        kripke.CheckerConfig{MaxStates: 10000},
		Solver:         solver.DefaultConfig(),
	}
}

// LoadConfig reads a YAML configuration file, applying defaults for any
// field left unset.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MaxFormulaSize <= 0 {
		c.MaxFormulaSize = d.MaxFormulaSize
	}
	return c
}
