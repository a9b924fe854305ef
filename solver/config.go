package solver

import "time"

// Config controls the solver bridge.
type Config struct {
	// Binary is the solver executable; it must speak SMT-LIB 2 on stdin.
	Binary string `yaml:"binary"`
	// Timeout is the hard wall-clock bound per solver call.
	Timeout time.Duration `yaml:"timeout"`
	// MaxModelSize caps the number of interpreted symbols accepted in a
	// satisfying model; larger models degrade the result to Unknown.
	MaxModelSize int `yaml:"max_model_size"`
	// UnrollDepth is the number of path steps in the bounded encoding.
	UnrollDepth int `yaml:"unroll_depth"`

	EnableQuantifierInstantiation bool `yaml:"enable_quantifier_instantiation"`
	EnableTheoryReasoning         bool `yaml:"enable_theory_reasoning"`

	// Options are passed to the solver verbatim as (set-option) commands.
	Options map[string]string `yaml:"options"`
}

// DefaultConfig returns the stock configuration: z3, ten-second timeout,
// thousand-symbol model cap, ten-step unrolling.
func DefaultConfig() Config {
	return Config{
		Binary:                        "z3",
		Timeout:                       10 * time.Second,
		MaxModelSize:                  1000,
		UnrollDepth:                   10,
		EnableQuantifierInstantiation: true,
		EnableTheoryReasoning:         true,
		Options: map[string]string{
			"model_completion": "true",
		},
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Binary == "" {
		c.Binary = d.Binary
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxModelSize <= 0 {
		c.MaxModelSize = d.MaxModelSize
	}
	if c.UnrollDepth <= 0 {
		c.UnrollDepth = d.UnrollDepth
	}
	if c.Options == nil {
		c.Options = d.Options
	}
	return c
}
