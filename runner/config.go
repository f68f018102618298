package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/evolve/genetic"
	"github.com/lixenwraith/evolve/parameter"
)

// Config describes a run: the experiment parameters plus how many trials to make and how
type Config struct {
	genetic.Config `yaml:",inline"`

	// Experiments is the number of independent trials
	Experiments int `yaml:"experiments" validate:"min=1"`
	// Workers bounds how many experiments run at once
	Workers int `yaml:"workers" validate:"min=1"`
	// Seed fixes every random stream of the run; 0 picks one at start
	Seed uint64 `yaml:"seed"`
	// Reference fixes the target genome; empty draws one from the seed
	Reference string `yaml:"reference,omitempty"`
}

// DefaultConfig returns the classic run of 100 sequential experiments
func DefaultConfig() Config {
	return Config{
		Config:      genetic.DefaultConfig(),
		Experiments: parameter.GAExperiments,
		Workers:     parameter.GAWorkers,
	}
}

// Validate checks the run and experiment parameters
func (c Config) Validate() error {
	return genetic.ValidateStruct(c)
}

// LoadConfig reads a YAML file over the defaults; keys absent from the file keep their default
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
