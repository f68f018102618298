package genetic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lixenwraith/evolve/parameter"
)

// Config holds the parameters of one experiment, fixed for a whole run
type Config struct {
	// Alphabet is the number of symbols per position
	Alphabet int `yaml:"alphabet" validate:"min=1,max=26"`
	// Length is the number of positions per genome
	Length int `yaml:"length" validate:"min=1"`
	// PopulationSize is the number of individuals per generation
	PopulationSize int `yaml:"population_size" validate:"min=2"`
	// BreedingPoolSize is the number of individuals admitted for breeding
	BreedingPoolSize int `yaml:"breeding_pool_size" validate:"min=2,ltefield=PopulationSize"`
	// MutationRate is the inverse per-position mutation probability (0 disables)
	MutationRate int `yaml:"mutation_rate" validate:"min=0"`
	// SuccessLevel is the fraction of exact matches that ends an experiment
	SuccessLevel float64 `yaml:"success_level" validate:"gt=0,lte=1"`
	// MaxGenerations caps breeding rounds
	MaxGenerations int `yaml:"max_generations" validate:"min=0"`
}

// DefaultConfig returns the classic experiment parameters
func DefaultConfig() Config {
	return Config{
		Alphabet:         parameter.GAAlphabetSize,
		Length:           parameter.GAGenomeLength,
		PopulationSize:   parameter.GAPopulationSize,
		BreedingPoolSize: parameter.GABreedingPoolSize,
		MutationRate:     parameter.GAMutationRate,
		SuccessLevel:     parameter.GASuccessLevel,
		MaxGenerations:   parameter.GAMaxGenerations,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field constraints
func (c Config) Validate() error {
	return ValidateStruct(c)
}

// ValidateStruct runs tag validation on any config struct, wrapping failures in ErrInvalidConfig
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "ltefield":
		return fmt.Sprintf("%s %v exceeds %s", fe.Field(), fe.Value(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s %v below minimum %s", fe.Field(), fe.Value(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s %v above maximum %s", fe.Field(), fe.Value(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s %v must exceed %s", fe.Field(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s %s", fe.Field(), fe.Tag(), fe.Param())
	}
}
