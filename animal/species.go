package animal

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidSpecies  = errors.New("invalid species")
	ErrInvalidLocation = errors.New("location outside the field")
)

// Default fox parameters
const (
	// FoxBreedingAge is the age at which a fox can start to breed
	FoxBreedingAge = 15

	// FoxMaxAge is the age to which a fox can live
	FoxMaxAge = 150

	// FoxBreedingProbability is the chance per tick that a mature fox breeds
	FoxBreedingProbability = 0.08

	// FoxMaxLitterSize caps births per breeding
	FoxMaxLitterSize = 2

	// FoxFoodValue is the number of ticks a fox can go on one rabbit
	FoxFoodValue = 9
)

// Default rabbit parameters
const (
	RabbitBreedingAge         = 5
	RabbitMaxAge              = 40
	RabbitBreedingProbability = 0.12
	RabbitMaxLitterSize       = 4
)

// Config holds the tunable parameters of one species.
type Config struct {
	Name                string  `json:"name"`
	Predator            bool    `json:"predator"`
	MaxAge              int     `json:"max_age"`
	BreedingAge         int     `json:"breeding_age"`
	BreedingProbability float64 `json:"breeding_probability"`
	MaxLitterSize       int     `json:"max_litter_size"`
	// FoodValue is how far a meal refills a predator's food level.
	// Must be zero for prey.
	FoodValue int `json:"food_value"`
}

func DefaultFox() Config {
	return Config{
		Name:                "fox",
		Predator:            true,
		MaxAge:              FoxMaxAge,
		BreedingAge:         FoxBreedingAge,
		BreedingProbability: FoxBreedingProbability,
		MaxLitterSize:       FoxMaxLitterSize,
		FoodValue:           FoxFoodValue,
	}
}

func DefaultRabbit() Config {
	return Config{
		Name:                "rabbit",
		MaxAge:              RabbitMaxAge,
		BreedingAge:         RabbitBreedingAge,
		BreedingProbability: RabbitBreedingProbability,
		MaxLitterSize:       RabbitMaxLitterSize,
	}
}

// Validate reports the first bad parameter, wrapped around ErrInvalidSpecies.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.Wrap(ErrInvalidSpecies, "empty name")
	case c.MaxAge <= 0:
		return errors.Wrapf(ErrInvalidSpecies, "%s: max age %d must be positive", c.Name, c.MaxAge)
	case c.BreedingAge < 0:
		return errors.Wrapf(ErrInvalidSpecies, "%s: negative breeding age %d", c.Name, c.BreedingAge)
	case c.BreedingAge > c.MaxAge:
		return errors.Wrapf(ErrInvalidSpecies, "%s: breeding age %d exceeds max age %d", c.Name, c.BreedingAge, c.MaxAge)
	case c.BreedingProbability < 0 || c.BreedingProbability > 1:
		return errors.Wrapf(ErrInvalidSpecies, "%s: breeding probability %v outside [0,1]", c.Name, c.BreedingProbability)
	case c.MaxLitterSize <= 0:
		return errors.Wrapf(ErrInvalidSpecies, "%s: max litter size %d must be positive", c.Name, c.MaxLitterSize)
	case c.Predator && c.FoodValue <= 0:
		return errors.Wrapf(ErrInvalidSpecies, "%s: predator food value %d must be positive", c.Name, c.FoodValue)
	case !c.Predator && c.FoodValue != 0:
		return errors.Wrapf(ErrInvalidSpecies, "%s: prey cannot have a food value", c.Name)
	}
	return nil
}

// Species is a validated, read-only parameter set shared by every animal of
// one kind.
type Species struct {
	cfg Config
}

func NewSpecies(cfg Config) (*Species, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Species{cfg: cfg}, nil
}

// MustSpecies is NewSpecies for compile-time constant tables.
func MustSpecies(cfg Config) *Species {
	sp, err := NewSpecies(cfg)
	if err != nil {
		panic(err)
	}
	return sp
}

func (s *Species) Name() string                 { return s.cfg.Name }
func (s *Species) Predator() bool               { return s.cfg.Predator }
func (s *Species) MaxAge() int                  { return s.cfg.MaxAge }
func (s *Species) BreedingAge() int             { return s.cfg.BreedingAge }
func (s *Species) BreedingProbability() float64 { return s.cfg.BreedingProbability }
func (s *Species) MaxLitterSize() int           { return s.cfg.MaxLitterSize }
func (s *Species) FoodValue() int               { return s.cfg.FoodValue }
func (s *Species) Config() Config               { return s.cfg }
