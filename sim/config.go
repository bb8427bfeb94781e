package sim

import (
	"time"

	"github.com/pkg/errors"

	"github.com/AVEHD/fox-bunny/animal"
)

const (
	DefaultDepth = 80
	DefaultWidth = 120

	// DefaultFoxCreationProbability is the chance a cell starts with a fox
	DefaultFoxCreationProbability = 0.02

	// DefaultRabbitCreationProbability is the chance a cell without a fox
	// starts with a rabbit
	DefaultRabbitCreationProbability = 0.08

	DefaultTickInterval = 200 * time.Millisecond

	maxEvents = 5000
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Depth int
	Width int

	// Seed of the shared random source; zero picks one from the clock.
	Seed int64

	FoxCreationProbability    float64
	RabbitCreationProbability float64
	TickInterval              time.Duration

	Fox    animal.Config
	Rabbit animal.Config
}

func DefaultConfig() Config {
	return Config{
		Depth:                     DefaultDepth,
		Width:                     DefaultWidth,
		FoxCreationProbability:    DefaultFoxCreationProbability,
		RabbitCreationProbability: DefaultRabbitCreationProbability,
		TickInterval:              DefaultTickInterval,
		Fox:                       animal.DefaultFox(),
		Rabbit:                    animal.DefaultRabbit(),
	}
}

func (c Config) Validate() error {
	if c.Depth <= 0 || c.Width <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "field %dx%d", c.Depth, c.Width)
	}
	if c.FoxCreationProbability < 0 || c.FoxCreationProbability > 1 {
		return errors.Wrapf(ErrInvalidConfig, "fox creation probability %v", c.FoxCreationProbability)
	}
	if c.RabbitCreationProbability < 0 || c.RabbitCreationProbability > 1 {
		return errors.Wrapf(ErrInvalidConfig, "rabbit creation probability %v", c.RabbitCreationProbability)
	}
	if c.TickInterval <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "tick interval %v", c.TickInterval)
	}
	if !c.Fox.Predator || c.Rabbit.Predator {
		return errors.Wrap(ErrInvalidConfig, "fox must be a predator and rabbit its prey")
	}
	if c.Fox.Name == c.Rabbit.Name {
		return errors.Wrapf(ErrInvalidConfig, "duplicate species name %q", c.Fox.Name)
	}
	return nil
}
