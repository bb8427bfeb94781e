package animal

import (
	"github.com/pkg/errors"

	"github.com/AVEHD/fox-bunny/field"
)

// Rabbit ages, breeds and runs around. It never gets hungry.
type Rabbit struct {
	Animal
}

func NewRabbit(sp *Species, f Field, rng Randomizer, loc field.Location, randomAge bool) (*Rabbit, error) {
	if sp == nil || sp.Predator() {
		return nil, errors.Wrap(ErrInvalidSpecies, "rabbit needs a prey species")
	}
	if !f.Contains(loc) {
		return nil, errors.Wrapf(ErrInvalidLocation, "rabbit at %d,%d", loc.Row, loc.Col)
	}
	return newRabbit(sp, f, rng, loc, randomAge), nil
}

func newRabbit(sp *Species, f Field, rng Randomizer, loc field.Location, randomAge bool) *Rabbit {
	r := &Rabbit{}
	r.init(r, sp, f, rng, loc)
	if randomAge {
		r.age = rng.Intn(sp.MaxAge())
	}
	return r
}

func (r *Rabbit) newborn(loc field.Location) Actor {
	return newRabbit(r.species, r.field, r.rand, loc, false)
}

func (r *Rabbit) Act(newActors *[]Actor) {
	if !r.alive {
		return
	}
	r.IncrementAge()
	if !r.alive {
		return
	}
	r.GiveBirth(newActors)
	r.moveTo(r.field.FreeAdjacentLocation(r.location))
}
