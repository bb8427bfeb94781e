package animal

import (
	"github.com/pkg/errors"

	"github.com/AVEHD/fox-bunny/field"
)

// Fox ages, starves, breeds and hunts prey on adjacent cells.
type Fox struct {
	Animal
}

// NewFox places a fox at loc. A seeded fox (randomAge) gets a random age and
// food level; a newborn starts at age zero with a full food level.
func NewFox(sp *Species, f Field, rng Randomizer, loc field.Location, randomAge bool) (*Fox, error) {
	if sp == nil || !sp.Predator() {
		return nil, errors.Wrap(ErrInvalidSpecies, "fox needs a predator species")
	}
	if !f.Contains(loc) {
		return nil, errors.Wrapf(ErrInvalidLocation, "fox at %d,%d", loc.Row, loc.Col)
	}
	return newFox(sp, f, rng, loc, randomAge), nil
}

func newFox(sp *Species, f Field, rng Randomizer, loc field.Location, randomAge bool) *Fox {
	fox := &Fox{}
	fox.init(fox, sp, f, rng, loc)
	if randomAge {
		fox.age = rng.Intn(sp.MaxAge())
		fox.foodLevel = rng.Intn(sp.FoodValue())
	} else {
		fox.foodLevel = sp.FoodValue()
	}
	return fox
}

func (f *Fox) newborn(loc field.Location) Actor {
	return newFox(f.species, f.field, f.rand, loc, false)
}

// Act ages and starves the fox, then breeds, hunts and moves. Moving onto
// an eaten prey's cell takes priority over any free cell.
func (f *Fox) Act(newActors *[]Actor) {
	if !f.alive {
		return
	}
	f.IncrementAge()
	f.IncrementHunger()
	if !f.alive {
		return
	}
	f.GiveBirth(newActors)

	loc, ok := f.findFood()
	if !ok {
		loc, ok = f.field.FreeAdjacentLocation(f.location)
	}
	f.moveTo(loc, ok)
}

// findFood eats the first live prey next to the fox and returns its cell.
func (f *Fox) findFood() (field.Location, bool) {
	for _, where := range f.field.AdjacentLocations(f.location) {
		prey, ok := f.field.ObjectAt(where).(Creature)
		if !ok || prey.Species().Predator() || !prey.IsAlive() {
			continue
		}
		prey.SetDead()
		f.foodLevel = f.species.FoodValue()
		return where, true
	}
	return field.Location{}, false
}
