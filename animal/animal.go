package animal

import (
	"github.com/AVEHD/fox-bunny/field"
)

// Cause records why an animal died.
type Cause int

const (
	CauseNone Cause = iota
	CauseOldAge
	CauseStarvation
	CauseKilled
	CauseOvercrowding
)

func (c Cause) String() string {
	switch c {
	case CauseOldAge:
		return "old_age"
	case CauseStarvation:
		return "starvation"
	case CauseKilled:
		return "killed"
	case CauseOvercrowding:
		return "overcrowding"
	}
	return "none"
}

// kind is the concrete species an Animal is embedded in.
type kind interface {
	Creature
	// newborn creates a young animal of the same species at loc.
	newborn(loc field.Location) Actor
}

// Animal is the life-cycle state shared by every species. It is embedded
// by Fox and Rabbit, which compose its operations inside their own Act.
//
// Every operation here is a no-op on a dead animal.
type Animal struct {
	species *Species
	field   Field
	rand    Randomizer
	self    kind

	alive     bool
	location  field.Location
	placed    bool
	age       int
	foodLevel int
	cause     Cause
}

func (a *Animal) init(self kind, sp *Species, f Field, rng Randomizer, loc field.Location) {
	a.self = self
	a.species = sp
	a.field = f
	a.rand = rng
	a.alive = true
	a.setLocation(loc)
}

func (a *Animal) IsAlive() bool     { return a.alive }
func (a *Animal) Species() *Species { return a.species }
func (a *Animal) Age() int          { return a.age }
func (a *Animal) FoodLevel() int    { return a.foodLevel }
func (a *Animal) Cause() Cause      { return a.cause }

func (a *Animal) Location() (field.Location, bool) {
	return a.location, a.placed
}

// SetDead kills the animal from outside, e.g. when it is eaten.
func (a *Animal) SetDead() {
	a.die(CauseKilled)
}

func (a *Animal) die(cause Cause) {
	if !a.alive {
		return
	}
	a.alive = false
	a.cause = cause
	if a.placed {
		a.release()
		a.placed = false
	}
}

// release clears the current cell if it still holds this animal.
func (a *Animal) release() {
	if a.field.ObjectAt(a.location) == a.self {
		a.field.Clear(a.location)
	}
}

func (a *Animal) setLocation(loc field.Location) {
	if !a.alive {
		return
	}
	if a.placed {
		a.release()
	}
	a.location = loc
	a.placed = true
	a.field.Place(a.self, loc)
}

// IncrementAge ages the animal by one tick. Passing the species' max age
// kills it.
func (a *Animal) IncrementAge() {
	if !a.alive {
		return
	}
	a.age++
	if a.age > a.species.MaxAge() {
		a.die(CauseOldAge)
	}
}

// IncrementHunger uses up one unit of food; at zero the animal starves.
// Only predators call it.
func (a *Animal) IncrementHunger() {
	if !a.alive {
		return
	}
	a.foodLevel--
	if a.foodLevel <= 0 {
		a.die(CauseStarvation)
	}
}

func (a *Animal) CanBreed() bool {
	return a.age >= a.species.BreedingAge()
}

// Breed draws the size of this tick's litter, zero if there is none. The
// draw does not look at free space; GiveBirth caps by that.
func (a *Animal) Breed() int {
	if !a.alive || !a.CanBreed() {
		return 0
	}
	if a.rand.Float64() <= a.species.BreedingProbability() {
		return 1 + a.rand.Intn(a.species.MaxLitterSize())
	}
	return 0
}

// GiveBirth places newborns of the caller's species on free adjacent cells
// and appends them to newActors. At most one newborn per free cell.
func (a *Animal) GiveBirth(newActors *[]Actor) {
	if !a.alive || !a.placed {
		return
	}
	free := a.field.FreeAdjacentLocations(a.location)
	births := a.Breed()
	for b := 0; b < births && len(free) > 0; b++ {
		loc := free[0]
		free = free[1:]
		*newActors = append(*newActors, a.self.newborn(loc))
	}
}

// moveTo relocates to loc, or dies of overcrowding when there is nowhere
// to go.
func (a *Animal) moveTo(loc field.Location, ok bool) {
	if !a.alive {
		return
	}
	if !ok {
		a.die(CauseOvercrowding)
		return
	}
	a.setLocation(loc)
}
