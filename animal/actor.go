package animal

import (
	"github.com/AVEHD/fox-bunny/field"
)

// Actor is anything the driver steps once per tick.
type Actor interface {
	// Act performs one tick of behaviour. Newborns are appended to
	// newActors and must not be stepped until the next tick.
	// Act on a dead actor does nothing.
	Act(newActors *[]Actor)
	IsAlive() bool
	// SetDead is idempotent and releases the actor's cell exactly once.
	SetDead()
}

// Creature is an Actor with a readable life-cycle state.
type Creature interface {
	Actor
	Species() *Species
	Age() int
	FoodLevel() int
	Location() (field.Location, bool)
	Cause() Cause
}

// Field is the grid the animals live on.
type Field interface {
	Contains(loc field.Location) bool
	Place(obj any, loc field.Location)
	Clear(loc field.Location)
	ObjectAt(loc field.Location) any
	AdjacentLocations(loc field.Location) []field.Location
	FreeAdjacentLocation(loc field.Location) (field.Location, bool)
	FreeAdjacentLocations(loc field.Location) []field.Location
}

// Randomizer is the shared random source. *rand.Rand satisfies it.
type Randomizer interface {
	Float64() float64
	Intn(n int) int
}
