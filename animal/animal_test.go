package animal

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/AVEHD/fox-bunny/field"
)

// scriptedRand replays fixed draws. Once a script runs out Float64 returns
// a value above any breeding probability and Intn returns 0.
type scriptedRand struct {
	floats      []float64
	ints        []int
	floatCalls  int
	intnCalls   int
	lastIntnArg int
}

func (s *scriptedRand) Float64() float64 {
	s.floatCalls++
	if len(s.floats) == 0 {
		return 0.999999
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(n int) int {
	s.intnCalls++
	s.lastIntnArg = n
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

var (
	center = field.Location{Row: 1, Col: 1}
	corner = field.Location{Row: 0, Col: 0}
)

func foxSpecies() *Species    { return MustSpecies(DefaultFox()) }
func rabbitSpecies() *Species { return MustSpecies(DefaultRabbit()) }

// surround fills every neighbour of loc with rabbits.
func surround(f *field.Field, loc field.Location, rng Randomizer) []*Rabbit {
	var out []*Rabbit
	for _, n := range f.AdjacentLocations(loc) {
		out = append(out, newRabbit(rabbitSpecies(), f, rng, n, false))
	}
	return out
}

func TestNewbornState(t *testing.T) {
	f := field.New(3, 3, nil)
	rng := &scriptedRand{}

	fox, err := NewFox(foxSpecies(), f, rng, center, false)
	if err != nil {
		t.Fatal(err)
	}
	if fox.Age() != 0 || fox.FoodLevel() != FoxFoodValue || !fox.IsAlive() {
		t.Errorf("Unexpected newborn fox: age %d food %d alive %v", fox.Age(), fox.FoodLevel(), fox.IsAlive())
	}
	if f.ObjectAt(center) != fox {
		t.Error("Fox not placed on the field")
	}
	if loc, ok := fox.Location(); !ok || loc != center {
		t.Errorf("Location = %v, %v", loc, ok)
	}
	if rng.floatCalls+rng.intnCalls != 0 {
		t.Error("Newborn must not draw from the random source")
	}
}

func TestSeededState(t *testing.T) {
	f := field.New(3, 3, nil)

	rng := &scriptedRand{ints: []int{77, 4}}
	fox, _ := NewFox(foxSpecies(), f, rng, center, true)
	if fox.Age() != 77 || fox.FoodLevel() != 4 {
		t.Errorf("Seeded fox: age %d food %d", fox.Age(), fox.FoodLevel())
	}

	rng = &scriptedRand{ints: []int{12}}
	rabbit, _ := NewRabbit(rabbitSpecies(), f, rng, corner, true)
	if rabbit.Age() != 12 || rng.lastIntnArg != RabbitMaxAge {
		t.Errorf("Seeded rabbit: age %d drawn from Intn(%d)", rabbit.Age(), rng.lastIntnArg)
	}
}

func TestConstructorsCheckSpeciesRole(t *testing.T) {
	f := field.New(3, 3, nil)
	rng := &scriptedRand{}

	if _, err := NewFox(rabbitSpecies(), f, rng, center, false); !errors.Is(err, ErrInvalidSpecies) {
		t.Errorf("Fox from prey species: expected ErrInvalidSpecies, got %v", err)
	}
	if _, err := NewRabbit(foxSpecies(), f, rng, center, false); !errors.Is(err, ErrInvalidSpecies) {
		t.Errorf("Rabbit from predator species: expected ErrInvalidSpecies, got %v", err)
	}
	if _, err := NewRabbit(nil, f, rng, center, false); err == nil {
		t.Error("Expected error for nil species")
	}
	if f.ObjectAt(center) != nil {
		t.Error("Rejected animal was placed")
	}
}

func TestConstructorsRejectCellsOffTheField(t *testing.T) {
	f := field.New(3, 3, nil)
	rng := &scriptedRand{}

	tests := []struct {
		name string
		loc  field.Location
	}{
		{"below", field.Location{Row: 3, Col: 0}},
		{"right", field.Location{Row: 0, Col: 3}},
		{"negative", field.Location{Row: -1, Col: 1}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fox, err := NewFox(foxSpecies(), f, rng, test.loc, false)
			if !errors.Is(err, ErrInvalidLocation) || fox != nil {
				t.Errorf("Fox: expected ErrInvalidLocation, got %v", err)
			}
			rabbit, err := NewRabbit(rabbitSpecies(), f, rng, test.loc, true)
			if !errors.Is(err, ErrInvalidLocation) || rabbit != nil {
				t.Errorf("Rabbit: expected ErrInvalidLocation, got %v", err)
			}
		})
	}
	if rng.intnCalls != 0 {
		t.Error("Rejected seeded animal drew from the random source")
	}

	fox, err := NewFox(foxSpecies(), f, rng, field.Location{Row: 2, Col: 2}, false)
	if err != nil {
		t.Fatal(err)
	}
	if loc, ok := fox.Location(); !ok || f.ObjectAt(loc) != fox {
		t.Error("Fox on the edge cell not placed")
	}
}

func TestIncrementAge(t *testing.T) {
	f := field.New(3, 3, nil)
	r := newRabbit(rabbitSpecies(), f, &scriptedRand{}, center, false)
	r.age = RabbitMaxAge - 1

	r.IncrementAge()
	if !r.IsAlive() || r.Age() != RabbitMaxAge {
		t.Fatalf("Rabbit at max age should live, age %d", r.Age())
	}

	r.IncrementAge()
	if r.IsAlive() {
		t.Fatal("Rabbit past max age should be dead")
	}
	if r.Cause() != CauseOldAge {
		t.Errorf("Expected old age, got %s", r.Cause())
	}
	if _, ok := r.Location(); ok || f.ObjectAt(center) != nil {
		t.Error("Dead rabbit still holds its cell")
	}

	age := r.Age()
	r.IncrementAge()
	if r.Age() != age {
		t.Error("Dead rabbit kept ageing")
	}
}

func TestIncrementHunger(t *testing.T) {
	f := field.New(3, 3, nil)
	fox := newFox(foxSpecies(), f, &scriptedRand{}, center, false)
	fox.foodLevel = 2

	fox.IncrementHunger()
	if !fox.IsAlive() || fox.FoodLevel() != 1 {
		t.Fatalf("Fox should survive at food 1, got food %d", fox.FoodLevel())
	}

	fox.IncrementHunger()
	if fox.IsAlive() {
		t.Fatal("Fox at food 0 should be dead")
	}
	if fox.Cause() != CauseStarvation {
		t.Errorf("Expected starvation, got %s", fox.Cause())
	}
	if _, ok := fox.Location(); ok || f.ObjectAt(center) != nil {
		t.Error("Starved fox still holds its cell")
	}
}

func TestBreed(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		floats   []float64
		ints     []int
		expected int
		draws    int
	}{
		{"too young ignores lucky draw", RabbitBreedingAge - 1, []float64{0}, []int{3}, 0, 0},
		{"unlucky draw", RabbitBreedingAge, []float64{0.5}, nil, 0, 1},
		{"draw at probability breeds", RabbitBreedingAge, []float64{RabbitBreedingProbability}, []int{0}, 1, 1},
		{"largest litter", RabbitBreedingAge + 3, []float64{0}, []int{RabbitMaxLitterSize - 1}, RabbitMaxLitterSize, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := field.New(3, 3, nil)
			rng := &scriptedRand{floats: test.floats, ints: test.ints}
			r := newRabbit(rabbitSpecies(), f, rng, center, false)
			r.age = test.age

			if got := r.Breed(); got != test.expected {
				t.Errorf("Expected litter %d, got %d", test.expected, got)
			}
			if rng.floatCalls != test.draws {
				t.Errorf("Expected %d probability draws, got %d", test.draws, rng.floatCalls)
			}
			if test.expected > 0 && rng.lastIntnArg != RabbitMaxLitterSize {
				t.Errorf("Litter drawn from Intn(%d)", rng.lastIntnArg)
			}
		})
	}
}

func TestGiveBirthCappedByFreeCells(t *testing.T) {
	f := field.New(3, 3, nil)
	rng := &scriptedRand{}
	parent := newRabbit(rabbitSpecies(), f, rng, center, false)
	parent.age = RabbitBreedingAge
	neighbours := surround(f, center, rng)

	// free exactly two cells
	neighbours[0].SetDead()
	neighbours[5].SetDead()
	free := f.FreeAdjacentLocations(center)

	rng.floats = []float64{0}
	rng.ints = []int{RabbitMaxLitterSize - 1}

	var born []Actor
	parent.GiveBirth(&born)

	if len(born) != 2 {
		t.Fatalf("Expected 2 newborns, got %d", len(born))
	}
	for i, a := range born {
		young, ok := a.(*Rabbit)
		if !ok {
			t.Fatalf("Newborn %d is %T, expected *Rabbit", i, a)
		}
		if young.Age() != 0 {
			t.Errorf("Newborn %d has age %d", i, young.Age())
		}
		if loc, _ := young.Location(); loc != free[i] || f.ObjectAt(loc) != young {
			t.Errorf("Newborn %d at %v, expected %v", i, loc, free[i])
		}
	}
}

func TestGiveBirthSameSpeciesAsParent(t *testing.T) {
	f := field.New(3, 3, nil)
	rng := &scriptedRand{floats: []float64{0}, ints: []int{1}}
	fox := newFox(foxSpecies(), f, rng, corner, false)
	fox.age = FoxBreedingAge

	var born []Actor
	fox.GiveBirth(&born)

	if len(born) != 2 {
		t.Fatalf("Expected 2 cubs, got %d", len(born))
	}
	for _, a := range born {
		cub, ok := a.(*Fox)
		if !ok {
			t.Fatalf("Newborn is %T, expected *Fox", a)
		}
		if cub.FoodLevel() != FoxFoodValue || cub.Species() != fox.Species() {
			t.Errorf("Cub food %d, species %s", cub.FoodLevel(), cub.Species().Name())
		}
	}
}

func TestSetDeadIdempotent(t *testing.T) {
	f := field.New(3, 3, nil)
	r := newRabbit(rabbitSpecies(), f, &scriptedRand{}, center, false)

	r.SetDead()
	// another animal takes the cell; a second SetDead must not evict it
	other := newRabbit(rabbitSpecies(), f, &scriptedRand{}, center, false)
	r.SetDead()

	if r.IsAlive() || r.Cause() != CauseKilled {
		t.Errorf("alive %v cause %s", r.IsAlive(), r.Cause())
	}
	if f.ObjectAt(center) != other {
		t.Error("Second SetDead cleared a cell it no longer owns")
	}
}

func TestActOnDeadIsNoop(t *testing.T) {
	f := field.New(3, 3, nil)
	rng := &scriptedRand{}
	actors := []Actor{
		newRabbit(rabbitSpecies(), f, rng, center, false),
		newFox(foxSpecies(), f, rng, corner, false),
	}

	for _, a := range actors {
		a.SetDead()
		before := a.(Creature).Age()

		var born []Actor
		a.Act(&born)

		if a.IsAlive() || len(born) != 0 || a.(Creature).Age() != before {
			t.Errorf("%T changed after acting dead", a)
		}
	}
	if rng.floatCalls+rng.intnCalls != 0 {
		t.Error("Dead actors drew from the random source")
	}
}
