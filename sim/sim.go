package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/AVEHD/fox-bunny/animal"
	"github.com/AVEHD/fox-bunny/field"
)

var (
	ErrOutOfBounds    = errors.New("location out of bounds")
	ErrOccupied       = errors.New("location occupied")
	ErrUnknownSpecies = errors.New("unknown species")
)

type Event struct {
	Type    string `json:"type"`
	Tick    int    `json:"tick"`
	ActorID int    `json:"actor_id"`
	Species string `json:"species"`
	Message string `json:"message"`
}

type Stats struct {
	Tick       int            `json:"tick"`
	Population map[string]int `json:"population"`
	Births     int            `json:"births"`
	Added      int            `json:"added"`
	Deaths     map[string]int `json:"deaths"`
	AvgLife    float64        `json:"avg_life"`
}

type spawner func(loc field.Location, randomAge bool) (animal.Actor, error)

// Sim owns the live population and steps it one tick at a time. Animals
// act in the order they joined the population; newborns join after the
// tick that produced them.
type Sim struct {
	W, H int

	mu      sync.Mutex
	cfg     Config
	field   *field.Field
	actors  []animal.Actor
	ids     map[animal.Actor]int
	nextID  int
	species []*animal.Species
	spawn   map[string]spawner

	StateChan chan interface{}

	rand            *rand.Rand
	runID           uuid.UUID
	ticksElapsed    int
	totalDeaths     int
	totalAgeAtDeath int
	totalBirths     int
	totalAdded      int
	deathsByCause   map[animal.Cause]int
	extinct         map[string]bool
	events          []Event
	paused          bool
}

func NewSim(cfg Config) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fox, err := animal.NewSpecies(cfg.Fox)
	if err != nil {
		return nil, errors.Wrap(err, "fox")
	}
	rabbit, err := animal.NewSpecies(cfg.Rabbit)
	if err != nil {
		return nil, errors.Wrap(err, "rabbit")
	}

	s := &Sim{
		cfg:       cfg,
		species:   []*animal.Species{fox, rabbit},
		StateChan: make(chan interface{}, 10),
	}
	s.spawn = map[string]spawner{
		fox.Name(): func(loc field.Location, randomAge bool) (animal.Actor, error) {
			a, err := animal.NewFox(fox, s.field, s.rand, loc, randomAge)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
		rabbit.Name(): func(loc field.Location, randomAge bool) (animal.Actor, error) {
			a, err := animal.NewRabbit(rabbit, s.field, s.rand, loc, randomAge)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
	}
	s.reset()
	return s, nil
}

func (s *Sim) RunID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Reset discards the population and seeds a new one. With a fixed seed the
// new run repeats the previous one.
func (s *Sim) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Sim) reset() {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rand = rand.New(rand.NewSource(seed))
	s.field = field.New(s.cfg.Depth, s.cfg.Width, s.rand)
	s.W, s.H = s.field.Width(), s.field.Depth()
	s.actors = nil
	s.ids = make(map[animal.Actor]int)
	s.nextID = 0
	s.runID = uuid.New()
	s.ticksElapsed = 0
	s.totalDeaths = 0
	s.totalAgeAtDeath = 0
	s.totalBirths = 0
	s.totalAdded = 0
	s.deathsByCause = make(map[animal.Cause]int)
	s.extinct = make(map[string]bool)
	s.events = make([]Event, 0)
	s.populate()

	slog.Info("population seeded",
		"run", s.runID,
		"seed", seed,
		"depth", s.cfg.Depth,
		"width", s.cfg.Width,
		"population", s.population(),
	)
}

// populate walks the field row by row, dropping a seeded fox or rabbit on
// each cell with the configured probabilities.
func (s *Sim) populate() {
	fox, rabbit := s.species[0].Name(), s.species[1].Name()
	for row := 0; row < s.cfg.Depth; row++ {
		for col := 0; col < s.cfg.Width; col++ {
			loc := field.Location{Row: row, Col: col}
			var name string
			if s.rand.Float64() <= s.cfg.FoxCreationProbability {
				name = fox
			} else if s.rand.Float64() <= s.cfg.RabbitCreationProbability {
				name = rabbit
			} else {
				continue
			}
			a, err := s.spawn[name](loc, true)
			if err != nil {
				// species were checked in NewSim
				panic(err)
			}
			s.add(a)
		}
	}
}

func (s *Sim) add(a animal.Actor) int {
	s.nextID++
	s.ids[a] = s.nextID
	s.actors = append(s.actors, a)
	return s.nextID
}

func (s *Sim) addEvent(eventType string, actorID int, species string, message string) {
	if len(s.events) > maxEvents {
		s.events = s.events[1:]
	}
	s.events = append(s.events, Event{
		Type:    eventType,
		Tick:    s.ticksElapsed,
		ActorID: actorID,
		Species: species,
		Message: message,
	})
}

// Run ticks on the configured interval until ctx is done.
func (s *Sim) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Paused() {
				s.Tick()
			}
		}
	}
}

func (s *Sim) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

func (s *Sim) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

func (s *Sim) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Tick runs one step and publishes the resulting state.
func (s *Sim) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step()
	s.publish()
}

// Simulate runs up to n steps, stopping early once the field is no longer
// viable. It returns the number of steps run.
func (s *Sim) Simulate(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	done := 0
	for ; done < n && s.viable(); done++ {
		s.step()
	}
	s.publish()
	return done
}

func (s *Sim) step() {
	s.ticksElapsed++

	born := make([]animal.Actor, 0)
	for _, a := range s.actors {
		if a.IsAlive() {
			a.Act(&born)
		}
	}

	for _, a := range born {
		id := s.add(a)
		s.totalBirths++
		c := a.(animal.Creature)
		s.addEvent("birth", id, c.Species().Name(), fmt.Sprintf("%s %d born", c.Species().Name(), id))
	}

	live := s.actors[:0]
	for _, a := range s.actors {
		if a.IsAlive() {
			live = append(live, a)
			continue
		}
		s.recordDeath(a)
	}
	for i := len(live); i < len(s.actors); i++ {
		s.actors[i] = nil
	}
	s.actors = live

	pop := s.population()
	for name, n := range pop {
		if n == 0 && !s.extinct[name] {
			s.extinct[name] = true
			slog.Info("species extinct", "run", s.runID, "tick", s.ticksElapsed, "species", name)
		}
	}
	slog.Debug("tick", "run", s.runID, "tick", s.ticksElapsed, "born", len(born), "population", pop)
}

func (s *Sim) recordDeath(a animal.Actor) {
	id := s.ids[a]
	delete(s.ids, a)
	c := a.(animal.Creature)
	s.totalDeaths++
	s.totalAgeAtDeath += c.Age()
	s.deathsByCause[c.Cause()]++
	s.addEvent("death", id, c.Species().Name(),
		fmt.Sprintf("%s %d died of %s at age %d", c.Species().Name(), id, c.Cause(), c.Age()))
}

func (s *Sim) population() map[string]int {
	pop := make(map[string]int, len(s.species))
	for _, sp := range s.species {
		pop[sp.Name()] = s.field.Count(func(obj any) bool {
			c, ok := obj.(animal.Creature)
			return ok && c.Species() == sp
		})
	}
	return pop
}

// Viable reports whether more than one species is still alive.
func (s *Sim) Viable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viable()
}

func (s *Sim) viable() bool {
	alive := 0
	for _, n := range s.population() {
		if n > 0 {
			alive++
		}
	}
	return alive > 1
}

// AddAnimalAt places a newborn of the named species on a free cell. It
// joins the population at once and acts from the next tick.
func (s *Sim) AddAnimalAt(species string, row, col int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := field.Location{Row: row, Col: col}
	if !s.field.Contains(loc) {
		return 0, errors.Wrapf(ErrOutOfBounds, "%d,%d", row, col)
	}
	if s.field.ObjectAt(loc) != nil {
		return 0, errors.Wrapf(ErrOccupied, "%d,%d", row, col)
	}
	spawn, ok := s.spawn[species]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownSpecies, "%q", species)
	}
	a, err := spawn(loc, false)
	if err != nil {
		return 0, err
	}
	id := s.add(a)
	s.totalAdded++
	s.addEvent("added", id, species, fmt.Sprintf("%s %d added at %d,%d", species, id, row, col))
	return id, nil
}

func (s *Sim) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats()
}

func (s *Sim) stats() Stats {
	deaths := make(map[string]int, len(s.deathsByCause))
	for cause, n := range s.deathsByCause {
		deaths[cause.String()] = n
	}
	avgLife := 0.0
	if s.totalDeaths > 0 {
		avgLife = float64(s.totalAgeAtDeath) / float64(s.totalDeaths)
	}
	return Stats{
		Tick:       s.ticksElapsed,
		Population: s.population(),
		Births:     s.totalBirths,
		Added:      s.totalAdded,
		Deaths:     deaths,
		AvgLife:    avgLife,
	}
}

func (s *Sim) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Sim) snapshot() map[string]interface{} {
	animalsOut := make([]map[string]interface{}, 0, len(s.actors))
	for _, a := range s.actors {
		c := a.(animal.Creature)
		loc, ok := s.field.LocationOf(a)
		if !c.IsAlive() || !ok {
			continue
		}
		animalsOut = append(animalsOut, map[string]interface{}{
			"id":      s.ids[a],
			"species": c.Species().Name(),
			"row":     loc.Row,
			"col":     loc.Col,
			"age":     c.Age(),
			"food":    c.FoodLevel(),
		})
	}

	eventsOut := make([]Event, 0)
	for _, e := range s.events {
		if e.Tick == s.ticksElapsed {
			eventsOut = append(eventsOut, e)
		}
	}

	return map[string]interface{}{
		"type":    "state",
		"run_id":  s.runID.String(),
		"tick":    s.ticksElapsed,
		"paused":  s.paused,
		"animals": animalsOut,
		"metrics": s.stats(),
		"events":  eventsOut,
	}
}

func (s *Sim) publish() {
	select {
	case s.StateChan <- s.snapshot():
	default:
	}
}
