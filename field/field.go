package field

import (
	"math/rand"
)

// Location is a cell address on the field.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Field is a bounded rectangular grid holding at most one object per cell.
// It also indexes where each object is, so an object is never recorded in
// two cells at once.
type Field struct {
	depth, width int
	cells        [][]any
	where        map[any]Location
	rand         *rand.Rand
}

// New creates a depth x width field. When rng is not nil adjacency results
// are shuffled with it, otherwise they come back in a fixed row-major order.
func New(depth, width int, rng *rand.Rand) *Field {
	f := &Field{
		depth: depth,
		width: width,
		cells: make([][]any, depth),
		where: make(map[any]Location),
		rand:  rng,
	}
	for r := range f.cells {
		f.cells[r] = make([]any, width)
	}
	return f
}

func (f *Field) Depth() int { return f.depth }
func (f *Field) Width() int { return f.width }

func (f *Field) Contains(loc Location) bool {
	return loc.Row >= 0 && loc.Row < f.depth && loc.Col >= 0 && loc.Col < f.width
}

// Place puts obj at loc. Whatever was at loc is overwritten and obj's
// previous cell, if any, is released.
func (f *Field) Place(obj any, loc Location) {
	if obj == nil || !f.Contains(loc) {
		return
	}
	if old, ok := f.where[obj]; ok && old != loc && f.cells[old.Row][old.Col] == obj {
		f.cells[old.Row][old.Col] = nil
	}
	if prev := f.cells[loc.Row][loc.Col]; prev != nil && prev != obj {
		delete(f.where, prev)
	}
	f.cells[loc.Row][loc.Col] = obj
	f.where[obj] = loc
}

// Clear empties loc.
func (f *Field) Clear(loc Location) {
	if !f.Contains(loc) {
		return
	}
	if obj := f.cells[loc.Row][loc.Col]; obj != nil {
		delete(f.where, obj)
	}
	f.cells[loc.Row][loc.Col] = nil
}

// ObjectAt returns the occupant of loc, or nil.
func (f *Field) ObjectAt(loc Location) any {
	if !f.Contains(loc) {
		return nil
	}
	return f.cells[loc.Row][loc.Col]
}

// LocationOf reports the cell obj currently occupies.
func (f *Field) LocationOf(obj any) (Location, bool) {
	loc, ok := f.where[obj]
	return loc, ok
}

// AdjacentLocations returns every in-bounds neighbour of loc (up to 8),
// never loc itself.
func (f *Field) AdjacentLocations(loc Location) []Location {
	out := make([]Location, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Location{Row: loc.Row + dr, Col: loc.Col + dc}
			if f.Contains(n) {
				out = append(out, n)
			}
		}
	}
	if f.rand != nil {
		f.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func (f *Field) FreeAdjacentLocations(loc Location) []Location {
	adj := f.AdjacentLocations(loc)
	free := adj[:0]
	for _, n := range adj {
		if f.cells[n.Row][n.Col] == nil {
			free = append(free, n)
		}
	}
	return free
}

// FreeAdjacentLocation returns the first free neighbour of loc.
func (f *Field) FreeAdjacentLocation(loc Location) (Location, bool) {
	free := f.FreeAdjacentLocations(loc)
	if len(free) == 0 {
		return Location{}, false
	}
	return free[0], true
}

// Count returns how many occupants satisfy keep.
func (f *Field) Count(keep func(obj any) bool) int {
	n := 0
	for obj := range f.where {
		if keep(obj) {
			n++
		}
	}
	return n
}
