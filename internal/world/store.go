package world

import (
	"fmt"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
)

// Store holds every tile of the map and the units on them. Tile structure is
// fixed once loaded; only owners and stacks change during play.
type Store struct {
	defs     *Registry
	tiles    []*Tile // load order
	index    map[TileID]*Tile
	nextUnit UnitID
	hexSide  float64
}

// NewStore creates an empty store backed by the given unit definitions.
func NewStore(defs *Registry) *Store {
	return &Store{
		defs:     defs,
		index:    make(map[TileID]*Tile),
		nextUnit: 1,
	}
}

// Definitions returns the unit definition registry.
func (s *Store) Definitions() *Registry {
	return s.defs
}

// AddTile registers a tile. IDs must be unique.
func (s *Store) AddTile(def TileDef) (*Tile, error) {
	if _, dup := s.index[def.ID]; dup {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateTile, def.ID)
	}
	t := &Tile{
		ID:            def.ID,
		Name:          def.Name,
		Owner:         def.Owner,
		Terrain:       def.Terrain,
		Defense:       def.Defense,
		VictoryPoints: def.VictoryPoints,
		Pos:           def.Pos,
	}
	s.tiles = append(s.tiles, t)
	s.index[t.ID] = t
	return t, nil
}

// Tile returns the tile with the given ID.
func (s *Store) Tile(id TileID) (*Tile, error) {
	t, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}
	return t, nil
}

// Tiles returns all tiles in load order.
func (s *Store) Tiles() []*Tile {
	out := make([]*Tile, len(s.tiles))
	copy(out, s.tiles)
	return out
}

// TileCount returns the number of tiles in the store.
func (s *Store) TileCount() int {
	return len(s.tiles)
}

// Spawn creates a fresh unit of the given type on a tile. Units are only
// created while a scenario is loaded.
func (s *Store) Spawn(id TileID, unitType string) (*Unit, error) {
	t, err := s.Tile(id)
	if err != nil {
		return nil, err
	}
	def, ok := s.defs.Get(unitType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnitType, unitType)
	}
	if def.Faction != Neutral && def.Faction != t.Owner {
		return nil, fmt.Errorf("%w: %s belongs to %s, tile %d is %s",
			ErrFactionRestricted, unitType, def.Faction, id, t.Owner)
	}
	if t.Room() < 1 {
		return nil, fmt.Errorf("%w: tile %d", ErrStackFull, id)
	}
	u := newUnit(s.nextUnit, def)
	s.nextUnit++
	t.units = append(t.units, u)
	return u, nil
}

// UnitAt resolves a unit reference.
func (s *Store) UnitAt(ref UnitRef) (*Unit, error) {
	t, err := s.Tile(ref.Tile)
	if err != nil {
		return nil, err
	}
	return t.Unit(ref.Index)
}

// Definition returns the definition of a unit. Units are only created from
// registered types, so the lookup cannot miss.
func (s *Store) Definition(u *Unit) UnitDefinition {
	d, _ := s.defs.Get(u.Type)
	return d
}

// HexSide returns the current scale.
func (s *Store) HexSide() float64 {
	return s.hexSide
}

// SetHexSide changes the scale and drops every cached tile geometry.
func (s *Store) SetHexSide(side float64) error {
	if side <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidScale, side)
	}
	s.hexSide = side
	for _, t := range s.tiles {
		t.invalidate()
	}
	return nil
}

// Center returns the geometric center of a tile at the current scale.
func (s *Store) Center(id TileID) (geom.Point, error) {
	t, err := s.Tile(id)
	if err != nil {
		return geom.Point{}, err
	}
	return t.Center(s.hexSide), nil
}

// Transfer moves the given units from one tile to another, appending them to
// the destination stack in the order given. Nothing moves unless every unit
// is on the source tile and the destination has room for all of them.
func (s *Store) Transfer(from, to TileID, ids []UnitID) error {
	src, err := s.Tile(from)
	if err != nil {
		return err
	}
	dst, err := s.Tile(to)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	moving := make(map[UnitID]bool, len(ids))
	for _, id := range ids {
		if moving[id] {
			return fmt.Errorf("%w: unit %d", ErrDuplicateUnit, id)
		}
		if !src.Contains(id) {
			return fmt.Errorf("%w: unit %d, tile %d", ErrUnitNotOnTile, id, from)
		}
		moving[id] = true
	}
	if len(ids) > dst.Room() {
		return fmt.Errorf("%w: tile %d holds %d, %d arriving", ErrStackFull, to, dst.UnitCount(), len(ids))
	}

	kept := src.units[:0:0]
	byID := make(map[UnitID]*Unit, len(ids))
	for _, u := range src.units {
		if moving[u.ID] {
			byID[u.ID] = u
			continue
		}
		kept = append(kept, u)
	}
	src.units = kept
	for _, id := range ids {
		dst.units = append(dst.units, byID[id])
	}
	return nil
}

// RemoveDead drops every unit with no hit points left from a tile and
// returns the removed units.
func (s *Store) RemoveDead(id TileID) ([]*Unit, error) {
	t, err := s.Tile(id)
	if err != nil {
		return nil, err
	}
	var dead []*Unit
	alive := t.units[:0:0]
	for _, u := range t.units {
		if u.Alive() {
			alive = append(alive, u)
		} else {
			dead = append(dead, u)
		}
	}
	t.units = alive
	return dead, nil
}

// FactionUnits returns every unit standing on tiles owned by the faction.
func (s *Store) FactionUnits(f Faction) []*Unit {
	var out []*Unit
	for _, t := range s.tiles {
		if t.Owner == f {
			out = append(out, t.units...)
		}
	}
	return out
}

// String returns a summary of the store.
func (s *Store) String() string {
	return fmt.Sprintf("Store(tiles=%d, hexSide=%.2f)", len(s.tiles), s.hexSide)
}
