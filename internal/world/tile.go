// Package world provides the entity store for the tactical map: hex tiles,
// the unit stacks standing on them, and the shared unit definitions.
// Tile positions are normalized (x_factor, y_factor) coordinates that are
// scaled into geometric space by the current hex side length.
package world

import (
	"fmt"
	"strings"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
)

// TileID identifies a tile for the whole game session.
type TileID int

// Faction tags the owner of a tile. The empty faction is neutral.
type Faction string

// Neutral is the owner of unclaimed tiles.
const Neutral Faction = ""

// MaxStack is the most units a single tile may hold.
const MaxStack = 3

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlain    Terrain = iota // Open ground
	TerrainHill                    // Rough; costs extra to enter and leave
	TerrainMountain                // Rough; costs extra to enter and leave
	TerrainCity                    // Walled settlement, normal movement
)

// Rough reports whether the terrain belongs to the hill/mountain family.
func (t Terrain) Rough() bool {
	return t == TerrainHill || t == TerrainMountain
}

// String returns the lowercase terrain name used in scenario files.
func (t Terrain) String() string {
	switch t {
	case TerrainPlain:
		return "plain"
	case TerrainHill:
		return "hill"
	case TerrainMountain:
		return "mountain"
	case TerrainCity:
		return "city"
	default:
		return "unknown"
	}
}

// ParseTerrain maps a scenario terrain name onto a Terrain.
func ParseTerrain(name string) (Terrain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain", "plains":
		return TerrainPlain, nil
	case "hill", "hills":
		return TerrainHill, nil
	case "mountain", "mountains":
		return TerrainMountain, nil
	case "city":
		return TerrainCity, nil
	}
	return TerrainPlain, fmt.Errorf("%w: %q", ErrUnknownTerrain, name)
}

// TileDef is the static description of a tile as delivered by a scenario.
type TileDef struct {
	ID            TileID
	Name          string
	Owner         Faction
	Terrain       Terrain
	Defense       float64
	VictoryPoints float64
	Pos           geom.Point // normalized x_factor, y_factor
}

// Tile is a single hex cell together with the units standing on it.
type Tile struct {
	ID            TileID
	Name          string
	Owner         Faction
	Terrain       Terrain
	Defense       float64
	VictoryPoints float64
	Pos           geom.Point

	units []*Unit

	// Geometry cache, valid only for cacheSide.
	cacheSide float64
	center    geom.Point
	vertices  [6]geom.Point
}

// Center returns the geometric center of the tile at the given hex side.
func (t *Tile) Center(hexSide float64) geom.Point {
	t.refresh(hexSide)
	return t.center
}

// Vertices returns the six hexagon corners at the given hex side.
func (t *Tile) Vertices(hexSide float64) [6]geom.Point {
	t.refresh(hexSide)
	return t.vertices
}

func (t *Tile) refresh(hexSide float64) {
	if t.cacheSide == hexSide && hexSide != 0 {
		return
	}
	t.center = geom.Scale(t.Pos, hexSide)
	t.vertices = geom.HexVertices(t.center, hexSide)
	t.cacheSide = hexSide
}

func (t *Tile) invalidate() {
	t.cacheSide = 0
}

// Units returns a copy of the tile's stack in stack order.
func (t *Tile) Units() []*Unit {
	out := make([]*Unit, len(t.units))
	copy(out, t.units)
	return out
}

// UnitCount returns how many units stand on the tile.
func (t *Tile) UnitCount() int {
	return len(t.units)
}

// Room returns how many more units fit on the tile.
func (t *Tile) Room() int {
	return MaxStack - len(t.units)
}

// Unit returns the unit at the given stack index.
func (t *Tile) Unit(index int) (*Unit, error) {
	if index < 0 || index >= len(t.units) {
		return nil, fmt.Errorf("%w: tile %d has %d units, index %d", ErrUnitIndex, t.ID, len(t.units), index)
	}
	return t.units[index], nil
}

// Contains reports whether the unit with the given ID is on the tile.
func (t *Tile) Contains(id UnitID) bool {
	for _, u := range t.units {
		if u.ID == id {
			return true
		}
	}
	return false
}

// String returns a short description of the tile.
func (t *Tile) String() string {
	return fmt.Sprintf("Tile(%d %s owner=%s terrain=%s units=%d)", t.ID, t.Name, t.Owner, t.Terrain, len(t.units))
}
