// Package worldtest builds small hex maps for tests.
package worldtest

import (
	"fmt"
	"testing"

	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// HexSide is the scale fixtures are built at.
const HexSide = 10.0

// ID returns the tile ID Lattice assigns to (col, row) on a map with the
// given number of rows.
func ID(col, row, rows int) world.TileID {
	return world.TileID(col*rows + row + 1)
}

// Lattice creates a cols x rows plain-terrain map owned by owner, scaled to
// HexSide, with the stock unit definitions.
func Lattice(t testing.TB, cols, rows int, owner world.Faction) *world.Store {
	t.Helper()
	reg, err := world.NewRegistry(world.DefaultDefinitions()...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	s := world.NewStore(reg)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			_, err := s.AddTile(world.TileDef{
				ID:            ID(c, r, rows),
				Name:          fmt.Sprintf("%c%d", 'A'+rune(c), r+1),
				Owner:         owner,
				Terrain:       world.TerrainPlain,
				VictoryPoints: 1,
				Pos:           world.LatticePos(c, r),
			})
			if err != nil {
				t.Fatalf("add tile: %v", err)
			}
		}
	}
	if err := s.SetHexSide(HexSide); err != nil {
		t.Fatalf("scale: %v", err)
	}
	return s
}

// Tile returns a tile or fails the test.
func Tile(t testing.TB, s *world.Store, id world.TileID) *world.Tile {
	t.Helper()
	tile, err := s.Tile(id)
	if err != nil {
		t.Fatalf("tile %d: %v", id, err)
	}
	return tile
}

// Spawn places units of the given types on a tile or fails the test.
func Spawn(t testing.TB, s *world.Store, id world.TileID, types ...string) []*world.Unit {
	t.Helper()
	out := make([]*world.Unit, 0, len(types))
	for _, typ := range types {
		u, err := s.Spawn(id, typ)
		if err != nil {
			t.Fatalf("spawn %s on %d: %v", typ, id, err)
		}
		out = append(out, u)
	}
	return out
}
