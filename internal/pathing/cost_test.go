package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanjin1234/three-kingdoms/internal/adjacency"
	"github.com/wanjin1234/three-kingdoms/internal/geom"
	"github.com/wanjin1234/three-kingdoms/internal/world"
	"github.com/wanjin1234/three-kingdoms/internal/world/worldtest"
)

// corridor builds a single column of three tiles: 1 above 2 above 3.
func corridor(t *testing.T, rivers, walls []geom.Polyline, rough ...world.TileID) (*world.Store, *adjacency.Graph) {
	t.Helper()
	s := worldtest.Lattice(t, 1, 3, "WEI")
	for _, id := range rough {
		worldtest.Tile(t, s, id).Terrain = world.TerrainHill
	}
	g, err := adjacency.Build(s.Tiles(), s.HexSide(), rivers, walls)
	require.NoError(t, err)
	return s, g
}

// edge12 lies on the border between tiles 1 and 2.
var edge12 = geom.Polyline{{X: 0.5, Y: 1.0}, {X: 1.5, Y: 1.0}}

func cost(t *testing.T, s *world.Store, g *adjacency.Graph, a, b world.TileID) int {
	t.Helper()
	c, err := Cost(s, g, a, b)
	require.NoError(t, err)
	return c
}

func TestCost_SameTileIsZero(t *testing.T) {
	s, g := corridor(t, nil, nil, 2)
	for _, tile := range s.Tiles() {
		assert.Equal(t, 0, cost(t, s, g, tile.ID, tile.ID))
	}
}

func TestCost_PlainCorridor(t *testing.T) {
	s, g := corridor(t, nil, nil)
	assert.Equal(t, 1, cost(t, s, g, 1, 2))
	assert.Equal(t, 2, cost(t, s, g, 1, 3))
	assert.Equal(t, 2, cost(t, s, g, 3, 1))
}

func TestCost_RoughAddsOne(t *testing.T) {
	s, g := corridor(t, nil, nil, 2)
	assert.Equal(t, 3, cost(t, s, g, 1, 3), "entering and leaving the hill")
	assert.Equal(t, 2, cost(t, s, g, 1, 2))
	assert.Equal(t, 2, cost(t, s, g, 2, 1), "starting on the hill")
	assert.Equal(t, 2, cost(t, s, g, 2, 3))
}

func TestCost_RoughTarget(t *testing.T) {
	s, g := corridor(t, nil, nil, 3)
	assert.Equal(t, 3, cost(t, s, g, 1, 3))
	assert.Equal(t, 3, cost(t, s, g, 3, 1))
}

func TestCost_RiverAddsOne(t *testing.T) {
	s, g := corridor(t, []geom.Polyline{edge12}, nil)
	assert.Equal(t, 2, cost(t, s, g, 1, 2))
	assert.Equal(t, 2, cost(t, s, g, 2, 1))
	assert.Equal(t, 3, cost(t, s, g, 1, 3))
	assert.Equal(t, 1, cost(t, s, g, 2, 3))
}

func TestCost_RoughAcrossRiverStacks(t *testing.T) {
	s, g := corridor(t, []geom.Polyline{edge12}, nil, 2)
	assert.Equal(t, 3, cost(t, s, g, 1, 2))
}

func TestCost_UnreachableBehindWall(t *testing.T) {
	s, g := corridor(t, nil, []geom.Polyline{edge12})
	c := cost(t, s, g, 1, 3)
	assert.Equal(t, Unreachable, c)
	assert.GreaterOrEqual(t, c, Blocked)
	assert.Equal(t, 1, cost(t, s, g, 2, 3))
}

func TestCost_PrefersCheaperDetour(t *testing.T) {
	s := worldtest.Lattice(t, 3, 3, "WEI")
	mid := worldtest.ID(0, 1, 3)
	worldtest.Tile(t, s, mid).Terrain = world.TerrainMountain
	// River between (0,1) and (0,2) makes the straight route cost 4.
	river := geom.Polyline{{X: 0.5, Y: 2.0}, {X: 1.5, Y: 2.0}}
	g, err := adjacency.Build(s.Tiles(), s.HexSide(), []geom.Polyline{river}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cost(t, s, g, worldtest.ID(0, 0, 3), worldtest.ID(0, 2, 3)))
}

func TestCost_InvalidReference(t *testing.T) {
	s, g := corridor(t, nil, nil)
	_, err := Cost(s, g, 1, 99)
	assert.ErrorIs(t, err, world.ErrUnknownTile)
	_, err = Cost(s, g, 99, 1)
	assert.ErrorIs(t, err, world.ErrUnknownTile)
}

func TestCost_TileMissingFromGraph(t *testing.T) {
	s, g := corridor(t, nil, nil)
	_, err := s.AddTile(world.TileDef{ID: 50, Pos: geom.Point{X: 1, Y: 3.5}})
	require.NoError(t, err)
	_, err = Cost(s, g, 1, 50)
	assert.ErrorIs(t, err, ErrNotInGraph)
}

func TestStepCost(t *testing.T) {
	s, g := corridor(t, []geom.Polyline{edge12}, nil, 3)
	c, err := StepCost(s, g, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c)

	c, err = StepCost(s, g, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, c)

	c, err = StepCost(s, g, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Unreachable, c)
}

func TestReachable_Budget(t *testing.T) {
	s, g := corridor(t, nil, nil)
	got, err := Reachable(s, g, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, map[world.TileID]int{1: 0, 2: 1}, got)

	got, err = Reachable(s, g, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, map[world.TileID]int{1: 0, 2: 1, 3: 2}, got)
}
