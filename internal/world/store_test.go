package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	reg, err := NewRegistry(DefaultDefinitions()...)
	require.NoError(t, err)
	s := NewStore(reg)
	_, err = s.AddTile(TileDef{ID: 1, Name: "Luoyang", Owner: "WEI", Pos: geom.Point{X: 1, Y: 1}})
	require.NoError(t, err)
	_, err = s.AddTile(TileDef{ID: 2, Name: "Xuchang", Owner: "WEI", Terrain: TerrainHill, Pos: geom.Point{X: 1, Y: 2}})
	require.NoError(t, err)
	_, err = s.AddTile(TileDef{ID: 3, Name: "Chengdu", Owner: "SHU", Pos: geom.Point{X: 2.5, Y: 1.5}})
	require.NoError(t, err)
	return s
}

func TestAddTile_DuplicateRejected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddTile(TileDef{ID: 1})
	assert.ErrorIs(t, err, ErrDuplicateTile)
	assert.Equal(t, 3, s.TileCount())
}

func TestTile_Unknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Tile(99)
	assert.ErrorIs(t, err, ErrUnknownTile)
}

func TestSpawn_StackLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < MaxStack; i++ {
		_, err := s.Spawn(1, "infantry")
		require.NoError(t, err)
	}
	_, err := s.Spawn(1, "cavalry")
	assert.ErrorIs(t, err, ErrStackFull)

	tile, _ := s.Tile(1)
	assert.Equal(t, MaxStack, tile.UnitCount())
	assert.Equal(t, 0, tile.Room())
}

func TestSpawn_FactionRestriction(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Spawn(3, "HUBAO_cavalry")
	assert.ErrorIs(t, err, ErrFactionRestricted)

	u, err := s.Spawn(1, "HUBAO_cavalry")
	require.NoError(t, err)
	assert.Equal(t, 4, u.MovePoints())
}

func TestSpawn_UnknownType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Spawn(1, "elephant")
	assert.ErrorIs(t, err, ErrUnknownUnitType)
}

func TestSpawn_AssignsDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Spawn(1, "infantry")
	require.NoError(t, err)
	b, err := s.Spawn(3, "infantry")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, MaxHP, a.HP())
	assert.False(t, a.Injured())
}

func TestUnitAt_IndexOutOfRange(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Spawn(1, "infantry")
	require.NoError(t, err)

	_, err = s.UnitAt(UnitRef{Tile: 1, Index: 1})
	assert.ErrorIs(t, err, ErrUnitIndex)
	_, err = s.UnitAt(UnitRef{Tile: 1, Index: -1})
	assert.ErrorIs(t, err, ErrUnitIndex)
	_, err = s.UnitAt(UnitRef{Tile: 42, Index: 0})
	assert.ErrorIs(t, err, ErrUnknownTile)
}

func TestTransfer_MovesInOrder(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Spawn(1, "infantry")
	b, _ := s.Spawn(1, "cavalry")
	c, _ := s.Spawn(1, "archer")

	require.NoError(t, s.Transfer(1, 2, []UnitID{c.ID, a.ID}))

	src, _ := s.Tile(1)
	dst, _ := s.Tile(2)
	require.Equal(t, 1, src.UnitCount())
	assert.Equal(t, b.ID, src.Units()[0].ID)
	require.Equal(t, 2, dst.UnitCount())
	assert.Equal(t, c.ID, dst.Units()[0].ID)
	assert.Equal(t, a.ID, dst.Units()[1].ID)
}

func TestTransfer_RejectsOverflowWithoutMutation(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Spawn(1, "infantry")
	b, _ := s.Spawn(1, "infantry")
	_, _ = s.Spawn(2, "infantry")
	_, _ = s.Spawn(2, "infantry")

	err := s.Transfer(1, 2, []UnitID{a.ID, b.ID})
	assert.ErrorIs(t, err, ErrStackFull)

	src, _ := s.Tile(1)
	dst, _ := s.Tile(2)
	assert.Equal(t, 2, src.UnitCount())
	assert.Equal(t, 2, dst.UnitCount())
}

func TestTransfer_RejectsForeignAndDuplicateUnits(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Spawn(1, "infantry")
	other, _ := s.Spawn(3, "infantry")

	assert.ErrorIs(t, s.Transfer(1, 2, []UnitID{other.ID}), ErrUnitNotOnTile)
	assert.ErrorIs(t, s.Transfer(1, 2, []UnitID{a.ID, a.ID}), ErrDuplicateUnit)

	src, _ := s.Tile(1)
	assert.Equal(t, 1, src.UnitCount())
}

func TestRemoveDead(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Spawn(1, "infantry")
	b, _ := s.Spawn(1, "cavalry")
	a.Hit()
	a.Hit()

	dead, err := s.RemoveDead(1)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, a.ID, dead[0].ID)

	tile, _ := s.Tile(1)
	require.Equal(t, 1, tile.UnitCount())
	assert.Equal(t, b.ID, tile.Units()[0].ID)
}

func TestSetHexSide_InvalidatesCenters(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetHexSide(10))
	c, err := s.Center(2)
	require.NoError(t, err)
	assert.InDelta(t, 10, c.X, 1e-9)
	assert.InDelta(t, 2*geom.Sqrt3*10, c.Y, 1e-9)

	require.NoError(t, s.SetHexSide(20))
	c, err = s.Center(2)
	require.NoError(t, err)
	assert.InDelta(t, 20, c.X, 1e-9)

	assert.ErrorIs(t, s.SetHexSide(0), ErrInvalidScale)
}

func TestFactionUnits(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Spawn(1, "infantry")
	_, _ = s.Spawn(2, "archer")
	_, _ = s.Spawn(3, "cavalry")
	assert.Len(t, s.FactionUnits("WEI"), 2)
	assert.Len(t, s.FactionUnits("SHU"), 1)
	assert.Empty(t, s.FactionUnits("WU"))
}
