package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanjin1234/three-kingdoms/internal/adjacency"
	"github.com/wanjin1234/three-kingdoms/internal/pathing"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

const sample = `
name: Red Cliffs
hex_side: 20
factions: [WEI, WU]
tiles:
  - {id: 1, name: Wulin, owner: WEI, terrain: plain, vp: 1, x: 1, y: 0.5,
     units: [{type: infantry}, {type: HUBAO_cavalry, hp: 1}]}
  - {id: 2, name: Chibi, owner: WU, terrain: hill, defense: 1, vp: 2, x: 1, y: 1.5,
     units: [{type: archer, confused: true}]}
  - {id: 3, name: Xiakou, owner: WU, terrain: city, defense: 2, vp: 3, x: 2.5, y: 1}
rivers:
  - [[0.5, 1.0], [1.5, 1.0]]
boundaries:
  - [[2.0, 0.0], [2.0, 0.2]]
`

func TestParseAndBuild(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "Red Cliffs", f.Name)

	setup, err := f.Build()
	require.NoError(t, err)
	s := setup.Store

	assert.Equal(t, 20.0, s.HexSide())
	assert.Equal(t, 3, s.TileCount())
	assert.Equal(t, []world.Faction{"WEI", "WU"}, setup.Factions)

	chibi, err := s.Tile(2)
	require.NoError(t, err)
	assert.Equal(t, world.TerrainHill, chibi.Terrain)
	assert.Equal(t, 2.0, chibi.VictoryPoints)
	require.Equal(t, 1, chibi.UnitCount())
	archer, _ := chibi.Unit(0)
	assert.True(t, archer.Confused())
	assert.Equal(t, world.MaxHP, archer.HP())

	wulin, err := s.Tile(1)
	require.NoError(t, err)
	hubao, _ := wulin.Unit(1)
	assert.Equal(t, "HUBAO_cavalry", hubao.Type)
	assert.Equal(t, 1, hubao.HP())

	require.Len(t, setup.Rivers, 1)
	assert.Len(t, setup.Rivers[0], 2)
	assert.Equal(t, 1.5, setup.Rivers[0][1].X)
	require.Len(t, setup.Boundaries, 1)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no tiles", `name: empty`, ErrInvalid},
		{"bad terrain", `tiles: [{id: 1, terrain: swamp}]`, world.ErrUnknownTerrain},
		{"bad id", `tiles: [{id: 0}]`, ErrInvalid},
		{"listed twice", `tiles: [{id: 1}, {id: 1}]`, ErrInvalid},
		{"unknown unit", `tiles: [{id: 1, units: [{type: chariot}]}]`, world.ErrUnknownUnitType},
		{"elite of another faction", `tiles: [{id: 1, owner: SHU, units: [{type: HUBAO_cavalry}]}]`, world.ErrFactionRestricted},
		{"overstacked", `tiles: [{id: 1, units: [{type: infantry}, {type: infantry}, {type: infantry}, {type: infantry}]}]`, world.ErrStackFull},
		{"bad hp", `tiles: [{id: 1, units: [{type: infantry, hp: 3}]}]`, world.ErrInvalidUnitState},
		{"bad unit def", `units: [{type: spear, move: 0, attack: 1, defense: 1, range: 1}]
tiles: [{id: 1}]`, world.ErrInvalidDefinition},
		{"negative scale", `hex_side: -2
tiles: [{id: 1}]`, world.ErrInvalidScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = f.Build()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_CustomUnitsAndDerivedFactions(t *testing.T) {
	f, err := Parse([]byte(`
units:
  - {type: spear_infantry, move: 1, attack: 2, defense: 4, range: 1}
tiles:
  - {id: 5, owner: SHU, units: [{type: spear_infantry}]}
  - {id: 6, owner: WEI}
  - {id: 7, owner: SHU}
  - {id: 8}
`))
	require.NoError(t, err)
	setup, err := f.Build()
	require.NoError(t, err)

	assert.Equal(t, []world.Faction{"SHU", "WEI"}, setup.Factions)
	assert.Equal(t, DefaultHexSide, setup.Store.HexSide())
	def, ok := setup.Store.Definitions().Get("spear_infantry")
	require.True(t, ok)
	assert.Equal(t, world.ArchetypeInfantry, def.Archetype)
	_, ok = setup.Store.Definitions().Get("cavalry")
	assert.False(t, ok, "custom units replace the stock list")
}

func TestBuild_GeneratedWithOverrides(t *testing.T) {
	f, err := Parse([]byte(`
factions: [WEI, SHU, WU]
generate: {columns: 4, rows: 3, seed: 42, cities: 1}
tiles:
  - {id: 1, name: Luoyang, owner: WEI, terrain: city, vp: 5, units: [{type: infantry}]}
  - {id: 20, name: Outpost, owner: WU, x: 8.5, y: 0.5}
`))
	require.NoError(t, err)
	setup, err := f.Build()
	require.NoError(t, err)
	s := setup.Store

	assert.Equal(t, 13, s.TileCount())
	luoyang, err := s.Tile(1)
	require.NoError(t, err)
	assert.Equal(t, "Luoyang", luoyang.Name)
	assert.Equal(t, 5.0, luoyang.VictoryPoints)
	assert.Equal(t, world.LatticePos(0, 0), luoyang.Pos, "keeps the generated position")
	assert.Equal(t, 1, luoyang.UnitCount())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Tiles, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("tiles: [oops"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	setup, err := f.Build()
	require.NoError(t, err)
	s := setup.Store

	assert.Equal(t, "Three Kingdoms", setup.Name)
	assert.Equal(t, 78, s.TileCount())
	assert.Equal(t, []world.Faction{"WEI", "SHU", "WU"}, setup.Factions)
	assert.Len(t, setup.Rivers, 3)
	assert.Len(t, setup.Boundaries, 1)

	capitals := map[world.TileID]struct {
		name  string
		owner world.Faction
		elite string
		count int
	}{
		11: {"Chengdu", "SHU", "WUDANG_archer", 1},
		51: {"Luoyang", "WEI", "HUBAO_cavalry", 1},
		75: {"Jianye", "WU", "JIEFAN_infantry", 2},
	}
	for id, want := range capitals {
		tile, err := s.Tile(id)
		require.NoError(t, err)
		assert.Equal(t, want.name, tile.Name)
		assert.Equal(t, want.owner, tile.Owner)
		assert.Equal(t, world.TerrainCity, tile.Terrain)
		assert.Equal(t, 5.0, tile.VictoryPoints)
		require.Equal(t, want.count, tile.UnitCount(), "tile %d", id)
		for _, u := range tile.Units() {
			assert.Equal(t, want.elite, u.Type)
		}
	}

	liangzhou, err := s.Tile(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, liangzhou.VictoryPoints)
	assert.Equal(t, 2.0, liangzhou.Defense)

	units, vp := 0, map[world.Faction]float64{}
	for _, tile := range s.Tiles() {
		units += tile.UnitCount()
		vp[tile.Owner] += tile.VictoryPoints
	}
	assert.Equal(t, 4, units)
	assert.Equal(t, map[world.Faction]float64{"WEI": 29.5, "SHU": 22.5, "WU": 18}, vp)
}

func TestDefault_YangtzeSeparatesWeiFromWu(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	setup, err := f.Build()
	require.NoError(t, err)
	s := setup.Store

	g, err := adjacency.Build(s.Tiles(), s.HexSide(), setup.Rivers, setup.Boundaries)
	require.NoError(t, err)

	// Hefei (WEI) and the WU plain south of it, across the Yangtze.
	hefei, below := world.TileID(62), world.TileID(63)
	assert.Equal(t, world.Faction("WEI"), worldOwner(t, s, hefei))
	assert.Equal(t, world.Faction("WU"), worldOwner(t, s, below))
	require.True(t, g.Adjacent(hefei, below))
	assert.True(t, g.RiverCrossing(hefei, below))
	assert.True(t, g.RiverCrossing(52, 53), "Luoyang's southern neighbor faces Wuchang across the river")

	cost, err := pathing.Cost(s, g, hefei, below)
	require.NoError(t, err)
	assert.Equal(t, 2, cost)
}

func worldOwner(t *testing.T, s *world.Store, id world.TileID) world.Faction {
	t.Helper()
	tile, err := s.Tile(id)
	require.NoError(t, err)
	return tile.Owner
}

func TestDefault_RoundTripsThroughYAML(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	data, err := f.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestGenerated(t *testing.T) {
	f := Generated(7)
	setup, err := f.Build()
	require.NoError(t, err)
	s := setup.Store

	assert.Equal(t, 99, s.TileCount())
	assert.Equal(t, []world.Faction{"WEI", "SHU", "WU"}, setup.Factions)
	assert.Empty(t, setup.Rivers)

	garrisoned := 0
	for _, tile := range s.Tiles() {
		assert.LessOrEqual(t, tile.UnitCount(), world.MaxStack)
		if tile.UnitCount() > 0 {
			garrisoned++
			assert.Equal(t, world.TerrainCity, tile.Terrain)
		}
	}
	assert.Positive(t, garrisoned)

	data, err := f.Marshal()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}
