package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)
	assert.Equal(t, a, b)
}

func TestGenerate_LatticeSpacing(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	defs := Generate(cfg)
	require.Len(t, defs, cfg.Columns*cfg.Rows)

	// Every tile has between two and six neighbors at exactly sqrt(3) scaled.
	for _, d := range defs {
		n := 0
		for _, o := range defs {
			if o.ID == d.ID {
				continue
			}
			dist := geom.Dist(geom.Scale(d.Pos, 1), geom.Scale(o.Pos, 1))
			if dist < 1.1*geom.Sqrt3 {
				assert.InDelta(t, geom.Sqrt3, dist, 1e-9)
				n++
			}
		}
		assert.GreaterOrEqual(t, n, 2, "tile %s", d.Name)
		assert.LessOrEqual(t, n, 6, "tile %s", d.Name)
	}
}

func TestGenerate_CitiesAndOwners(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 11
	defs := Generate(cfg)

	counts := TerrainCounts(defs)
	assert.LessOrEqual(t, counts[TerrainCity], cfg.Cities)
	assert.Positive(t, counts[TerrainCity])

	owners := map[Faction]int{}
	ids := map[TileID]bool{}
	for _, d := range defs {
		owners[d.Owner]++
		assert.False(t, ids[d.ID], "duplicate id %d", d.ID)
		ids[d.ID] = true
		if d.Terrain == TerrainCity {
			assert.Equal(t, 3.0, d.VictoryPoints)
		}
	}
	for _, f := range cfg.Factions {
		assert.Positive(t, owners[f], "faction %s owns nothing", f)
	}
}
