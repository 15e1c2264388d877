package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanjin1234/three-kingdoms/internal/engine"
	"github.com/wanjin1234/three-kingdoms/internal/world"
	"github.com/wanjin1234/three-kingdoms/internal/world/worldtest"
)

type fixedDie int

func (d fixedDie) Roll() int { return int(d) }

// 3x3 lattice: WEI holds columns 0 and 1, SHU holds column 2.
func newGame(t *testing.T) *engine.Game {
	t.Helper()
	s := worldtest.Lattice(t, 3, 3, "WEI")
	for _, id := range []world.TileID{7, 8, 9} {
		worldtest.Tile(t, s, id).Owner = "SHU"
	}
	g, err := engine.NewGame(s, nil, nil, []world.Faction{"WEI", "SHU"}, fixedDie(4))
	require.NoError(t, err)
	g.StartTurn()
	return g
}

func categories(g *engine.Game) []string {
	var out []string
	for _, e := range g.Events(0) {
		out = append(out, e.Category)
	}
	return out
}

func TestPlayTurn_AttacksAtGoodOdds(t *testing.T) {
	g := newGame(t)
	worldtest.Spawn(t, g.Store, 4, "infantry", "infantry", "infantry")
	worldtest.Spawn(t, g.Store, 7, "infantry")

	playTurn(g)

	assert.Contains(t, categories(g), "combat")
	assert.Equal(t, world.Faction("WEI"), worldtest.Tile(t, g.Store, 7).Owner)
	assert.Equal(t, 1, worldtest.Tile(t, g.Store, 8).UnitCount(), "defender fell back")
}

func TestPlayTurn_DeclinesBadOddsAndAdvances(t *testing.T) {
	g := newGame(t)
	worldtest.Spawn(t, g.Store, 4, "infantry")
	worldtest.Spawn(t, g.Store, 7, "infantry", "infantry", "infantry")

	playTurn(g)

	assert.NotContains(t, categories(g), "combat")
	assert.Equal(t, 3, worldtest.Tile(t, g.Store, 7).UnitCount())
	assert.Equal(t, 1, worldtest.Tile(t, g.Store, 8).UnitCount())
	assert.Equal(t, world.Faction("WEI"), worldtest.Tile(t, g.Store, 8).Owner)
}

func TestPlayTurn_OnlyActiveFaction(t *testing.T) {
	g := newGame(t)
	worldtest.Spawn(t, g.Store, 8, "infantry", "infantry", "infantry")
	worldtest.Spawn(t, g.Store, 5, "infantry")

	playTurn(g)

	assert.NotContains(t, categories(g), "combat", "SHU does not strike on WEI's turn")
	assert.Equal(t, 3, worldtest.Tile(t, g.Store, 8).UnitCount())
	assert.Equal(t, world.Faction("SHU"), worldtest.Tile(t, g.Store, 8).Owner)
}
