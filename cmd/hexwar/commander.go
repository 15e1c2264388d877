package main

import (
	"log/slog"

	"github.com/wanjin1234/three-kingdoms/internal/combat"
	"github.com/wanjin1234/three-kingdoms/internal/engine"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// minColumn is the worst odds the commander will attack at (2:1).
const minColumn = 2

// playTurn runs a fixed script for the active faction's move: every stack attacks an adjacent
// enemy stack when the odds are good enough, then stacks that did not fight
// march into an empty neighboring tile they do not hold.
func playTurn(g *engine.Game) {
	f := g.Active()
	fought := make(map[world.TileID]bool)

	for _, tile := range g.Store.Tiles() {
		if tile.Owner != f || tile.UnitCount() == 0 {
			continue
		}
		if attack(g, tile) {
			fought[tile.ID] = true
		}
	}

	arrived := make(map[world.TileID]bool)
	for _, tile := range g.Store.Tiles() {
		if tile.Owner != f || tile.UnitCount() == 0 || fought[tile.ID] || arrived[tile.ID] {
			continue
		}
		if to, ok := advance(g, tile); ok {
			arrived[to] = true
		}
	}
}

func attack(g *engine.Game, tile *world.Tile) bool {
	var refs []world.UnitRef
	for i, u := range tile.Units() {
		if u.AttackCount() == 0 {
			refs = append(refs, world.UnitRef{Tile: tile.ID, Index: i})
		}
	}
	if len(refs) == 0 {
		return false
	}

	for _, n := range g.Graph().Neighbors(tile.ID) {
		target, err := g.Store.Tile(n)
		if err != nil || target.Owner == tile.Owner || target.UnitCount() == 0 {
			continue
		}
		p, err := g.EvaluateCombat(refs, n)
		if err != nil || p.Column < minColumn {
			continue
		}
		if _, err := g.ResolveCombat(combat.Request{Attackers: refs, Defender: n}); err != nil {
			slog.Warn("attack failed", "from", tile.ID, "to", n, "error", err)
			continue
		}
		return true
	}
	return false
}

func advance(g *engine.Game, tile *world.Tile) (world.TileID, bool) {
	units := tile.Units()
	refs := make([]world.UnitRef, len(units))
	budget := units[0].MovePoints()
	for i, u := range units {
		refs[i] = world.UnitRef{Tile: tile.ID, Index: i}
		budget = min(budget, u.MovePoints())
	}

	for _, n := range g.Graph().Neighbors(tile.ID) {
		target, err := g.Store.Tile(n)
		if err != nil || target.Owner == tile.Owner || target.UnitCount() > 0 {
			continue
		}
		cost, err := g.PathCost(tile.ID, n)
		if err != nil || cost > budget {
			continue
		}
		if _, err := g.Move(tile.Owner, refs, n); err != nil {
			slog.Debug("advance failed", "from", tile.ID, "to", n, "error", err)
			continue
		}
		return n, true
	}
	return 0, false
}
