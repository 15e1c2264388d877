// Package engine runs a game on top of the entity store: it owns the
// adjacency graph and rebuilds it when the scale changes, checks whose turn
// it is, moves stacks, resolves combat and keeps an event log.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/wanjin1234/three-kingdoms/internal/adjacency"
	"github.com/wanjin1234/three-kingdoms/internal/combat"
	"github.com/wanjin1234/three-kingdoms/internal/geom"
	"github.com/wanjin1234/three-kingdoms/internal/pathing"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// Game holds the complete match state and wires the systems together.
// Every method runs to completion before the next one may start.
type Game struct {
	Store      *world.Store
	Rivers     []geom.Polyline
	Boundaries []geom.Polyline
	Die        combat.Die

	graph  *adjacency.Graph
	clock  *Clock
	events []Event

	// OnCombat is called with every resolved combat report.
	OnCombat func(*combat.Report)
}

// NewGame builds the adjacency graph for the store's current scale and seats
// the factions in turn order.
func NewGame(s *world.Store, rivers, boundaries []geom.Polyline, factions []world.Faction, die combat.Die) (*Game, error) {
	clock, err := NewClock(factions)
	if err != nil {
		return nil, err
	}
	g := &Game{
		Store:      s,
		Rivers:     rivers,
		Boundaries: boundaries,
		Die:        die,
		clock:      clock,
	}
	if err := g.rebuild(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return g, nil
}

func (g *Game) rebuild() error {
	graph, err := adjacency.Build(g.Store.Tiles(), g.Store.HexSide(), g.Rivers, g.Boundaries)
	if err != nil {
		return err
	}
	g.graph = graph
	slog.Debug("adjacency rebuilt", "hex_side", g.Store.HexSide(), "edges", graph.EdgeCount())
	return nil
}

// SetHexSide changes the scale and rebuilds the adjacency graph before
// returning, so no query ever sees a stale graph.
func (g *Game) SetHexSide(side float64) error {
	if err := g.Store.SetHexSide(side); err != nil {
		return err
	}
	return g.rebuild()
}

// Graph returns the current adjacency graph.
func (g *Game) Graph() *adjacency.Graph {
	return g.graph
}

// Clock returns the turn clock.
func (g *Game) Clock() *Clock {
	return g.clock
}

// PathCost returns the movement cost between two tiles; costs at or above
// pathing.Blocked mean the target cannot be reached.
func (g *Game) PathCost(start, target world.TileID) (int, error) {
	if err := g.graph.CheckScale(g.Store.HexSide()); err != nil {
		return 0, err
	}
	return pathing.Cost(g.Store, g.graph, start, target)
}

// Reachable returns the tiles a stack on start can reach with budget move
// points, with their costs.
func (g *Game) Reachable(start world.TileID, budget int) (map[world.TileID]int, error) {
	if err := g.graph.CheckScale(g.Store.HexSide()); err != nil {
		return nil, err
	}
	return pathing.Reachable(g.Store, g.graph, start, budget)
}

// VictoryPoints sums tile victory values per owner. Neutral tiles are left
// out.
func (g *Game) VictoryPoints() map[world.Faction]float64 {
	out := make(map[world.Faction]float64)
	for _, f := range g.clock.Factions() {
		out[f] = 0
	}
	for _, t := range g.Store.Tiles() {
		if t.Owner == world.Neutral {
			continue
		}
		out[t.Owner] += t.VictoryPoints
	}
	return out
}

func (g *Game) resolver() *combat.Resolver {
	return combat.NewResolver(g.Store, g.graph, g.Die)
}
