// Package adjacency derives the tile neighbor graph from tile centers.
// Two tiles are neighbors when their centers sit within one hex step (with
// slack), unless the segment between them crosses an impassable boundary.
// Edges crossing a river are kept but flagged.
package adjacency

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// Slack widens the neighbor and range radii to absorb rounding and packing
// error in the tile layout.
const Slack = 1.1

// ErrStale means the graph was built at a different scale than the one now
// in use and must be rebuilt before querying.
var ErrStale = errors.New("adjacency graph is stale")

type edge struct {
	from, to world.TileID
}

// Graph is the neighbor graph over tiles at one specific scale.
type Graph struct {
	hexSide   float64
	neighbors map[world.TileID][]world.TileID
	river     map[edge]bool
	edges     int
}

// StepDistance returns the center spacing of neighboring hexes at the given
// hex side.
func StepDistance(hexSide float64) float64 {
	return geom.Sqrt3 * hexSide
}

// Build computes the adjacency graph for the given tiles at hexSide. Rivers
// and boundaries are polylines in normalized map space. Neighbor lists follow
// tile order.
func Build(tiles []*world.Tile, hexSide float64, rivers, boundaries []geom.Polyline) (*Graph, error) {
	if hexSide <= 0 {
		return nil, fmt.Errorf("build adjacency: %w: %v", world.ErrInvalidScale, hexSide)
	}

	scaledRivers := scaleAll(rivers, hexSide)
	scaledWalls := scaleAll(boundaries, hexSide)
	threshold := Slack * StepDistance(hexSide)

	g := &Graph{
		hexSide:   hexSide,
		neighbors: make(map[world.TileID][]world.TileID, len(tiles)),
		river:     make(map[edge]bool),
	}

	blocked := 0
	for i, a := range tiles {
		ca := a.Center(hexSide)
		if _, ok := g.neighbors[a.ID]; !ok {
			g.neighbors[a.ID] = nil
		}
		for j := i + 1; j < len(tiles); j++ {
			b := tiles[j]
			cb := b.Center(hexSide)
			if geom.Dist(ca, cb) >= threshold {
				continue
			}
			if geom.CrossesAny(ca, cb, scaledWalls) {
				blocked++
				continue
			}
			g.neighbors[a.ID] = append(g.neighbors[a.ID], b.ID)
			g.neighbors[b.ID] = append(g.neighbors[b.ID], a.ID)
			g.edges++
			if geom.CrossesAny(ca, cb, scaledRivers) {
				g.river[edge{a.ID, b.ID}] = true
				g.river[edge{b.ID, a.ID}] = true
			}
		}
	}

	slog.Debug("adjacency built",
		"tiles", len(tiles),
		"edges", g.edges,
		"river_edges", len(g.river)/2,
		"blocked", blocked,
		"hex_side", hexSide,
	)
	return g, nil
}

func scaleAll(lines []geom.Polyline, hexSide float64) []geom.Polyline {
	out := make([]geom.Polyline, 0, len(lines))
	for _, pl := range lines {
		out = append(out, pl.Scaled(hexSide))
	}
	return out
}

// HexSide returns the scale the graph was built at.
func (g *Graph) HexSide() float64 {
	return g.hexSide
}

// CheckScale fails with ErrStale unless the graph was built at hexSide.
func (g *Graph) CheckScale(hexSide float64) error {
	if g == nil {
		return fmt.Errorf("%w: not built", ErrStale)
	}
	if g.hexSide != hexSide {
		return fmt.Errorf("%w: built at %v, scale is %v", ErrStale, g.hexSide, hexSide)
	}
	return nil
}

// StepDistance returns the neighbor center spacing at the graph's scale.
func (g *Graph) StepDistance() float64 {
	return StepDistance(g.hexSide)
}

// Neighbors returns the neighbors of a tile.
func (g *Graph) Neighbors(id world.TileID) []world.TileID {
	return g.neighbors[id]
}

// Contains reports whether the tile was part of the build.
func (g *Graph) Contains(id world.TileID) bool {
	_, ok := g.neighbors[id]
	return ok
}

// Adjacent reports whether two tiles share an unblocked edge.
func (g *Graph) Adjacent(a, b world.TileID) bool {
	for _, n := range g.neighbors[a] {
		if n == b {
			return true
		}
	}
	return false
}

// RiverCrossing reports whether stepping from a to b crosses a river.
func (g *Graph) RiverCrossing(from, to world.TileID) bool {
	return g.river[edge{from, to}]
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}
