// Package pathing computes movement costs over the adjacency graph.
//
// Every step costs 1, plus 1 for entering hill or mountain terrain, plus 1
// for crossing a river edge. Leaving a rough tile costs 1 extra, charged once
// at the start of the path.
package pathing

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/wanjin1234/three-kingdoms/internal/adjacency"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// Unreachable is returned when no path exists. Callers treat any cost at or
// above Blocked as "cannot move here".
const (
	Unreachable = 9999
	Blocked     = 9000
)

// ErrNotInGraph means the tile exists but the graph was built without it.
var ErrNotInGraph = errors.New("tile not in adjacency graph")

// StepCost returns the cost of moving from a tile onto a neighbor, excluding
// the one-off charge for leaving rough ground.
func StepCost(s *world.Store, g *adjacency.Graph, from, to world.TileID) (int, error) {
	dst, err := s.Tile(to)
	if err != nil {
		return 0, err
	}
	if !g.Adjacent(from, to) {
		return Unreachable, nil
	}
	return stepCost(g, from, dst), nil
}

func stepCost(g *adjacency.Graph, from world.TileID, dst *world.Tile) int {
	cost := 1
	if dst.Terrain.Rough() {
		cost++
	}
	if g.RiverCrossing(from, dst.ID) {
		cost++
	}
	return cost
}

// Cost returns the cheapest movement cost from start to target, or
// Unreachable when the target cannot be reached.
func Cost(s *world.Store, g *adjacency.Graph, start, target world.TileID) (int, error) {
	if err := check(s, g, start); err != nil {
		return 0, err
	}
	if err := check(s, g, target); err != nil {
		return 0, err
	}
	if start == target {
		return 0, nil
	}
	dist := search(s, g, start, &target, Unreachable)
	if d, ok := dist[target]; ok {
		return d, nil
	}
	return Unreachable, nil
}

// Reachable returns every tile reachable from start within budget, with its
// cost. The start tile is included at cost 0.
func Reachable(s *world.Store, g *adjacency.Graph, start world.TileID, budget int) (map[world.TileID]int, error) {
	if err := check(s, g, start); err != nil {
		return nil, err
	}
	dist := search(s, g, start, nil, budget)
	dist[start] = 0
	return dist, nil
}

func check(s *world.Store, g *adjacency.Graph, id world.TileID) error {
	if _, err := s.Tile(id); err != nil {
		return err
	}
	if !g.Contains(id) {
		return fmt.Errorf("%w: %d", ErrNotInGraph, id)
	}
	return nil
}

// search runs Dijkstra from start. It stops early once target (if any) is
// settled and never expands beyond budget.
func search(s *world.Store, g *adjacency.Graph, start world.TileID, target *world.TileID, budget int) map[world.TileID]int {
	origin, _ := s.Tile(start)
	initial := 0
	if origin.Terrain.Rough() {
		initial = 1
	}

	dist := map[world.TileID]int{start: initial}
	settled := make(map[world.TileID]bool)

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &node{id: start, cost: initial})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if settled[cur.id] {
			continue
		}
		settled[cur.id] = true
		if target != nil && cur.id == *target {
			break
		}

		for _, n := range g.Neighbors(cur.id) {
			if settled[n] {
				continue
			}
			dst, err := s.Tile(n)
			if err != nil {
				continue
			}
			next := cur.cost + stepCost(g, cur.id, dst)
			if next > budget {
				continue
			}
			if old, ok := dist[n]; ok && next >= old {
				continue
			}
			dist[n] = next
			heap.Push(open, &node{id: n, cost: next})
		}
	}
	return dist
}

// --- Priority queue ---

type node struct {
	id   world.TileID
	cost int
}

type nodeHeap []*node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
