package engine

import (
	"fmt"
	"log/slog"

	"github.com/wanjin1234/three-kingdoms/internal/pathing"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// MoveReport describes a completed move.
type MoveReport struct {
	From     world.TileID   `json:"from"`
	To       world.TileID   `json:"to"`
	Units    []world.UnitID `json:"units"`
	Cost     int            `json:"cost"`
	Captured bool           `json:"captured"` // target changed hands
}

// Move marches units of one stack to a target tile. Every unit pays the path
// cost in move points and the target passes to the mover. Nothing changes
// unless every check passes.
func (g *Game) Move(faction world.Faction, refs []world.UnitRef, target world.TileID) (*MoveReport, error) {
	if faction != g.clock.Active() {
		return nil, fmt.Errorf("move: %w: %s, active is %s", ErrNotYourTurn, faction, g.clock.Active())
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("move: %w", ErrNoUnits)
	}
	from := refs[0].Tile
	src, err := g.Store.Tile(from)
	if err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	if src.Owner != faction {
		return nil, fmt.Errorf("move: %w: tile %d is %s", ErrNotOwner, from, src.Owner)
	}

	units := make([]*world.Unit, 0, len(refs))
	ids := make([]world.UnitID, 0, len(refs))
	seen := make(map[world.UnitID]bool, len(refs))
	for _, ref := range refs {
		if ref.Tile != from {
			return nil, fmt.Errorf("move: %w: %d and %d", ErrMixedSources, from, ref.Tile)
		}
		u, err := src.Unit(ref.Index)
		if err != nil {
			return nil, fmt.Errorf("move: %w", err)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("move: %w: unit %d", world.ErrDuplicateUnit, u.ID)
		}
		seen[u.ID] = true
		units = append(units, u)
		ids = append(ids, u.ID)
	}

	dst, err := g.Store.Tile(target)
	if err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	if target == from {
		return nil, fmt.Errorf("move: %w", ErrSameTile)
	}
	if dst.UnitCount() > 0 && dst.Owner != faction {
		return nil, fmt.Errorf("move: %w: tile %d", ErrTargetOccupied, target)
	}

	cost, err := g.PathCost(from, target)
	if err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	if cost >= pathing.Blocked {
		return nil, fmt.Errorf("move: %w: tile %d", ErrUnreachable, target)
	}
	for _, u := range units {
		if u.MovePoints() < cost {
			return nil, fmt.Errorf("move: %w: unit %d has %d, path costs %d",
				world.ErrNoMovePoints, u.ID, u.MovePoints(), cost)
		}
	}
	if dst.Room() < len(units) {
		return nil, fmt.Errorf("move: %w: tile %d", world.ErrStackFull, target)
	}

	if err := g.Store.Transfer(from, target, ids); err != nil {
		return nil, fmt.Errorf("move: %w", err)
	}
	for _, u := range units {
		if err := u.Spend(cost); err != nil {
			return nil, fmt.Errorf("move: %w", err)
		}
	}

	rep := &MoveReport{From: from, To: target, Units: ids, Cost: cost, Captured: dst.Owner != faction}
	dst.Owner = faction

	g.EmitEvent(Event{
		Turn:        g.clock.Turn(),
		Faction:     string(faction),
		Description: fmt.Sprintf("%s moves %d units from %s to %s", faction, len(ids), src.Name, dst.Name),
		Category:    "move",
		Meta:        map[string]any{"from": from, "to": target, "cost": cost},
	})
	if rep.Captured {
		g.EmitEvent(Event{
			Turn:        g.clock.Turn(),
			Faction:     string(faction),
			Description: fmt.Sprintf("%s occupies %s", faction, dst.Name),
			Category:    "capture",
		})
	}
	slog.Debug("move", "faction", faction, "from", from, "to", target, "units", len(ids), "cost", cost)
	return rep, nil
}
