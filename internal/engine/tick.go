package engine

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// Clock tracks the turn counter and which faction is moving.
type Clock struct {
	factions []world.Faction
	active   int
	turn     int // 1-based, advances after the last faction ends its move

	// Callbacks populated during setup.
	OnFactionStart func(f world.Faction, turn int) // Each faction's move
	OnTurn         func(turn int)                  // Each full turn, after the last faction
}

// NewClock creates a clock at turn 1 with the first faction active.
func NewClock(factions []world.Faction) (*Clock, error) {
	if len(factions) == 0 {
		return nil, ErrNoFactions
	}
	seen := make(map[world.Faction]bool, len(factions))
	for _, f := range factions {
		if f == world.Neutral || seen[f] {
			return nil, fmt.Errorf("faction order: invalid or repeated faction %q", f)
		}
		seen[f] = true
	}
	order := make([]world.Faction, len(factions))
	copy(order, factions)
	return &Clock{factions: order, turn: 1}, nil
}

// Turn returns the current turn number.
func (c *Clock) Turn() int { return c.turn }

// Active returns the faction whose move it is.
func (c *Clock) Active() world.Faction { return c.factions[c.active] }

// Factions returns the turn order.
func (c *Clock) Factions() []world.Faction {
	out := make([]world.Faction, len(c.factions))
	copy(out, c.factions)
	return out
}

// Advance hands the move to the next faction, starting a new turn after the
// last one.
func (c *Clock) Advance() {
	c.active++
	if c.active == len(c.factions) {
		c.active = 0
		if c.OnTurn != nil {
			c.OnTurn(c.turn)
		}
		c.turn++
		slog.Info("turn complete", "next", TurnLabel(c.turn))
	}
	if c.OnFactionStart != nil {
		c.OnFactionStart(c.Active(), c.turn)
	}
}

// TurnLabel returns a human-readable turn name such as "3rd turn".
func TurnLabel(turn int) string {
	return humanize.Ordinal(turn) + " turn"
}
