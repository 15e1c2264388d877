package engine

import (
	"fmt"
	"log/slog"

	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// Active returns the faction whose move it is.
func (g *Game) Active() world.Faction {
	return g.clock.Active()
}

// Turn returns the current turn number.
func (g *Game) Turn() int {
	return g.clock.Turn()
}

// StartTurn refreshes every unit of the active faction: attack counts reset
// and move points return to the unit's definition, one short for a unit
// shaking off confusion.
func (g *Game) StartTurn() {
	f := g.clock.Active()
	units := g.Store.FactionUnits(f)
	recovered := 0
	for _, u := range units {
		if u.Confused() {
			recovered++
		}
		u.StartTurn(g.Store.Definition(u).Move)
	}
	g.EmitEvent(Event{
		Turn:        g.clock.Turn(),
		Faction:     string(f),
		Description: fmt.Sprintf("%s begins the %s", f, TurnLabel(g.clock.Turn())),
		Category:    "turn",
		Meta:        map[string]any{"units": len(units), "recovered": recovered},
	})
	slog.Info("turn started", "faction", f, "turn", g.clock.Turn(), "units", len(units), "recovered", recovered)
}

// EndTurn passes the move to the next faction and starts its turn.
func (g *Game) EndTurn() {
	g.clock.Advance()
	g.StartTurn()
}
