package engine

import (
	"fmt"

	"github.com/wanjin1234/three-kingdoms/internal/combat"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// EvaluateCombat previews an attack without changing anything.
func (g *Game) EvaluateCombat(attackers []world.UnitRef, defender world.TileID) (*combat.Preview, error) {
	p, err := g.resolver().Evaluate(attackers, defender)
	if err != nil {
		return nil, fmt.Errorf("evaluate combat: %w", err)
	}
	return p, nil
}

// ResolveCombat resolves an attack by the active faction. A zero Dice in the
// request rolls the game's die.
func (g *Game) ResolveCombat(req combat.Request) (*combat.Report, error) {
	if len(req.Attackers) > 0 {
		origin, err := g.Store.Tile(req.Attackers[0].Tile)
		if err != nil {
			return nil, fmt.Errorf("resolve combat: %w", err)
		}
		if origin.Owner != g.clock.Active() {
			return nil, fmt.Errorf("resolve combat: %w: attackers are %s, active is %s",
				ErrNotYourTurn, origin.Owner, g.clock.Active())
		}
	}

	rep, err := g.resolver().Resolve(req)
	if err != nil {
		return nil, fmt.Errorf("resolve combat: %w", err)
	}

	target, _ := g.Store.Tile(rep.Target)
	g.EmitEvent(Event{
		Turn:        g.clock.Turn(),
		Faction:     string(rep.Attacker),
		Description: fmt.Sprintf("%s attacks %s at %s: %s", rep.Attacker, rep.Defender, target.Name, rep.Summary()),
		Category:    "combat",
		Meta:        map[string]any{"battle_id": rep.ID, "result": string(rep.Result), "dice": rep.Dice},
	})
	if rep.Captured {
		g.EmitEvent(Event{
			Turn:        g.clock.Turn(),
			Faction:     string(rep.Attacker),
			Description: fmt.Sprintf("%s takes %s from %s", rep.Attacker, target.Name, rep.Defender),
			Category:    "capture",
		})
	}
	if rep.RetreatCaptured {
		fallback, _ := g.Store.Tile(rep.RetreatTo)
		g.EmitEvent(Event{
			Turn:        g.clock.Turn(),
			Faction:     string(rep.Defender),
			Description: fmt.Sprintf("%s falls back into %s, taking it from %s", rep.Defender, fallback.Name, rep.RetreatTakenFrom),
			Category:    "capture",
			Meta:        map[string]any{"battle_id": rep.ID, "retreat": true},
		})
	}
	if g.OnCombat != nil {
		g.OnCombat(rep)
	}
	return rep, nil
}
