package combat

import (
	"fmt"
	"strings"

	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// Side tells which half of an engagement a unit fought on.
type Side string

const (
	SideAttacker Side = "attacker"
	SideDefender Side = "defender"
)

// Preview is the outcome of evaluating an engagement without rolling.
type Preview struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
	Ratio   float64 `json:"ratio"`
	Column  int     `json:"column"`
	Label   string  `json:"label"`
	Flanked bool    `json:"flanked"`
}

// UnitDelta records how one participating unit came out of combat.
type UnitDelta struct {
	Unit           world.UnitID `json:"unit"`
	Type           string       `json:"type"`
	Side           Side         `json:"side"`
	Tile           world.TileID `json:"tile"` // tile the unit fought from
	HPBefore       int          `json:"hp_before"`
	HPAfter        int          `json:"hp_after"`
	ConfusedBefore bool         `json:"confused_before"`
	ConfusedAfter  bool         `json:"confused_after"`
	Killed         bool         `json:"killed"`
}

// Report is the full record of one resolved combat.
type Report struct {
	ID       string         `json:"id"`
	Attacker world.Faction  `json:"attacker"`
	Defender world.Faction  `json:"defender"`
	Origins  []world.TileID `json:"origins"`
	Target   world.TileID   `json:"target"`

	Preview
	Dice   int    `json:"dice"`
	Result Result `json:"result"`

	Units            []UnitDelta    `json:"units"`
	RetreatTo        world.TileID   `json:"retreat_to,omitempty"`
	Retreated        bool           `json:"retreated"`
	RetreatBlocked   bool           `json:"retreat_blocked"`
	RetreatCaptured  bool           `json:"retreat_captured"` // the retreat tile changed hands
	RetreatTakenFrom world.Faction  `json:"retreat_taken_from,omitempty"`
	Advanced         []world.UnitID `json:"advanced,omitempty"`
	Captured         bool           `json:"captured"`
}

// Losses returns the hit points lost by each side.
func (r *Report) Losses() (attacker, defender int) {
	for _, d := range r.Units {
		lost := d.HPBefore - d.HPAfter
		if d.Side == SideAttacker {
			attacker += lost
		} else {
			defender += lost
		}
	}
	return attacker, defender
}

// Killed returns the units removed from the map on one side.
func (r *Report) Killed(side Side) []world.UnitID {
	var out []world.UnitID
	for _, d := range r.Units {
		if d.Side == side && d.Killed {
			out = append(out, d.Unit)
		}
	}
	return out
}

// Summary returns a one-line description such as
// "3:1 dice 4 DR, losses 0/0, retreated to 12".
func (r *Report) Summary() string {
	atk, def := r.Losses()
	var b strings.Builder
	fmt.Fprintf(&b, "%s dice %d %s, losses %d/%d", r.Label, r.Dice, r.Result, atk, def)
	if r.Flanked {
		b.WriteString(", flanked")
	}
	switch {
	case r.Retreated:
		fmt.Fprintf(&b, ", retreated to %d", r.RetreatTo)
		if r.RetreatCaptured {
			fmt.Fprintf(&b, " (taken from %s)", ownerName(r.RetreatTakenFrom))
		}
	case r.RetreatBlocked:
		b.WriteString(", retreat blocked")
	}
	if r.Captured {
		fmt.Fprintf(&b, ", tile %d taken by %s", r.Target, r.Attacker)
	}
	return b.String()
}

func ownerName(f world.Faction) string {
	if f == world.Neutral {
		return "neutral"
	}
	return string(f)
}
