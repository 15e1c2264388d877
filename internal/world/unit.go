package world

import (
	"fmt"
	"sort"
	"strings"
)

// UnitID identifies a unit for the whole game session.
type UnitID int

// MaxHP is the hit points of a fresh unit.
const MaxHP = 2

// FatigueLimit is the attack count at which a unit becomes confused.
const FatigueLimit = 2

// Archetype is the base troop family a unit type belongs to.
type Archetype uint8

const (
	ArchetypeNone     Archetype = iota // No matchup modifiers
	ArchetypeInfantry                  // Beats archers
	ArchetypeCavalry                   // Beats infantry
	ArchetypeArcher                    // Beats cavalry
)

// Beats reports whether a has the favorable matchup against b.
func (a Archetype) Beats(b Archetype) bool {
	switch a {
	case ArchetypeInfantry:
		return b == ArchetypeArcher
	case ArchetypeCavalry:
		return b == ArchetypeInfantry
	case ArchetypeArcher:
		return b == ArchetypeCavalry
	}
	return false
}

// String returns the archetype name.
func (a Archetype) String() string {
	switch a {
	case ArchetypeInfantry:
		return "infantry"
	case ArchetypeCavalry:
		return "cavalry"
	case ArchetypeArcher:
		return "archer"
	default:
		return "none"
	}
}

// ArchetypeOf derives the archetype from a unit type tag. Faction units such
// as "HUBAO_cavalry" share the archetype of their suffix.
func ArchetypeOf(unitType string) Archetype {
	tag := strings.ToLower(unitType)
	switch {
	case strings.HasSuffix(tag, "infantry"):
		return ArchetypeInfantry
	case strings.HasSuffix(tag, "cavalry"):
		return ArchetypeCavalry
	case strings.HasSuffix(tag, "archer"):
		return ArchetypeArcher
	}
	return ArchetypeNone
}

// UnitDefinition holds the immutable stats shared by every unit of a type.
type UnitDefinition struct {
	Type      string
	Move      int
	Attack    int
	Defense   int
	Range     int
	Faction   Faction // Neutral means any faction may field it
	Archetype Archetype
}

// DefaultDefinitions returns the stock troop types of the Three Kingdoms map.
func DefaultDefinitions() []UnitDefinition {
	return []UnitDefinition{
		{Type: "infantry", Move: 2, Attack: 3, Defense: 3, Range: 1},
		{Type: "cavalry", Move: 3, Attack: 3, Defense: 2, Range: 1},
		{Type: "archer", Move: 2, Attack: 4, Defense: 2, Range: 2},
		{Type: "JIEFAN_infantry", Move: 2, Attack: 4, Defense: 4, Range: 1, Faction: "WU"},
		{Type: "HUBAO_cavalry", Move: 4, Attack: 4, Defense: 3, Range: 1, Faction: "WEI"},
		{Type: "WUDANG_archer", Move: 2, Attack: 4, Defense: 3, Range: 2, Faction: "SHU"},
	}
}

// Registry is the read-only set of unit definitions for a game.
type Registry struct {
	defs map[string]UnitDefinition
}

// NewRegistry validates and indexes unit definitions. A zero Archetype is
// derived from the type tag.
func NewRegistry(defs ...UnitDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]UnitDefinition, len(defs))}
	for _, d := range defs {
		if d.Type == "" {
			return nil, fmt.Errorf("%w: empty type tag", ErrInvalidDefinition)
		}
		if d.Move < 1 || d.Attack < 1 || d.Defense < 1 || d.Range < 1 {
			return nil, fmt.Errorf("%w: %s stats must be positive", ErrInvalidDefinition, d.Type)
		}
		if _, dup := r.defs[d.Type]; dup {
			return nil, fmt.Errorf("%w: duplicate type %s", ErrInvalidDefinition, d.Type)
		}
		if d.Archetype == ArchetypeNone {
			d.Archetype = ArchetypeOf(d.Type)
		}
		r.defs[d.Type] = d
	}
	return r, nil
}

// Get returns the definition for a unit type.
func (r *Registry) Get(unitType string) (UnitDefinition, bool) {
	d, ok := r.defs[unitType]
	return d, ok
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.defs))
	for t := range r.defs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Unit is one member of a tile stack. Hit points, confusion, fatigue and
// move points change during play; everything else lives in the definition.
type Unit struct {
	ID   UnitID
	Type string

	hp         int
	confused   bool
	attacks    int
	movePoints int
}

func newUnit(id UnitID, def UnitDefinition) *Unit {
	return &Unit{ID: id, Type: def.Type, hp: MaxHP, movePoints: def.Move}
}

// HP returns the remaining hit points (0..2).
func (u *Unit) HP() int { return u.hp }

// Alive reports whether the unit still has hit points.
func (u *Unit) Alive() bool { return u.hp > 0 }

// Injured reports whether the unit has lost any hit points.
func (u *Unit) Injured() bool { return u.hp < MaxHP }

// Confused reports the confusion flag.
func (u *Unit) Confused() bool { return u.confused }

// AttackCount returns how many attacks the unit joined this turn.
func (u *Unit) AttackCount() int { return u.attacks }

// MovePoints returns the move points left this turn.
func (u *Unit) MovePoints() int { return u.movePoints }

// Hit removes one hit point.
func (u *Unit) Hit() {
	if u.hp > 0 {
		u.hp--
	}
}

// Confuse applies one point of confusion. A unit that is already confused
// loses a hit point instead; the return value reports that escalation.
func (u *Unit) Confuse() bool {
	if u.confused {
		u.Hit()
		return true
	}
	u.confused = true
	return false
}

// Fatigue records participation in an attack: one more attack, one less move
// point, and confusion once the fatigue limit is reached.
func (u *Unit) Fatigue() {
	u.attacks++
	if u.movePoints > 0 {
		u.movePoints--
	}
	if u.attacks >= FatigueLimit {
		u.confused = true
	}
}

// Spend deducts move points for a move.
func (u *Unit) Spend(cost int) error {
	if cost > u.movePoints {
		return fmt.Errorf("%w: unit %d has %d, needs %d", ErrNoMovePoints, u.ID, u.movePoints, cost)
	}
	u.movePoints -= cost
	return nil
}

// StartTurn refreshes the unit for its owner's turn. A confused unit shakes
// off the confusion but starts one move point short.
func (u *Unit) StartTurn(move int) {
	u.attacks = 0
	u.movePoints = move
	if u.confused {
		u.confused = false
		if u.movePoints > 0 {
			u.movePoints--
		}
	}
}

// SetStatus overwrites hit points and confusion, e.g. when a scenario starts
// mid-campaign.
func (u *Unit) SetStatus(hp int, confused bool) error {
	if hp < 1 || hp > MaxHP {
		return fmt.Errorf("%w: hp %d", ErrInvalidUnitState, hp)
	}
	u.hp = hp
	u.confused = confused
	return nil
}

// String returns a short description of the unit.
func (u *Unit) String() string {
	return fmt.Sprintf("Unit(%d %s hp=%d confused=%t attacks=%d move=%d)",
		u.ID, u.Type, u.hp, u.confused, u.attacks, u.movePoints)
}

// UnitRef addresses a unit by its tile and stack index.
type UnitRef struct {
	Tile  TileID `json:"tile" yaml:"tile"`
	Index int    `json:"index" yaml:"index"`
}
