package combat

import "errors"

var (
	ErrNoAttackers    = errors.New("no attacking units")
	ErrNoDefenders    = errors.New("target tile has no defenders")
	ErrMixedFactions  = errors.New("attackers belong to different factions")
	ErrFriendlyTarget = errors.New("target tile is held by the attacking faction")
	ErrOutOfRange     = errors.New("attacker out of range")
	ErrNoAttackPower  = errors.New("total attack power is zero")
	ErrInvalidDice    = errors.New("dice roll must be 1..6")
	ErrNoDie          = errors.New("no die configured")
)
