package world

import "errors"

var (
	ErrUnknownTile       = errors.New("unknown tile")
	ErrDuplicateTile     = errors.New("duplicate tile id")
	ErrUnitIndex         = errors.New("unit index out of range")
	ErrUnknownUnitType   = errors.New("unknown unit type")
	ErrUnknownTerrain    = errors.New("unknown terrain")
	ErrInvalidDefinition = errors.New("invalid unit definition")
	ErrInvalidUnitState  = errors.New("invalid unit state")
	ErrStackFull         = errors.New("stack limit exceeded")
	ErrFactionRestricted = errors.New("unit type restricted to another faction")
	ErrNoMovePoints      = errors.New("not enough move points")
	ErrInvalidScale      = errors.New("hex side must be positive")
	ErrUnitNotOnTile     = errors.New("unit not on tile")
	ErrDuplicateUnit     = errors.New("unit listed twice")
)
