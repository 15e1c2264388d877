package engine

import "errors"

var (
	ErrNotYourTurn    = errors.New("faction is not active")
	ErrNotOwner       = errors.New("units belong to another faction")
	ErrNoUnits        = errors.New("no units selected")
	ErrMixedSources   = errors.New("units must move from one tile")
	ErrSameTile       = errors.New("target is the source tile")
	ErrTargetOccupied = errors.New("target holds enemy units")
	ErrUnreachable    = errors.New("target out of reach")
	ErrNoFactions     = errors.New("game needs at least one faction")
)
