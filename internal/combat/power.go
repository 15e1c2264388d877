package combat

import "github.com/wanjin1234/three-kingdoms/internal/world"

// DefenseFloor keeps the attack:defense ratio finite.
const DefenseFloor = 0.1

// MatchupBonus is added for a favorable archetype matchup and subtracted for
// an unfavorable one.
const MatchupBonus = 0.5

// UnitPower returns the effective attack or defense of a unit given the base
// stat: halved when injured, then one less when confused, never negative.
func UnitPower(base int, u *world.Unit) float64 {
	p := float64(base)
	if u.Injured() {
		p *= 0.5
	}
	if u.Confused() {
		p--
	}
	if p < 0 {
		return 0
	}
	return p
}

// Matchup returns the archetype modifier of one attacker against the whole
// defending stack. A mixed stack can yield both the bonus and the penalty.
func Matchup(attacker world.Archetype, defenders []world.Archetype) float64 {
	var favorable, unfavorable bool
	for _, d := range defenders {
		if attacker.Beats(d) {
			favorable = true
		}
		if d.Beats(attacker) {
			unfavorable = true
		}
	}
	mod := 0.0
	if favorable {
		mod += MatchupBonus
	}
	if unfavorable {
		mod -= MatchupBonus
	}
	return mod
}
