package combat

import "github.com/wanjin1234/three-kingdoms/internal/world"

// casualty is a unit that can absorb a damage or confusion point.
type casualty struct {
	unit    *world.Unit
	defense int // base defense from the definition
}

// pick returns the living unit that absorbs the next point: uninjured units
// before injured ones, then lower base defense, then stack order. It returns
// nil when nobody is left alive.
func pick(pool []casualty) *world.Unit {
	var best *casualty
	for i := range pool {
		c := &pool[i]
		if !c.unit.Alive() {
			continue
		}
		if best == nil || before(c, best) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	return best.unit
}

func before(a, b *casualty) bool {
	if a.unit.Injured() != b.unit.Injured() {
		return !a.unit.Injured()
	}
	return a.defense < b.defense
}

// damage applies n hit points one at a time, re-ranking after each.
func damage(pool []casualty, n int) {
	for i := 0; i < n; i++ {
		u := pick(pool)
		if u == nil {
			return
		}
		u.Hit()
	}
}

// confuse applies one confusion point. A unit already confused loses a hit
// point instead.
func confuse(pool []casualty) {
	if u := pick(pool); u != nil {
		u.Confuse()
	}
}
