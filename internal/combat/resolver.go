package combat

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wanjin1234/three-kingdoms/internal/adjacency"
	"github.com/wanjin1234/three-kingdoms/internal/geom"
	"github.com/wanjin1234/three-kingdoms/internal/pathing"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// AdvanceLimit is the most attackers that may occupy a cleared tile.
const AdvanceLimit = 2

// Die rolls a uniform integer in 1..6.
type Die interface {
	Roll() int
}

// Request names the units attacking a tile. A zero Dice rolls the resolver's
// die; any other value must be 1..6 and is used as is.
type Request struct {
	Attackers []world.UnitRef `json:"attackers"`
	Defender  world.TileID    `json:"defender"`
	Dice      int             `json:"dice,omitempty"`
}

// Resolver evaluates and resolves combat over an entity store. The graph must
// have been built at the store's current scale.
type Resolver struct {
	store *world.Store
	graph *adjacency.Graph
	die   Die
}

// NewResolver creates a resolver. die may be nil when every request carries
// its own dice value.
func NewResolver(s *world.Store, g *adjacency.Graph, die Die) *Resolver {
	return &Resolver{store: s, graph: g, die: die}
}

type participant struct {
	ref  world.UnitRef
	unit *world.Unit
	def  world.UnitDefinition
}

// engagement is a validated combat, ready to preview or resolve.
type engagement struct {
	attackers []participant
	defenders []participant
	origins   []world.TileID // distinct, in participation order
	target    *world.Tile
	attacker  world.Faction
	preview   Preview
}

// Evaluate computes the odds of an attack without touching any state.
func (r *Resolver) Evaluate(attackers []world.UnitRef, defender world.TileID) (*Preview, error) {
	e, err := r.engage(attackers, defender)
	if err != nil {
		return nil, err
	}
	p := e.preview
	return &p, nil
}

// Resolve rolls (or takes) the dice and applies the outcome. Every check runs
// before the first mutation, so a rejected request leaves the store untouched.
func (r *Resolver) Resolve(req Request) (*Report, error) {
	e, err := r.engage(req.Attackers, req.Defender)
	if err != nil {
		return nil, err
	}
	dice := req.Dice
	switch {
	case dice == 0 && r.die == nil:
		return nil, fmt.Errorf("resolve combat: %w", ErrNoDie)
	case dice == 0:
		dice = r.die.Roll()
	}
	if dice < 1 || dice > 6 {
		return nil, fmt.Errorf("resolve combat: %w: %d", ErrInvalidDice, dice)
	}
	return r.apply(e, dice), nil
}

func (r *Resolver) engage(refs []world.UnitRef, defender world.TileID) (*engagement, error) {
	if len(refs) == 0 {
		return nil, ErrNoAttackers
	}
	if err := r.graph.CheckScale(r.store.HexSide()); err != nil {
		return nil, err
	}
	target, err := r.store.Tile(defender)
	if err != nil {
		return nil, err
	}
	if target.UnitCount() == 0 {
		return nil, fmt.Errorf("%w: tile %d", ErrNoDefenders, defender)
	}

	e := &engagement{target: target}
	side := r.store.HexSide()
	step := adjacency.StepDistance(side)
	targetCenter := target.Center(side)
	seen := make(map[world.UnitID]bool, len(refs))
	seenTile := make(map[world.TileID]bool)

	for i, ref := range refs {
		origin, err := r.store.Tile(ref.Tile)
		if err != nil {
			return nil, err
		}
		u, err := origin.Unit(ref.Index)
		if err != nil {
			return nil, fmt.Errorf("attacker %d: %w", i, err)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("attacker %d: %w: unit %d", i, world.ErrDuplicateUnit, u.ID)
		}
		seen[u.ID] = true

		if i == 0 {
			e.attacker = origin.Owner
		} else if origin.Owner != e.attacker {
			return nil, fmt.Errorf("%w: %s and %s", ErrMixedFactions, e.attacker, origin.Owner)
		}

		def := r.store.Definition(u)
		reach := float64(def.Range) * step * adjacency.Slack
		if d := geom.Dist(origin.Center(side), targetCenter); d > reach {
			return nil, fmt.Errorf("%w: unit %d on tile %d is %.1f away, range %.1f",
				ErrOutOfRange, u.ID, origin.ID, d, reach)
		}

		e.attackers = append(e.attackers, participant{ref: ref, unit: u, def: def})
		if !seenTile[origin.ID] {
			seenTile[origin.ID] = true
			e.origins = append(e.origins, origin.ID)
		}
	}
	if target.Owner == e.attacker {
		return nil, fmt.Errorf("%w: tile %d", ErrFriendlyTarget, defender)
	}

	for i, u := range target.Units() {
		e.defenders = append(e.defenders, participant{
			ref:  world.UnitRef{Tile: defender, Index: i},
			unit: u,
			def:  r.store.Definition(u),
		})
	}

	e.preview = r.odds(e, targetCenter, step)
	if e.preview.Attack <= 0 {
		return nil, ErrNoAttackPower
	}
	return e, nil
}

func (r *Resolver) odds(e *engagement, targetCenter geom.Point, step float64) Preview {
	archetypes := make([]world.Archetype, len(e.defenders))
	defense := 0.0
	for i, d := range e.defenders {
		archetypes[i] = d.def.Archetype
		defense += UnitPower(d.def.Defense, d.unit)
	}
	if defense < DefenseFloor {
		defense = DefenseFloor
	}

	attack := 0.0
	for _, a := range e.attackers {
		attack += UnitPower(a.def.Attack, a.unit) + Matchup(a.def.Archetype, archetypes)
	}

	adjacent := 0
	side := r.store.HexSide()
	for _, id := range e.origins {
		origin, _ := r.store.Tile(id)
		if geom.Dist(origin.Center(side), targetCenter) < step*adjacency.Slack {
			adjacent++
		}
	}
	flanked := adjacent >= 2
	col := RatioColumn(attack, defense, flanked)

	return Preview{
		Attack:  attack,
		Defense: defense,
		Ratio:   attack / defense,
		Column:  col,
		Label:   ColumnLabels[col],
		Flanked: flanked,
	}
}

func (r *Resolver) apply(e *engagement, dice int) *Report {
	result := Lookup(dice, e.preview.Column)
	fx := result.Effects()

	rep := &Report{
		ID:       uuid.NewString(),
		Attacker: e.attacker,
		Defender: e.target.Owner,
		Origins:  e.origins,
		Target:   e.target.ID,
		Preview:  e.preview,
		Dice:     dice,
		Result:   result,
	}
	initial := snapshot(e)

	atkPool := pool(e.attackers)
	defPool := pool(e.defenders)

	if fx.AttackerConfusion {
		confuse(atkPool)
	}
	if fx.DefenderConfusion {
		confuse(defPool)
	}
	damage(atkPool, fx.AttackerHits)
	damage(defPool, fx.DefenderHits)

	if fx.DefenderRetreat {
		r.retreat(e, defPool, rep)
	}

	for _, a := range e.attackers {
		a.unit.Fatigue()
	}

	r.cleanup(e)

	if e.target.UnitCount() == 0 {
		r.advance(e, rep)
	}

	rep.Units = deltas(initial)
	atk, def := rep.Losses()
	slog.Info("combat resolved",
		"id", rep.ID,
		"attacker", rep.Attacker,
		"defender", rep.Defender,
		"target", rep.Target,
		"column", rep.Label,
		"dice", dice,
		"result", string(result),
		"attacker_losses", atk,
		"defender_losses", def,
		"captured", rep.Captured,
	)
	return rep
}

// retreat moves the surviving defenders to the first neighbor they can reach
// for at most one move point. With nowhere to go they take one extra hit.
func (r *Resolver) retreat(e *engagement, defPool []casualty, rep *Report) {
	var survivors []world.UnitID
	for _, d := range e.defenders {
		if d.unit.Alive() {
			survivors = append(survivors, d.unit.ID)
		}
	}
	if len(survivors) == 0 {
		return
	}

	owner := e.target.Owner
	for _, n := range r.graph.Neighbors(e.target.ID) {
		dst, err := r.store.Tile(n)
		if err != nil {
			continue
		}
		if dst.Owner != owner && dst.UnitCount() > 0 {
			continue
		}
		if dst.Room() < len(survivors) {
			continue
		}
		if c, err := pathing.StepCost(r.store, r.graph, e.target.ID, n); err != nil || c > 1 {
			continue
		}
		if err := r.store.Transfer(e.target.ID, n, survivors); err != nil {
			slog.Warn("retreat transfer failed", "from", e.target.ID, "to", n, "error", err)
			continue
		}
		if dst.Owner != owner {
			rep.RetreatCaptured = true
			rep.RetreatTakenFrom = dst.Owner
		}
		dst.Owner = owner
		rep.Retreated = true
		rep.RetreatTo = n
		return
	}

	rep.RetreatBlocked = true
	damage(defPool, 1)
}

func (r *Resolver) cleanup(e *engagement) {
	for _, id := range append([]world.TileID{e.target.ID}, e.origins...) {
		dead, err := r.store.RemoveDead(id)
		if err != nil {
			continue
		}
		for _, u := range dead {
			slog.Debug("unit destroyed", "unit", u.ID, "type", u.Type, "tile", id)
		}
	}
}

// advance moves up to AdvanceLimit surviving attackers, in participation
// order, into the cleared target tile and hands it to the attacker.
func (r *Resolver) advance(e *engagement, rep *Report) {
	for _, a := range e.attackers {
		if len(rep.Advanced) >= AdvanceLimit {
			break
		}
		origin, err := r.store.Tile(a.ref.Tile)
		if err != nil || !a.unit.Alive() || !origin.Contains(a.unit.ID) {
			continue
		}
		if err := r.store.Transfer(origin.ID, e.target.ID, []world.UnitID{a.unit.ID}); err != nil {
			slog.Warn("advance transfer failed", "unit", a.unit.ID, "error", err)
			continue
		}
		rep.Advanced = append(rep.Advanced, a.unit.ID)
	}
	if len(rep.Advanced) > 0 {
		e.target.Owner = e.attacker
		rep.Captured = true
	}
}

func pool(ps []participant) []casualty {
	out := make([]casualty, len(ps))
	for i, p := range ps {
		out[i] = casualty{unit: p.unit, defense: p.def.Defense}
	}
	return out
}

type unitState struct {
	p        participant
	side     Side
	hp       int
	confused bool
}

func snapshot(e *engagement) []unitState {
	out := make([]unitState, 0, len(e.attackers)+len(e.defenders))
	for _, a := range e.attackers {
		out = append(out, unitState{p: a, side: SideAttacker, hp: a.unit.HP(), confused: a.unit.Confused()})
	}
	for _, d := range e.defenders {
		out = append(out, unitState{p: d, side: SideDefender, hp: d.unit.HP(), confused: d.unit.Confused()})
	}
	return out
}

func deltas(before []unitState) []UnitDelta {
	out := make([]UnitDelta, len(before))
	for i, s := range before {
		u := s.p.unit
		out[i] = UnitDelta{
			Unit:           u.ID,
			Type:           u.Type,
			Side:           s.side,
			Tile:           s.p.ref.Tile,
			HPBefore:       s.hp,
			HPAfter:        u.HP(),
			ConfusedBefore: s.confused,
			ConfusedAfter:  u.Confused(),
			Killed:         !u.Alive(),
		}
	}
	return out
}
