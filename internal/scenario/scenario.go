// Package scenario loads the starting state of a game from YAML: the tiles,
// the unit definitions, the garrisons, and the river and boundary lines.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

// DefaultHexSide is the scale used when a scenario does not set one.
const DefaultHexSide = 30.0

// ErrInvalid is returned for scenario files that parse but make no sense.
var ErrInvalid = errors.New("invalid scenario")

// File is the YAML layout of a scenario.
type File struct {
	Name       string         `yaml:"name"`
	HexSide    float64        `yaml:"hex_side"`
	Factions   []string       `yaml:"factions,omitempty"`
	Units      []UnitDef      `yaml:"units,omitempty"`    // empty means the stock definitions
	Generate   *Generate      `yaml:"generate,omitempty"` // procedural tiles, placed before Tiles
	Tiles      []Tile         `yaml:"tiles,omitempty"`
	Rivers     [][][2]float64 `yaml:"rivers,omitempty"`
	Boundaries [][][2]float64 `yaml:"boundaries,omitempty"`
}

// UnitDef is one unit type.
type UnitDef struct {
	Type    string `yaml:"type"`
	Move    int    `yaml:"move"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Range   int    `yaml:"range"`
	Faction string `yaml:"faction"`
}

// Generate asks for a procedurally generated map.
type Generate struct {
	Columns int   `yaml:"columns"`
	Rows    int   `yaml:"rows"`
	Seed    int64 `yaml:"seed"`
	Cities  int   `yaml:"cities"`
}

// Tile is one tile and its starting garrison.
type Tile struct {
	ID      int        `yaml:"id"`
	Name    string     `yaml:"name"`
	Owner   string     `yaml:"owner"`
	Terrain string     `yaml:"terrain"`
	Defense float64    `yaml:"defense"`
	VP      float64    `yaml:"vp"`
	X       float64    `yaml:"x"`
	Y       float64    `yaml:"y"`
	Units   []Garrison `yaml:"units,omitempty"`
}

// Garrison is a unit placed on a tile at the start. Zero HP means full
// strength.
type Garrison struct {
	Type     string `yaml:"type"`
	HP       int    `yaml:"hp,omitempty"`
	Confused bool   `yaml:"confused,omitempty"`
}

// Setup is a loaded scenario, ready to hand to the engine.
type Setup struct {
	Name       string
	Store      *world.Store
	Factions   []world.Faction
	Rivers     []geom.Polyline
	Boundaries []geom.Polyline
}

// Load reads and parses a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes scenario YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &f, nil
}

// Marshal encodes the scenario as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Build creates the entity store and map lines described by the file.
func (f *File) Build() (*Setup, error) {
	reg, err := f.registry()
	if err != nil {
		return nil, err
	}
	s := world.NewStore(reg)

	defs, err := f.tileDefs()
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no tiles", ErrInvalid)
	}
	for _, d := range defs {
		if _, err := s.AddTile(d); err != nil {
			return nil, fmt.Errorf("build scenario: %w", err)
		}
	}

	for _, t := range f.Tiles {
		for _, g := range t.Units {
			u, err := s.Spawn(world.TileID(t.ID), g.Type)
			if err != nil {
				return nil, fmt.Errorf("build scenario: tile %d: %w", t.ID, err)
			}
			if g.HP == 0 && !g.Confused {
				continue
			}
			hp := g.HP
			if hp == 0 {
				hp = world.MaxHP
			}
			if err := u.SetStatus(hp, g.Confused); err != nil {
				return nil, fmt.Errorf("build scenario: tile %d: %w", t.ID, err)
			}
		}
	}

	side := f.HexSide
	if side == 0 {
		side = DefaultHexSide
	}
	if err := s.SetHexSide(side); err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}

	return &Setup{
		Name:       f.Name,
		Store:      s,
		Factions:   f.factions(defs),
		Rivers:     polylines(f.Rivers),
		Boundaries: polylines(f.Boundaries),
	}, nil
}

func (f *File) registry() (*world.Registry, error) {
	if len(f.Units) == 0 {
		return world.NewRegistry(world.DefaultDefinitions()...)
	}
	defs := make([]world.UnitDefinition, len(f.Units))
	for i, u := range f.Units {
		defs[i] = world.UnitDefinition{
			Type:    u.Type,
			Move:    u.Move,
			Attack:  u.Attack,
			Defense: u.Defense,
			Range:   u.Range,
			Faction: world.Faction(u.Faction),
		}
	}
	reg, err := world.NewRegistry(defs...)
	if err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}
	return reg, nil
}

// tileDefs returns the generated tiles, if any, followed by the listed ones.
// A listed tile with the ID of a generated one replaces it.
func (f *File) tileDefs() ([]world.TileDef, error) {
	var defs []world.TileDef
	if f.Generate != nil {
		cfg := world.DefaultGenConfig()
		if f.Generate.Columns > 0 {
			cfg.Columns = f.Generate.Columns
		}
		if f.Generate.Rows > 0 {
			cfg.Rows = f.Generate.Rows
		}
		if f.Generate.Cities > 0 {
			cfg.Cities = f.Generate.Cities
		}
		cfg.Seed = f.Generate.Seed
		if len(f.Factions) > 0 {
			cfg.Factions = toFactions(f.Factions)
		}
		defs = world.Generate(cfg)
	}

	generated := make(map[world.TileID]int, len(defs))
	for i, d := range defs {
		generated[d.ID] = i
	}
	listed := make(map[world.TileID]bool, len(f.Tiles))
	for _, t := range f.Tiles {
		terrain, err := world.ParseTerrain(t.Terrain)
		if err != nil {
			return nil, fmt.Errorf("build scenario: tile %d: %w", t.ID, err)
		}
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: tile id %d", ErrInvalid, t.ID)
		}
		d := world.TileDef{
			ID:            world.TileID(t.ID),
			Name:          t.Name,
			Owner:         world.Faction(t.Owner),
			Terrain:       terrain,
			Defense:       t.Defense,
			VictoryPoints: t.VP,
			Pos:           geom.Point{X: t.X, Y: t.Y},
		}
		if listed[d.ID] {
			return nil, fmt.Errorf("%w: tile %d listed twice", ErrInvalid, t.ID)
		}
		listed[d.ID] = true
		if i, ok := generated[d.ID]; ok {
			// Keep the generated position unless the file moves the tile.
			if t.X == 0 && t.Y == 0 {
				d.Pos = defs[i].Pos
			}
			defs[i] = d
			continue
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// factions returns the declared turn order, or the tile owners in order of
// first appearance.
func (f *File) factions(defs []world.TileDef) []world.Faction {
	if len(f.Factions) > 0 {
		return toFactions(f.Factions)
	}
	var out []world.Faction
	seen := make(map[world.Faction]bool)
	for _, d := range defs {
		if d.Owner == world.Neutral || seen[d.Owner] {
			continue
		}
		seen[d.Owner] = true
		out = append(out, d.Owner)
	}
	return out
}

func toFactions(names []string) []world.Faction {
	out := make([]world.Faction, len(names))
	for i, n := range names {
		out[i] = world.Faction(n)
	}
	return out
}

func polylines(raw [][][2]float64) []geom.Polyline {
	out := make([]geom.Polyline, 0, len(raw))
	for _, line := range raw {
		pl := make(geom.Polyline, len(line))
		for i, p := range line {
			pl[i] = geom.Point{X: p[0], Y: p[1]}
		}
		out = append(out, pl)
	}
	return out
}
