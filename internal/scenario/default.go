package scenario

import (
	_ "embed"
	"fmt"

	"github.com/wanjin1234/three-kingdoms/internal/world"
)

//go:embed three_kingdoms.yaml
var threeKingdoms []byte

// Default returns the hand-built Three Kingdoms board: 78 tiles with their
// owners and victory values, the Yangtze and Yellow River, the impassable
// ridge, and each faction's elite troops in its capital.
func Default() (*File, error) {
	f, err := Parse(threeKingdoms)
	if err != nil {
		return nil, fmt.Errorf("default scenario: %w", err)
	}
	return f, nil
}

// eliteUnits maps each faction to its own troop type.
var eliteUnits = map[world.Faction]string{
	"WEI": "HUBAO_cavalry",
	"SHU": "WUDANG_archer",
	"WU":  "JIEFAN_infantry",
}

// Generated returns a procedural board the size of the Three Kingdoms map
// with a garrison in every city. The first city of each faction is its
// capital and also holds the faction's elite troops. Generated boards carry
// no rivers or boundaries.
func Generated(seed int64) *File {
	cfg := world.DefaultGenConfig()
	cfg.Seed = seed
	defs := world.Generate(cfg)

	f := &File{
		Name:    fmt.Sprintf("Generated %d", seed),
		HexSide: DefaultHexSide,
	}
	for _, fac := range cfg.Factions {
		f.Factions = append(f.Factions, string(fac))
	}

	capital := make(map[world.Faction]bool)
	for _, d := range defs {
		t := Tile{
			ID:      int(d.ID),
			Name:    d.Name,
			Owner:   string(d.Owner),
			Terrain: d.Terrain.String(),
			Defense: d.Defense,
			VP:      d.VictoryPoints,
			X:       d.Pos.X,
			Y:       d.Pos.Y,
		}
		if d.Terrain == world.TerrainCity && d.Owner != world.Neutral {
			t.Units = garrison(d.Owner, !capital[d.Owner])
			capital[d.Owner] = true
		}
		f.Tiles = append(f.Tiles, t)
	}
	return f
}

func garrison(owner world.Faction, capital bool) []Garrison {
	if !capital {
		return []Garrison{{Type: "infantry"}, {Type: "archer"}}
	}
	units := []Garrison{{Type: "infantry"}, {Type: "cavalry"}}
	if elite, ok := eliteUnits[owner]; ok {
		units = append(units, Garrison{Type: elite})
	}
	return units
}
