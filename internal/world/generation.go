// Map generation using layered simplex noise.
// Lays out a flat-topped hex lattice in normalized map space, then derives
// terrain from an elevation field and ownership from three regions.
package world

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Columns     int       // Hex columns, left to right
	Rows        int       // Hexes per column
	Seed        int64     // Random seed (0 = random)
	HillLvl     float64   // Elevation threshold for hills (0.0–1.0)
	MountainLvl float64   // Elevation threshold for mountains (0.0–1.0)
	Cities      int       // Number of cities to place
	Factions    []Faction // North, south-west, south-east
}

// DefaultGenConfig returns a map the size of the Three Kingdoms board.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Columns:     11,
		Rows:        9,
		Seed:        0,
		HillLvl:     0.58,
		MountainLvl: 0.74,
		Cities:      9,
		Factions:    []Faction{"WEI", "SHU", "WU"},
	}
}

// SmallTestConfig returns a tiny map for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Columns:     4,
		Rows:        3,
		Seed:        42,
		HillLvl:     0.6,
		MountainLvl: 0.8,
		Cities:      2,
		Factions:    []Faction{"WEI", "SHU", "WU"},
	}
}

// LatticePos returns the normalized position of the hex at (column, row).
// Columns are 1.5 units apart; odd columns sit half a row lower.
func LatticePos(col, row int) geom.Point {
	return geom.Point{
		X: 1 + 1.5*float64(col),
		Y: float64(row) + 0.5 + 0.5*float64(col%2),
	}
}

// Generate creates tile definitions for a complete map. IDs run column by
// column from 1.
func Generate(cfg GenConfig) []TileDef {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	borderNoise := opensimplex.NewNormalized(seed + 1)

	width := LatticePos(cfg.Columns-1, 0).X + 1
	height := float64(cfg.Rows) + 1

	defs := make([]TileDef, 0, cfg.Columns*cfg.Rows)
	elevation := make(map[TileID]float64, cfg.Columns*cfg.Rows)

	id := TileID(1)
	for c := 0; c < cfg.Columns; c++ {
		for r := 0; r < cfg.Rows; r++ {
			pos := LatticePos(c, r)

			elev := octaveNoise(elevNoise, pos.X, pos.Y, 4, 0.18, 0.5)
			wobble := (octaveNoise(borderNoise, pos.X, pos.Y, 2, 0.25, 0.5) - 0.5) * 1.5

			terrain := deriveTerrain(elev, cfg)
			def := TileDef{
				ID:            id,
				Name:          fmt.Sprintf("%c%d", 'A'+rune(c), r+1),
				Owner:         regionOwner(pos, width, height, wobble, cfg.Factions),
				Terrain:       terrain,
				Defense:       terrainDefense(terrain),
				VictoryPoints: 1,
				Pos:           pos,
			}
			defs = append(defs, def)
			elevation[id] = elev
			id++
		}
	}

	placeCities(defs, elevation, cfg, seed)
	return defs
}

// deriveTerrain determines terrain type from elevation.
func deriveTerrain(elev float64, cfg GenConfig) Terrain {
	if elev > cfg.MountainLvl {
		return TerrainMountain
	}
	if elev > cfg.HillLvl {
		return TerrainHill
	}
	return TerrainPlain
}

func terrainDefense(t Terrain) float64 {
	switch t {
	case TerrainHill:
		return 1
	case TerrainMountain, TerrainCity:
		return 2
	}
	return 0
}

// regionOwner splits the map into a northern realm and two southern realms
// divided east/west, with a noisy frontier.
func regionOwner(p geom.Point, width, height, wobble float64, factions []Faction) Faction {
	if len(factions) == 0 {
		return Neutral
	}
	if p.Y+wobble < height*0.45 || len(factions) == 1 {
		return factions[0]
	}
	if p.X+wobble < width*0.5 || len(factions) == 2 {
		return factions[1]
	}
	return factions[2]
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(defs []TileDef) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, d := range defs {
		counts[d.Terrain]++
	}
	return counts
}
