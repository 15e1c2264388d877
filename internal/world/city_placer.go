// City placement: picks the most defensible lowland tiles for walled cities.
package world

import (
	"math/rand"
	"sort"

	"github.com/wanjin1234/three-kingdoms/internal/geom"
)

// minCitySpacing is the closest two cities may be, in normalized units
// (roughly two hexes).
const minCitySpacing = 2.5

// placeCities converts the best plain tiles into cities, enforcing a minimum
// spacing, and renames them.
func placeCities(defs []TileDef, elevation map[TileID]float64, cfg GenConfig, seed int64) {
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		idx   int
		score float64
	}
	var candidates []scored
	for i, d := range defs {
		if d.Terrain != TerrainPlain {
			continue
		}
		candidates = append(candidates, scored{i, cityScore(defs, elevation, i)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var placed []geom.Point
	names := generateNames(rng, cfg.Cities)
	for _, c := range candidates {
		if len(placed) >= cfg.Cities {
			break
		}
		d := &defs[c.idx]
		if tooClose(d.Pos, placed) {
			continue
		}
		d.Terrain = TerrainCity
		d.Defense = terrainDefense(TerrainCity)
		d.VictoryPoints = 3
		d.Name = names[len(placed)]
		placed = append(placed, d.Pos)
	}
}

// cityScore prefers low ground ringed by hills.
func cityScore(defs []TileDef, elevation map[TileID]float64, idx int) float64 {
	d := defs[idx]
	score := 1 - elevation[d.ID]
	for _, o := range defs {
		if o.ID == d.ID || geom.Dist(o.Pos, d.Pos) > 1.1 {
			continue
		}
		if o.Terrain.Rough() {
			score += 0.3
		}
	}
	return score
}

func tooClose(p geom.Point, existing []geom.Point) bool {
	for _, e := range existing {
		if geom.Dist(p, e) < minCitySpacing {
			return true
		}
	}
	return false
}

// generateNames produces procedural city names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Chang", "Luo", "Xu", "Jian", "Cheng", "Xiang", "Han", "Wan",
		"Shou", "He", "Nan", "Bei", "Tian", "Jiang", "Yong", "Liang",
	}
	suffixes := []string{
		"an", "yang", "chang", "ye", "du", "ling", "zhong", "zhou",
		"ping", "kou", "shui", "ning", "chuan", "guan",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
