// Command hexwar plays a headless Three Kingdoms campaign: it loads a
// scenario, lets each faction attack and advance greedily for a number of
// rounds, and journals every battle to SQLite. The scripted commander only
// drives the engine for a demo run; it is not an opponent for a human player.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/wanjin1234/three-kingdoms/internal/combat"
	"github.com/wanjin1234/three-kingdoms/internal/engine"
	"github.com/wanjin1234/three-kingdoms/internal/entropy"
	"github.com/wanjin1234/three-kingdoms/internal/persistence"
	"github.com/wanjin1234/three-kingdoms/internal/scenario"
	"github.com/wanjin1234/three-kingdoms/internal/world"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario YAML file (default: the built-in Three Kingdoms board)")
	generate := flag.Bool("generate", false, "play on a procedurally generated board instead")
	dbPath := flag.String("db", envOr("HEXWAR_DB", "data/hexwar.db"), "combat journal path")
	seed := flag.Int64("seed", 0, "seed for map generation and dice (0 = random)")
	rounds := flag.Int("rounds", 10, "number of full turns to play")
	debug := flag.Bool("debug", false, "enable debug logging")
	dump := flag.Bool("dump", false, "print the scenario as YAML and exit")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Scenario ──────────────────────────────────────────────────────
	var file *scenario.File
	switch {
	case *scenarioPath != "":
		f, err := scenario.Load(*scenarioPath)
		if err != nil {
			slog.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
		file = f
	case *generate:
		file = scenario.Generated(*seed)
	default:
		f, err := scenario.Default()
		if err != nil {
			slog.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
		file = f
	}

	if *dump {
		data, err := file.Marshal()
		if err != nil {
			slog.Error("failed to encode scenario", "error", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	setup, err := file.Build()
	if err != nil {
		slog.Error("failed to build scenario", "error", err)
		os.Exit(1)
	}
	slog.Info("scenario loaded",
		"name", setup.Name,
		"tiles", setup.Store.TileCount(),
		"factions", len(setup.Factions),
		"rivers", len(setup.Rivers),
		"boundaries", len(setup.Boundaries),
	)

	// ── Dice ──────────────────────────────────────────────────────────
	var die combat.Die
	switch {
	case *seed != 0:
		die = entropy.NewSeededDie(*seed)
		slog.Info("dice", "source", "seeded", "seed", *seed)
	case os.Getenv("RANDOM_ORG_API_KEY") != "":
		die = entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
		slog.Info("dice", "source", "random.org")
	default:
		die = entropy.CryptoDie{}
		slog.Info("dice", "source", "crypto/rand")
	}

	game, err := engine.NewGame(setup.Store, setup.Rivers, setup.Boundaries, setup.Factions, die)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}
	slog.Info("adjacency graph built", "edges", game.Graph().EdgeCount())

	// ── Journal ───────────────────────────────────────────────────────
	if dir := filepath.Dir(*dbPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	game.OnCombat = func(rep *combat.Report) {
		slog.Info("battle", "turn", game.Turn(), "summary", rep.Summary())
		if err := db.SaveReport(game.Turn(), rep); err != nil {
			slog.Error("failed to journal battle", "id", rep.ID, "error", err)
		}
	}

	// ── Play ──────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game.StartTurn()
	for game.Turn() <= *rounds {
		if ctx.Err() != nil {
			slog.Info("received signal, shutting down")
			break
		}
		playTurn(game)
		game.EndTurn()
	}

	// ── Wrap up ───────────────────────────────────────────────────────
	if err := db.SaveEvents(game.Events(0)); err != nil {
		slog.Error("failed to save events", "error", err)
	}
	if err := db.SaveMeta("scenario", setup.Name); err != nil {
		slog.Error("failed to save meta", "error", err)
	}
	if err := db.SaveMeta("last_turn", strconv.Itoa(game.Turn()-1)); err != nil {
		slog.Error("failed to save meta", "error", err)
	}

	standings(game)
	if captures, err := db.CaptureCounts(); err == nil {
		for f, n := range captures {
			slog.Info("captures", "faction", f, "tiles", n)
		}
	}
}

// standings logs factions ranked by victory points.
func standings(g *engine.Game) {
	vp := g.VictoryPoints()
	factions := make([]world.Faction, 0, len(vp))
	for f := range vp {
		factions = append(factions, f)
	}
	sort.Slice(factions, func(i, j int) bool {
		if vp[factions[i]] != vp[factions[j]] {
			return vp[factions[i]] > vp[factions[j]]
		}
		return factions[i] < factions[j]
	})
	for i, f := range factions {
		slog.Info("standing",
			"place", humanize.Ordinal(i+1),
			"faction", f,
			"victory_points", fmt.Sprintf("%.0f", vp[f]),
			"units", len(g.Store.FactionUnits(f)),
		)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
