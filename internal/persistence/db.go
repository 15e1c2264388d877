// Package persistence keeps a SQLite journal of the game: every resolved
// battle with its per-unit losses, the event log, and a few metadata keys.
// It is a record of what happened, not a save file.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/wanjin1234/three-kingdoms/internal/combat"
	"github.com/wanjin1234/three-kingdoms/internal/engine"
)

// DB wraps a SQLite connection for the combat journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS battles (
		id TEXT PRIMARY KEY,
		turn INTEGER NOT NULL,
		attacker TEXT NOT NULL,
		defender TEXT NOT NULL,
		target INTEGER NOT NULL,
		attack REAL NOT NULL,
		defense REAL NOT NULL,
		column_label TEXT NOT NULL,
		flanked INTEGER NOT NULL,
		dice INTEGER NOT NULL,
		result TEXT NOT NULL,
		retreat_to INTEGER,
		retreat_blocked INTEGER NOT NULL,
		retreat_captured INTEGER NOT NULL,
		captured INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS battle_units (
		battle_id TEXT NOT NULL REFERENCES battles(id),
		unit_id INTEGER NOT NULL,
		unit_type TEXT NOT NULL,
		side TEXT NOT NULL,
		tile INTEGER NOT NULL,
		hp_before INTEGER NOT NULL,
		hp_after INTEGER NOT NULL,
		confused INTEGER NOT NULL,
		killed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		faction TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		meta_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_battle_units_battle ON battle_units(battle_id);
	CREATE INDEX IF NOT EXISTS idx_battles_turn ON battles(turn);
	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Battle is a journaled combat.
type Battle struct {
	ID              string  `db:"id"`
	Turn            int     `db:"turn"`
	Attacker        string  `db:"attacker"`
	Defender        string  `db:"defender"`
	Target          int     `db:"target"`
	Attack          float64 `db:"attack"`
	Defense         float64 `db:"defense"`
	Column          string  `db:"column_label"`
	Flanked         bool    `db:"flanked"`
	Dice            int     `db:"dice"`
	Result          string  `db:"result"`
	RetreatTo       *int    `db:"retreat_to"`
	RetreatBlocked  bool    `db:"retreat_blocked"`
	RetreatCaptured bool    `db:"retreat_captured"`
	Captured        bool    `db:"captured"`

	Units []BattleUnit `db:"-"`
}

// BattleUnit is one unit's line in a journaled combat.
type BattleUnit struct {
	BattleID string `db:"battle_id"`
	UnitID   int    `db:"unit_id"`
	Type     string `db:"unit_type"`
	Side     string `db:"side"`
	Tile     int    `db:"tile"`
	HPBefore int    `db:"hp_before"`
	HPAfter  int    `db:"hp_after"`
	Confused bool   `db:"confused"`
	Killed   bool   `db:"killed"`
}

// SaveReport appends a resolved combat to the journal.
func (db *DB) SaveReport(turn int, rep *combat.Report) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var retreatTo *int
	if rep.Retreated {
		v := int(rep.RetreatTo)
		retreatTo = &v
	}

	_, err = tx.NamedExec(`INSERT INTO battles
		(id, turn, attacker, defender, target, attack, defense, column_label,
		 flanked, dice, result, retreat_to, retreat_blocked, retreat_captured, captured)
		VALUES (:id, :turn, :attacker, :defender, :target, :attack, :defense, :column_label,
		 :flanked, :dice, :result, :retreat_to, :retreat_blocked, :retreat_captured, :captured)`,
		Battle{
			ID:              rep.ID,
			Turn:            turn,
			Attacker:        string(rep.Attacker),
			Defender:        string(rep.Defender),
			Target:          int(rep.Target),
			Attack:          rep.Attack,
			Defense:         rep.Defense,
			Column:          rep.Label,
			Flanked:         rep.Flanked,
			Dice:            rep.Dice,
			Result:          string(rep.Result),
			RetreatTo:       retreatTo,
			RetreatBlocked:  rep.RetreatBlocked,
			RetreatCaptured: rep.RetreatCaptured,
			Captured:        rep.Captured,
		},
	)
	if err != nil {
		return fmt.Errorf("insert battle %s: %w", rep.ID, err)
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO battle_units
		(battle_id, unit_id, unit_type, side, tile, hp_before, hp_after, confused, killed)
		VALUES (:battle_id, :unit_id, :unit_type, :side, :tile, :hp_before, :hp_after, :confused, :killed)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range rep.Units {
		_, err := stmt.Exec(BattleUnit{
			BattleID: rep.ID,
			UnitID:   int(u.Unit),
			Type:     u.Type,
			Side:     string(u.Side),
			Tile:     int(u.Tile),
			HPBefore: u.HPBefore,
			HPAfter:  u.HPAfter,
			Confused: u.ConfusedAfter,
			Killed:   u.Killed,
		})
		if err != nil {
			return fmt.Errorf("insert battle unit %d: %w", u.Unit, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("battle journaled", "id", rep.ID, "units", len(rep.Units))
	return nil
}

// RecentBattles returns the most recent battles, newest first, with their
// unit lines.
func (db *DB) RecentBattles(limit int) ([]Battle, error) {
	var battles []Battle
	err := db.conn.Select(&battles, `SELECT id, turn, attacker, defender, target, attack, defense,
		column_label, flanked, dice, result, retreat_to, retreat_blocked, retreat_captured, captured
		FROM battles ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	if len(battles) == 0 {
		return battles, nil
	}

	ids := make([]string, len(battles))
	index := make(map[string]int, len(battles))
	for i, b := range battles {
		ids[i] = b.ID
		index[b.ID] = i
	}
	query, args, err := sqlx.In(`SELECT battle_id, unit_id, unit_type, side, tile,
		hp_before, hp_after, confused, killed
		FROM battle_units WHERE battle_id IN (?) ORDER BY rowid`, ids)
	if err != nil {
		return nil, err
	}
	var units []BattleUnit
	if err := db.conn.Select(&units, db.conn.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, u := range units {
		i := index[u.BattleID]
		battles[i].Units = append(battles[i].Units, u)
	}
	return battles, nil
}

// CaptureCounts returns how many tiles each faction has taken in battle.
func (db *DB) CaptureCounts() (map[string]int, error) {
	var rows []struct {
		Attacker string `db:"attacker"`
		N        int    `db:"n"`
	}
	err := db.conn.Select(&rows,
		"SELECT attacker, COUNT(*) AS n FROM battles WHERE captured = 1 GROUP BY attacker")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Attacker] = r.N
	}
	return out, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		meta, err := json.Marshal(e.Meta)
		if err != nil {
			return fmt.Errorf("encode event meta: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO events (turn, faction, description, category, meta_json) VALUES (?, ?, ?, ?, ?)",
			e.Turn, e.Faction, e.Description, e.Category, string(meta),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var rows []struct {
		Turn        int    `db:"turn"`
		Faction     string `db:"faction"`
		Description string `db:"description"`
		Category    string `db:"category"`
		Meta        string `db:"meta_json"`
	}
	err := db.conn.Select(&rows,
		"SELECT turn, faction, description, category, meta_json FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	events := make([]engine.Event, len(rows))
	for i, r := range rows {
		events[i] = engine.Event{
			Turn:        r.Turn,
			Faction:     r.Faction,
			Description: r.Description,
			Category:    r.Category,
		}
		if r.Meta != "" && r.Meta != "null" {
			if err := json.Unmarshal([]byte(r.Meta), &events[i].Meta); err != nil {
				return nil, fmt.Errorf("decode event meta: %w", err)
			}
		}
	}
	return events, nil
}

// SaveMeta stores a key-value pair in game metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}
