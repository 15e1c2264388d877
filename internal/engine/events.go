package engine

import "log/slog"

// maxEvents bounds the in-memory event log.
const maxEvents = 1000

// Event is a notable occurrence in the game.
type Event struct {
	Turn        int            `json:"turn"`
	Faction     string         `json:"faction"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // "move", "combat", "capture", "turn"
	Meta        map[string]any `json:"meta,omitempty"`
}

// EmitEvent records an event, dropping the oldest once the log is full.
func (g *Game) EmitEvent(e Event) {
	g.events = append(g.events, e)
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}
	slog.Debug("event", "category", e.Category, "description", e.Description)
}

// Events returns the most recent events, oldest first. n <= 0 returns all.
func (g *Game) Events(n int) []Event {
	start := 0
	if n > 0 && len(g.events) > n {
		start = len(g.events) - n
	}
	out := make([]Event, len(g.events)-start)
	copy(out, g.events[start:])
	return out
}
