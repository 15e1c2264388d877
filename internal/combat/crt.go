// Package combat resolves attacks with a combat results table (CRT).
//
// The attack:defense ratio selects one of six columns, a single die selects
// the row, and the cell names the outcome: losses, confusion or retreat for
// either side. Resolution runs as one transaction over the entity store.
package combat

// Result is a CRT outcome code.
type Result string

const (
	ResultA2   Result = "A2"    // Attacker loses two hit points
	ResultA1   Result = "A1"    // Attacker loses one hit point
	ResultAG   Result = "AG"    // One attacker becomes confused
	ResultAGDG Result = "AG&DG" // One unit on each side becomes confused
	ResultC    Result = "C"     // No effect
	ResultDG   Result = "DG"    // One defender becomes confused
	ResultD1   Result = "D1"    // Defender loses one hit point
	ResultDR   Result = "DR"    // Defender retreats
	ResultD1R  Result = "D1R"   // Defender loses one hit point and retreats
)

// Columns is the number of ratio columns in the table.
const Columns = 6

// ColumnLabels names each ratio column.
var ColumnLabels = [Columns]string{"1:2", "1:1", "2:1", "3:1", "4:1", "5:1"}

// table is indexed by [dice-1][column].
var table = [6][Columns]Result{
	{ResultA2, ResultA1, ResultA1, ResultC, ResultC, ResultDG},
	{ResultA1, ResultAG, ResultAGDG, ResultDG, ResultDG, ResultDG},
	{ResultAG, ResultAGDG, ResultC, ResultDG, ResultDR, ResultDR},
	{ResultAG, ResultC, ResultDG, ResultDR, ResultDR, ResultDR},
	{ResultC, ResultDG, ResultDR, ResultDR, ResultD1, ResultD1},
	{ResultDG, ResultDR, ResultD1, ResultD1, ResultD1, ResultD1R},
}

// Lookup returns the CRT cell for a die roll and ratio column. Columns are
// clamped to the table; rolls outside 1..6 have no effect.
func Lookup(dice, column int) Result {
	if dice < 1 || dice > 6 {
		return ResultC
	}
	return table[dice-1][clampColumn(column)]
}

// RatioColumn maps attack and defense strength onto a CRT column using
// half-open brackets centered on the whole ratios: below 0.5 is 1:2,
// [0.5, 1.5) is 1:1, and so on up to 4.5 and above for 5:1. A flanked
// defender shifts the column one step in the attacker's favor.
func RatioColumn(attack, defense float64, flanked bool) int {
	if defense <= 0 {
		return Columns - 1
	}
	ratio := attack / defense

	var col int
	switch {
	case ratio < 0.5:
		col = 0
	case ratio < 1.5:
		col = 1
	case ratio < 2.5:
		col = 2
	case ratio < 3.5:
		col = 3
	case ratio < 4.5:
		col = 4
	default:
		col = 5
	}

	if flanked {
		col++
	}
	return clampColumn(col)
}

func clampColumn(col int) int {
	if col < 0 {
		return 0
	}
	if col >= Columns {
		return Columns - 1
	}
	return col
}

// Effects is the decoded meaning of a result code.
type Effects struct {
	AttackerHits      int
	DefenderHits      int
	AttackerConfusion bool
	DefenderConfusion bool
	DefenderRetreat   bool
}

// Effects decodes the result code.
func (r Result) Effects() Effects {
	switch r {
	case ResultA2:
		return Effects{AttackerHits: 2}
	case ResultA1:
		return Effects{AttackerHits: 1}
	case ResultAG:
		return Effects{AttackerConfusion: true}
	case ResultAGDG:
		return Effects{AttackerConfusion: true, DefenderConfusion: true}
	case ResultDG:
		return Effects{DefenderConfusion: true}
	case ResultD1:
		return Effects{DefenderHits: 1}
	case ResultDR:
		return Effects{DefenderRetreat: true}
	case ResultD1R:
		return Effects{DefenderHits: 1, DefenderRetreat: true}
	}
	return Effects{}
}
