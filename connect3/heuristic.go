package connect3

import "github.com/zeu5/dropmind/types"

// Weights of the position value heuristic
const (
	OpenTwoWeight        = 1.0
	OpenTwoDefenseWeight = 0.5
	ThreatWeight         = 3.0
	ThreatDefenseWeight  = 2.5
	ForkBonus            = 5.0
	OpponentForkPenalty  = -1.0
	CenterColumnsWeight  = 0.2
	MiddleColumnWeight   = 0.1
	MiddleRowWeight      = 0.05
	centerColumnsFrom    = 1
	centerColumnsTo      = 3
	middleColumn         = types.Cols / 2
	middleRow            = types.Rows / 2
)

// PositionValue scores the board for the player.
// Two in a line with an open third cell count as a threat when the open cell
// is playable now, and two or more distinct threats form a fork.
func PositionValue(b *Board, p types.Player) float64 {
	opponent := p.Opponent()
	value := 0.0
	ownThreats := make(map[Cell]bool)
	opponentThreats := make(map[Cell]bool)

	for _, l := range Lines {
		own, theirs, open := 0, 0, 0
		var openCell Cell
		for _, c := range l {
			switch b.Get(c) {
			case p:
				own++
			case opponent:
				theirs++
			default:
				open++
				openCell = c
			}
		}
		if open != 1 {
			continue
		}
		playable := b.Playable(openCell)
		switch {
		case own == 2 && playable:
			value += ThreatWeight
			ownThreats[openCell] = true
		case own == 2:
			value += OpenTwoWeight
		case theirs == 2 && playable:
			value += ThreatDefenseWeight
			opponentThreats[openCell] = true
		case theirs == 2:
			value += OpenTwoDefenseWeight
		}
	}

	if len(ownThreats) >= 2 {
		value += ForkBonus
	}
	if len(opponentThreats) >= 2 {
		value += OpponentForkPenalty
	}

	for r := 0; r < types.Rows; r++ {
		for c := 0; c < types.Cols; c++ {
			if b.cells[r][c] != p {
				continue
			}
			if c >= centerColumnsFrom && c <= centerColumnsTo {
				value += CenterColumnsWeight
			}
			if c == middleColumn {
				value += MiddleColumnWeight
			}
			if r == middleRow {
				value += MiddleRowWeight
			}
		}
	}
	return value
}
