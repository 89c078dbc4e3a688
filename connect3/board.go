package connect3

import (
	"fmt"
	"strings"

	"github.com/zeu5/dropmind/types"
)

// Cell is a (row, column) position. Row 0 is the top of the board.
type Cell struct {
	Row int
	Col int
}

// Line is a run of three cells that wins when owned by a single player
type Line [3]Cell

// Lines enumerates every winning line of the 3x5 board
var Lines = buildLines()

func buildLines() []Line {
	lines := make([]Line, 0)
	// horizontal
	for r := 0; r < types.Rows; r++ {
		for c := 0; c+2 < types.Cols; c++ {
			lines = append(lines, Line{{r, c}, {r, c + 1}, {r, c + 2}})
		}
	}
	// vertical, only from the top row with three rows
	for c := 0; c < types.Cols; c++ {
		lines = append(lines, Line{{0, c}, {1, c}, {2, c}})
	}
	// diagonal /
	for c := 0; c+2 < types.Cols; c++ {
		lines = append(lines, Line{{2, c}, {1, c + 1}, {0, c + 2}})
	}
	// diagonal \
	for c := 0; c+2 < types.Cols; c++ {
		lines = append(lines, Line{{0, c}, {1, c + 1}, {2, c + 2}})
	}
	return lines
}

// Board is the 3x5 grid of cells
type Board struct {
	cells [types.Rows][types.Cols]types.Player
}

func NewBoard() *Board {
	return &Board{}
}

// ParseState rebuilds a board from its state encoding
func ParseState(s types.State) (*Board, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := NewBoard()
	for i := 0; i < types.StateLen; i++ {
		b.cells[i/types.Cols][i%types.Cols] = types.Player(s[i] - '0')
	}
	return b, nil
}

func (b *Board) Get(c Cell) types.Player {
	return b.cells[c.Row][c.Col]
}

func (b *Board) Copy() *Board {
	return &Board{cells: b.cells}
}

// State encodes the board row by row
func (b *Board) State() types.State {
	var sb strings.Builder
	sb.Grow(types.StateLen)
	for r := 0; r < types.Rows; r++ {
		for c := 0; c < types.Cols; c++ {
			sb.WriteByte(b.cells[r][c].Token())
		}
	}
	return types.State(sb.String())
}

// ColumnOpen reports whether a piece can still be dropped in the column
func (b *Board) ColumnOpen(col int) bool {
	if col < 0 || col >= types.Cols {
		return false
	}
	return b.cells[0][col] == types.NoPlayer
}

// NextOpenRow is the row a piece dropped in the column lands on, -1 when full
func (b *Board) NextOpenRow(col int) int {
	for r := types.Rows - 1; r >= 0; r-- {
		if b.cells[r][col] == types.NoPlayer {
			return r
		}
	}
	return -1
}

// Drop places the player's piece in the column and returns the landing row
func (b *Board) Drop(col int, p types.Player) (int, error) {
	if col < 0 || col >= types.Cols {
		return -1, fmt.Errorf("%w: column %d", types.ErrInvalidAction, col)
	}
	r := b.NextOpenRow(col)
	if r < 0 {
		return -1, fmt.Errorf("%w: column %d is full", types.ErrInvalidAction, col)
	}
	b.cells[r][col] = p
	return r, nil
}

// Playable reports whether a piece dropped now would land on the cell
func (b *Board) Playable(c Cell) bool {
	if b.Get(c) != types.NoPlayer {
		return false
	}
	return c.Row == types.Rows-1 || b.cells[c.Row+1][c.Col] != types.NoPlayer
}

func (b *Board) Full() bool {
	for c := 0; c < types.Cols; c++ {
		if b.cells[0][c] == types.NoPlayer {
			return false
		}
	}
	return true
}

func (b *Board) Empty() bool {
	for r := 0; r < types.Rows; r++ {
		for c := 0; c < types.Cols; c++ {
			if b.cells[r][c] != types.NoPlayer {
				return false
			}
		}
	}
	return true
}

// Wins checks whether the player owns every cell of some line
func (b *Board) Wins(p types.Player) bool {
	if p == types.NoPlayer {
		return false
	}
	for _, l := range Lines {
		if b.Get(l[0]) == p && b.Get(l[1]) == p && b.Get(l[2]) == p {
			return true
		}
	}
	return false
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4\n")
	sb.WriteString(" -----------\n")
	for r := 0; r < types.Rows; r++ {
		sb.WriteString("| ")
		for c := 0; c < types.Cols; c++ {
			switch b.cells[r][c] {
			case types.PlayerA:
				sb.WriteString("X ")
			case types.PlayerB:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(" -----------\n")
	return sb.String()
}
