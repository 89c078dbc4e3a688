package connect3

import (
	"fmt"
	"io"

	"github.com/zeu5/dropmind/types"
)

// Rewards of the environment. Win rewards are signed from PlayerA's perspective.
const (
	WinReward         = 1.0
	DrawReward        = 0.2
	MoveReward        = -0.05
	InvalidMoveReward = -10.0
	ShapingScale      = 0.1
)

// Status of a game
type Status int

const (
	NotStarted Status = iota
	InProgress
	Won
	Drawn
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	}
	return "drawn"
}

// Env plays Connect Three on a 3x5 board
type Env struct {
	board   *Board
	current types.Player
	done    bool
	winner  types.Player
	// adds the position value improvement to non terminal rewards
	shaping bool
}

var _ types.Environment = &Env{}

func NewEnv(shaping bool) *Env {
	e := &Env{shaping: shaping}
	e.Reset()
	return e
}

func (e *Env) Reset() types.State {
	e.board = NewBoard()
	e.current = types.PlayerA
	e.done = false
	e.winner = types.NoPlayer
	return e.board.State()
}

// SetPosition replaces the board with the encoded state and the given mover
func (e *Env) SetPosition(s types.State, mover types.Player) error {
	b, err := ParseState(s)
	if err != nil {
		return err
	}
	if mover != types.PlayerA && mover != types.PlayerB {
		return fmt.Errorf("invalid mover %d", int(mover))
	}
	e.board = b
	e.current = mover
	e.winner = types.NoPlayer
	switch {
	case b.Wins(types.PlayerA):
		e.winner = types.PlayerA
	case b.Wins(types.PlayerB):
		e.winner = types.PlayerB
	}
	e.done = e.winner != types.NoPlayer || b.Full()
	return nil
}

func (e *Env) State() types.State {
	return e.board.State()
}

func (e *Env) CurrentPlayer() types.Player {
	return e.current
}

func (e *Env) Winner() types.Player {
	return e.winner
}

func (e *Env) Done() bool {
	return e.done
}

func (e *Env) Status() Status {
	switch {
	case e.done && e.winner != types.NoPlayer:
		return Won
	case e.done:
		return Drawn
	case e.board.Empty():
		return NotStarted
	}
	return InProgress
}

func (e *Env) isValid(a types.Action) bool {
	return !e.done && e.board.ColumnOpen(int(a))
}

func (e *Env) ValidActions() []types.Action {
	actions := make([]types.Action, 0, types.NumActions)
	for c := 0; c < types.Cols; c++ {
		if e.board.ColumnOpen(c) {
			actions = append(actions, types.Action(c))
		}
	}
	return actions
}

// Step drops a piece for the current player.
// An invalid action leaves the board untouched and only costs a penalty.
func (e *Env) Step(a types.Action) (types.State, float64, bool, types.StepInfo) {
	if !e.isValid(a) {
		return e.board.State(), InvalidMoveReward, e.done, types.StepInfo{InvalidMove: true}
	}

	mover := e.current
	before := 0.0
	if e.shaping {
		before = PositionValue(e.board, mover)
	}
	if _, err := e.board.Drop(int(a), mover); err != nil {
		return e.board.State(), InvalidMoveReward, e.done, types.StepInfo{InvalidMove: true}
	}

	if e.board.Wins(mover) {
		e.done = true
		e.winner = mover
		reward := WinReward
		if mover == types.PlayerB {
			reward = -WinReward
		}
		return e.board.State(), reward, true, types.StepInfo{Winner: mover}
	}

	if e.board.Full() {
		e.done = true
		return e.board.State(), DrawReward, true, types.StepInfo{Draw: true}
	}

	reward := MoveReward
	info := types.StepInfo{}
	if e.shaping {
		improvement := PositionValue(e.board, mover) - before
		if improvement > 0 {
			info.PatternReward = ShapingScale * improvement
			reward += info.PatternReward
		}
	}

	e.current = mover.Opponent()
	return e.board.State(), reward, false, info
}

func (e *Env) Render(w io.Writer) error {
	_, err := io.WriteString(w, e.board.String())
	return err
}
