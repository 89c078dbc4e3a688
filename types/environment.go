package types

import (
	"errors"
	"fmt"
	"io"
)

const (
	Rows       = 3
	Cols       = 5
	NumActions = Cols
	// StateLen is the length of the row-major state encoding
	StateLen = Rows * Cols
)

var (
	ErrInvalidAction  = errors.New("invalid action")
	ErrMalformedState = errors.New("malformed state")
)

// Player identifies the owner of a cell or the side to move
type Player int

const (
	NoPlayer Player = iota
	PlayerA
	PlayerB
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return NoPlayer
}

// Token is the digit used for the player in a State
func (p Player) Token() byte {
	return byte('0' + p)
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "none"
}

// State is the row-major concatenation of the board cells.
// Two boards with the same cells always have the same State.
type State string

// Validate checks the length and alphabet of the encoding
func (s State) Validate() error {
	if len(s) != StateLen {
		return fmt.Errorf("%w: length %d, expected %d", ErrMalformedState, len(s), StateLen)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1', '2':
		default:
			return fmt.Errorf("%w: unexpected token %q at %d", ErrMalformedState, s[i], i)
		}
	}
	return nil
}

// Swap exchanges the PlayerA and PlayerB tokens. Swap(Swap(s)) == s.
func (s State) Swap() State {
	out := []byte(s)
	for i, c := range out {
		switch c {
		case PlayerA.Token():
			out[i] = PlayerB.Token()
		case PlayerB.Token():
			out[i] = PlayerA.Token()
		}
	}
	return State(out)
}

// Action is the column a piece is dropped into
type Action int

func (a Action) Validate() error {
	if a < 0 || a >= NumActions {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidAction, int(a), NumActions)
	}
	return nil
}

// AllActions lists every column in ascending order
func AllActions() []Action {
	actions := make([]Action, NumActions)
	for i := range actions {
		actions[i] = Action(i)
	}
	return actions
}

// StepInfo carries the side information of a single step
type StepInfo struct {
	InvalidMove   bool
	Winner        Player
	Draw          bool
	PatternReward float64
}

// Environment is a two player game driven one move at a time
type Environment interface {
	// Reset starts a new game and returns the initial state
	Reset() State
	ValidActions() []Action
	// Step applies the action for the current player.
	// Reward is signed from PlayerA's perspective for wins.
	Step(Action) (State, float64, bool, StepInfo)
	CurrentPlayer() Player
	Winner() Player
	Done() bool
	Render(io.Writer) error
}
