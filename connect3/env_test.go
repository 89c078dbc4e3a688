package connect3

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/dropmind/types"
)

type move struct {
	action types.Action
	reward float64
	done   bool
}

func play(t *testing.T, env *Env, actions ...types.Action) (float64, bool, types.StepInfo) {
	t.Helper()
	var (
		reward float64
		done   bool
		info   types.StepInfo
	)
	for i, a := range actions {
		require.False(t, done, "game ended early at move %d", i)
		_, reward, done, info = env.Step(a)
		require.False(t, info.InvalidMove, "move %d (%d) was invalid", i, a)
	}
	return reward, done, info
}

func TestResetStartsEmpty(t *testing.T) {
	env := NewEnv(false)
	state := env.Reset()
	assert.Equal(t, types.State("000000000000000"), state)
	assert.Equal(t, types.PlayerA, env.CurrentPlayer())
	assert.Equal(t, NotStarted, env.Status())
	assert.Equal(t, types.AllActions(), env.ValidActions())
	assert.False(t, env.Done())
}

func TestBottomRowWin(t *testing.T) {
	env := NewEnv(false)
	env.Reset()

	for _, m := range []move{
		{0, MoveReward, false},
		{0, MoveReward, false},
		{1, MoveReward, false},
		{1, MoveReward, false},
	} {
		_, r, done, info := env.Step(m.action)
		assert.Equal(t, m.reward, r)
		assert.Equal(t, m.done, done)
		assert.False(t, info.InvalidMove)
	}
	assert.Equal(t, InProgress, env.Status())

	state, r, done, info := env.Step(2)
	assert.Equal(t, 1.0, r)
	assert.True(t, done)
	assert.Equal(t, types.PlayerA, info.Winner)
	assert.Equal(t, types.PlayerA, env.Winner())
	assert.Equal(t, Won, env.Status())
	assert.Equal(t, types.State("000002200011100"), state)
}

func TestWinDirections(t *testing.T) {
	tests := []struct {
		name    string
		actions []types.Action
		winner  types.Player
		reward  float64
	}{
		{"vertical", []types.Action{0, 1, 0, 1, 0}, types.PlayerA, 1.0},
		{"vertical for B", []types.Action{0, 1, 0, 1, 2, 1}, types.PlayerB, -1.0},
		{"diagonal up", []types.Action{0, 1, 1, 2, 4, 2, 2}, types.PlayerA, 1.0},
		{"diagonal down", []types.Action{2, 1, 1, 0, 4, 0, 0}, types.PlayerA, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnv(false)
			env.Reset()
			last := len(tt.actions) - 1
			_, done, _ := play(t, env, tt.actions[:last]...)
			require.False(t, done)

			_, r, done, info := env.Step(tt.actions[last])
			assert.True(t, done)
			assert.Equal(t, tt.reward, r)
			assert.Equal(t, tt.winner, info.Winner)
			assert.Equal(t, tt.winner, env.Winner())
		})
	}
}

func TestFullColumnIsInvalid(t *testing.T) {
	env := NewEnv(true)
	env.Reset()
	play(t, env, 0, 0, 0)
	before := env.State()
	mover := env.CurrentPlayer()

	state, r, done, info := env.Step(0)
	assert.True(t, info.InvalidMove)
	assert.Equal(t, InvalidMoveReward, r)
	assert.False(t, done)
	assert.Equal(t, before, state)
	assert.Equal(t, mover, env.CurrentPlayer())
	assert.NotContains(t, env.ValidActions(), types.Action(0))
}

func TestOutOfRangeIsInvalid(t *testing.T) {
	env := NewEnv(false)
	env.Reset()
	for _, a := range []types.Action{-1, 5, 42} {
		state, r, done, info := env.Step(a)
		assert.True(t, info.InvalidMove)
		assert.Equal(t, -10.0, r)
		assert.False(t, done)
		assert.Equal(t, types.State("000000000000000"), state)
	}
}

func TestStepAfterEndKeepsDone(t *testing.T) {
	env := NewEnv(false)
	env.Reset()
	play(t, env, 0, 0, 1, 1, 2)
	before := env.State()

	state, r, done, info := env.Step(3)
	assert.True(t, info.InvalidMove)
	assert.Equal(t, InvalidMoveReward, r)
	assert.True(t, done)
	assert.Equal(t, before, state)
}

func TestDraw(t *testing.T) {
	env := NewEnv(true)
	require.NoError(t, env.SetPosition("112202211211221", types.PlayerA))
	require.False(t, env.Done())
	require.Equal(t, []types.Action{4}, env.ValidActions())

	_, r, done, info := env.Step(4)
	assert.True(t, done)
	assert.True(t, info.Draw)
	assert.Equal(t, DrawReward, r)
	assert.Equal(t, types.NoPlayer, env.Winner())
	assert.Equal(t, Drawn, env.Status())
	assert.Empty(t, env.ValidActions())
}

func TestShapedReward(t *testing.T) {
	env := NewEnv(true)
	env.Reset()
	_, r, done, info := env.Step(2)
	require.False(t, done)
	// a lone piece in the middle column of the bottom row is worth 0.3
	assert.InDelta(t, 0.03, info.PatternReward, 1e-12)
	assert.InDelta(t, -0.02, r, 1e-12)

	plain := NewEnv(false)
	plain.Reset()
	_, r, _, info = plain.Step(2)
	assert.Equal(t, MoveReward, r)
	assert.Zero(t, info.PatternReward)
}

func TestShapingKeepsWinReward(t *testing.T) {
	env := NewEnv(true)
	env.Reset()
	r, done, info := play(t, env, 0, 0, 1, 1, 2)
	assert.True(t, done)
	assert.Equal(t, 1.0, r)
	assert.Zero(t, info.PatternReward)
}

func TestPlayerToggles(t *testing.T) {
	env := NewEnv(false)
	env.Reset()
	env.Step(2)
	assert.Equal(t, types.PlayerB, env.CurrentPlayer())
	env.Step(2)
	assert.Equal(t, types.PlayerA, env.CurrentPlayer())
}

func TestRender(t *testing.T) {
	env := NewEnv(false)
	env.Reset()
	play(t, env, 2, 2)
	before := env.State()

	buf := new(bytes.Buffer)
	require.NoError(t, env.Render(buf))
	out := buf.String()
	assert.Contains(t, out, "  0 1 2 3 4")
	assert.Contains(t, out, "| . . O . . |")
	assert.Contains(t, out, "| . . X . . |")
	assert.Equal(t, before, env.State())
}

func TestSetPositionRejectsMalformed(t *testing.T) {
	env := NewEnv(false)
	assert.ErrorIs(t, env.SetPosition("0000", types.PlayerA), types.ErrMalformedState)
	assert.ErrorIs(t, env.SetPosition("000000000000003", types.PlayerA), types.ErrMalformedState)
	assert.Error(t, env.SetPosition("000000000000000", types.NoPlayer))
}
