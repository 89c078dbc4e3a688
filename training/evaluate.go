package training

import (
	"context"
	"errors"

	"github.com/zeu5/dropmind/connect3"
	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/types"
)

var ErrNoGames = errors.New("number of games must be positive")

// Tally counts outcomes from the evaluated agent's side
type Tally struct {
	Wins   int
	Losses int
	Draws  int
}

func (t *Tally) add(o types.Outcome) {
	switch o {
	case types.Win:
		t.Wins++
	case types.Loss:
		t.Losses++
	default:
		t.Draws++
	}
}

func (t Tally) Games() int {
	return t.Wins + t.Losses + t.Draws
}

type EvalResult struct {
	Total Tally
	AsA   Tally
	AsB   Tally
}

// Evaluate plays games between agent and opponent, alternating seats the same
// way self-play does. The opponent sees the board with the tokens swapped.
func Evaluate(ctx context.Context, agent, opponent policies.Policy, games int, shaping bool) (EvalResult, error) {
	result := EvalResult{}
	if games <= 0 {
		return result, ErrNoGames
	}
	var env types.Environment = connect3.NewEnv(shaping)
	for game := 0; game < games; game++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		seat := PrimarySeat(game)
		state := env.Reset()
		for !env.Done() {
			valid := env.ValidActions()
			var action types.Action
			var ok bool
			if env.CurrentPlayer() == seat {
				action, ok = agent.SelectAction(state, valid)
			} else {
				action, ok = opponent.SelectAction(state.Swap(), valid)
			}
			if !ok {
				break
			}
			state, _, _, _ = env.Step(action)
		}

		outcome := outcomeFor(env.Winner(), seat)
		result.Total.add(outcome)
		if seat == types.PlayerA {
			result.AsA.add(outcome)
		} else {
			result.AsB.add(outcome)
		}
	}
	return result, nil
}
