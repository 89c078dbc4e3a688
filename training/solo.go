package training

import (
	"context"
	"fmt"

	"github.com/zeu5/dropmind/config"
	"github.com/zeu5/dropmind/types"
)

// Solo trains a single agent that moves for both players with the raw
// environment rewards. Outcomes are counted from PlayerA's side.
type Solo struct {
	*trainer
}

func NewSolo(c *config.Config, opts Options) (*Solo, error) {
	t, err := newTrainer(c, "solo", types.NewHistory(), "training_progress", types.SoloLabels, opts)
	if err != nil {
		return nil, err
	}
	return &Solo{trainer: t}, nil
}

func (s *Solo) Run(ctx context.Context) (*types.History, error) {
	err := s.run(ctx, s.PlayEpisode, nil)
	return s.history, err
}

func (s *Solo) PlayEpisode(episode int) (EpisodeResult, error) {
	state := s.env.Reset()
	rendering := s.rendering(episode)
	res := EpisodeResult{Trace: types.NewTrace()}

	for !s.env.Done() {
		valid := s.env.ValidActions()
		mover := s.env.CurrentPlayer()
		action, ok := s.agent.SelectAction(state, valid)
		if !ok {
			break
		}

		nextState, reward, done, info := s.env.Step(action)
		if info.InvalidMove {
			res.InvalidMoves++
		}
		res.Trace.Append(mover, state, action, nextState, reward)
		var nextValid []types.Action
		if !done {
			nextValid = s.env.ValidActions()
		}
		if err := s.agent.Update(state, action, reward, nextState, nextValid); err != nil {
			return res, err
		}

		res.Reward += reward
		res.Steps++
		state = nextState

		if rendering {
			s.render(
				fmt.Sprintf("Episode: %d/%d", episode+1, s.config.Episodes),
				fmt.Sprintf("Step: %d, Player: %s", res.Steps, s.env.CurrentPlayer()),
			)
		}
	}

	res.Winner = s.env.Winner()
	res.Outcome = outcomeFor(res.Winner, types.PlayerA)
	return res, nil
}
