package training

import (
	"context"
	"fmt"

	"github.com/zeu5/dropmind/config"
	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/types"
)

// SelfPlay trains a primary agent against frozen snapshots of itself.
// Only the primary learns, from both its own moves and the opponent's.
type SelfPlay struct {
	*trainer
	opponent *policies.QAgent
}

func NewSelfPlay(c *config.Config, opts Options) (*SelfPlay, error) {
	t, err := newTrainer(c, "selfplay", types.NewRatedHistory(InitialRating), "self_play_progress", types.SelfPlayLabels, opts)
	if err != nil {
		return nil, err
	}
	return &SelfPlay{
		trainer:  t,
		opponent: t.agent.Clone(),
	}, nil
}

func (s *SelfPlay) Opponent() *policies.QAgent {
	return s.opponent
}

// LoadAgent resumes the primary from a saved table and plays against a copy of it
func (s *SelfPlay) LoadAgent(path string) error {
	if err := s.trainer.LoadAgent(path); err != nil {
		return err
	}
	s.opponent = s.agent.Clone()
	return nil
}

// RefreshOpponent replaces the opponent with a snapshot of the primary
func (s *SelfPlay) RefreshOpponent() {
	s.opponent = s.agent.Clone()
	s.metrics.OpponentRefreshed()
}

// PrimarySeat is PlayerA on even episodes and PlayerB on odd ones
func PrimarySeat(episode int) types.Player {
	if episode%2 == 0 {
		return types.PlayerA
	}
	return types.PlayerB
}

// moverReward turns the PlayerA signed win reward into the mover's reward
func moverReward(reward float64, info types.StepInfo) float64 {
	if info.Winner == types.PlayerB {
		return -reward
	}
	return reward
}

func (s *SelfPlay) Run(ctx context.Context) (*types.History, error) {
	err := s.run(ctx, s.PlayEpisode, s.afterEpisode)
	return s.history, err
}

func (s *SelfPlay) afterEpisode(episode int, res EpisodeResult) {
	rating := UpdateRating(s.history.Rating(), res.Outcome)
	s.history.RecordRating(rating)
	s.metrics.SetRating(rating)

	if (episode+1)%s.config.OpponentUpdateInterval == 0 {
		s.RefreshOpponent()
		s.logger.Info("opponent updated",
			"episode", episode+1,
			"table_size", s.opponent.TableSize(),
			"rating", rating,
		)
	}
}

// PlayEpisode plays one game between the primary and the opponent and
// updates the primary on every transition.
func (s *SelfPlay) PlayEpisode(episode int) (EpisodeResult, error) {
	s.env.Reset()
	return s.playOut(episode, PrimarySeat(episode))
}

// playOut continues the game from the current position until it ends
func (s *SelfPlay) playOut(episode int, primary types.Player) (EpisodeResult, error) {
	state := s.env.State()
	rendering := s.rendering(episode)
	res := EpisodeResult{Trace: types.NewTrace()}

	for !s.env.Done() {
		valid := s.env.ValidActions()
		if len(valid) == 0 {
			break
		}
		mover := s.env.CurrentPlayer()
		primaryTurn := mover == primary

		var action types.Action
		var ok bool
		if primaryTurn {
			action, ok = s.agent.SelectAction(state, valid)
		} else {
			action, ok = s.opponent.SelectAction(state.Swap(), valid)
		}
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

		reward = moverReward(reward, info)
		var err error
		if primaryTurn {
			err = s.agent.Update(state, action, reward, nextState, nextValid)
		} else {
			reward = -reward
			err = s.agent.Update(state.Swap(), action, reward, nextState.Swap(), nextValid)
		}
		if err != nil {
			return res, err
		}

		res.Reward += reward
		res.Steps++
		state = nextState

		if rendering {
			turn := "Opponent"
			if s.env.CurrentPlayer() == primary {
				turn = "Primary"
			}
			s.render(
				fmt.Sprintf("Episode: %d/%d", episode+1, s.config.Episodes),
				fmt.Sprintf("Step: %d, Player: %s", res.Steps, s.env.CurrentPlayer()),
				fmt.Sprintf("Primary agent is Player %s", primary),
				fmt.Sprintf("Current turn: %s", turn),
			)
		}
	}

	res.Winner = s.env.Winner()
	res.Outcome = outcomeFor(res.Winner, primary)
	return res, nil
}
