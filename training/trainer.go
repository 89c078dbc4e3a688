package training

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zeu5/dropmind/config"
	"github.com/zeu5/dropmind/connect3"
	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/types"
	"github.com/zeu5/dropmind/util"
)

// EpisodeResult is the outcome of one episode for the learning agent
type EpisodeResult struct {
	Outcome      types.Outcome
	Winner       types.Player
	Reward       float64
	Steps        int
	InvalidMoves int
	// Trace holds the moves with the raw environment rewards
	Trace *types.Trace
}

func outcomeFor(winner, seat types.Player) types.Outcome {
	switch winner {
	case seat:
		return types.Win
	case types.NoPlayer:
		return types.Draw
	}
	return types.Loss
}

// Options of a trainer. The zero value logs with slog.Default and discards output.
type Options struct {
	Logger *slog.Logger
	// Out receives checkpoint summaries and rendered boards
	Out      io.Writer
	Progress *util.TerminalPrinter
}

type trainer struct {
	config       *config.Config
	mode         string
	env          *connect3.Env
	agent        *policies.QAgent
	history      *types.History
	checkpointer *Checkpointer
	metrics      *Metrics

	logger   *slog.Logger
	out      io.Writer
	progress *util.TerminalPrinter
	sleep    func(time.Duration)

	runID string
	start time.Time
}

func newTrainer(c *config.Config, mode string, history *types.History, plotPrefix string, labels types.OutcomeLabels, opts Options) (*trainer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	agent, err := policies.NewQAgent(c.AgentConfig())
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &trainer{
		config:       c,
		mode:         mode,
		env:          connect3.NewEnv(c.Shaping),
		agent:        agent,
		history:      history,
		checkpointer: NewCheckpointer(c, plotPrefix, labels),
		metrics:      NewMetrics(mode, runID),
		logger:       logger.With("run_id", runID, "mode", mode),
		out:          out,
		progress:     opts.Progress,
		sleep:        time.Sleep,
		runID:        runID,
	}, nil
}

func (t *trainer) RunID() string {
	return t.runID
}

// Agent is the learning agent of the run
func (t *trainer) Agent() *policies.QAgent {
	return t.agent
}

func (t *trainer) History() *types.History {
	return t.history
}

func (t *trainer) Metrics() *Metrics {
	return t.metrics
}

// LoadAgent resumes training from a saved table, picking the format from the extension
func (t *trainer) LoadAgent(path string) error {
	return t.agent.Load(path)
}

func (t *trainer) textOut() io.Writer {
	if t.progress != nil {
		return t.progress.Bypass()
	}
	return t.out
}

func (t *trainer) rendering(episode int) bool {
	return t.config.Render > 0 && episode%t.config.Render == 0
}

func (t *trainer) render(lines ...string) {
	w := t.textOut()
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	t.env.Render(w)
	fmt.Fprintln(w)
	if t.config.RenderDelay > 0 {
		t.sleep(t.config.RenderDelay)
	}
}

// run plays the configured number of episodes. after is called once per episode
// after the exploration decay and before any checkpoint.
func (t *trainer) run(ctx context.Context, play func(int) (EpisodeResult, error), after func(int, EpisodeResult)) error {
	t.start = time.Now()
	t.logger.Info("training started",
		"episodes", t.config.Episodes,
		"seed", t.config.Seed,
		"output_dir", t.config.OutputDir,
	)
	if t.progress != nil {
		t.progress.Start()
		defer t.progress.Stop()
	}

	for episode := 0; episode < t.config.Episodes; episode++ {
		select {
		case <-ctx.Done():
			t.logger.Warn("training interrupted", "completed_episodes", episode)
			t.saveManifest(false)
			return ctx.Err()
		default:
		}

		res, err := play(episode)
		if err != nil {
			return fmt.Errorf("episode %d: %w", episode+1, err)
		}
		t.history.Record(res.Outcome, res.Reward, t.agent.TableSize(), t.agent.Epsilon(), res.InvalidMoves)
		t.metrics.ObserveEpisode(res, t.agent.TableSize(), t.agent.Epsilon())
		t.agent.DecayExploration()
		if after != nil {
			after(episode, res)
		}

		if t.progress != nil {
			t.progress.Update("Episode %d/%d, states: %d, epsilon: %.4f",
				episode+1, t.config.Episodes, t.agent.TableSize(), t.agent.Epsilon())
		}

		if (episode+1)%t.config.SaveInterval == 0 || episode == t.config.Episodes-1 {
			if err := t.checkpoint(episode + 1); err != nil {
				return err
			}
		}
	}

	paths, err := t.checkpointer.SaveModel(t.agent, "final")
	if err != nil {
		return err
	}
	if err := t.saveManifest(true); err != nil {
		return err
	}
	wins, losses, draws := t.history.Totals()
	t.logger.Info("training finished",
		"elapsed", time.Since(t.start).Round(time.Millisecond),
		"table_size", t.agent.TableSize(),
		"wins", wins,
		"losses", losses,
		"draws", draws,
		"model", paths[0],
	)
	return nil
}

func (t *trainer) checkpoint(episode int) error {
	paths, err := t.checkpointer.SaveModel(t.agent, fmt.Sprintf("episode_%d", episode))
	if err != nil {
		return err
	}
	plot, err := t.checkpointer.SavePlot(t.history, episode)
	if err != nil {
		return err
	}
	t.metrics.CheckpointWritten()
	if _, err := t.checkpointer.SaveMetrics(t.metrics); err != nil {
		return err
	}

	writeSummary(t.textOut(), t.checkpointer.Labels, episode, time.Since(t.start), t.agent, t.history)
	t.logger.Info("checkpoint written",
		"episode", episode,
		"models", paths,
		"plot", plot,
		"table_size", t.agent.TableSize(),
	)
	return nil
}

func (t *trainer) saveManifest(completed bool) error {
	wins, losses, draws := t.history.Totals()
	m := RunManifest{
		RunID:      t.runID,
		Mode:       t.mode,
		StartedAt:  t.start,
		FinishedAt: time.Now(),
		Completed:  completed,
		Episodes:   t.history.Len(),
		Seed:       t.config.Seed,
		Wins:       wins,
		Losses:     losses,
		Draws:      draws,
		TableSize:  t.agent.TableSize(),
	}
	if t.history.Ratings != nil {
		m.FinalRating = t.history.Rating()
	}
	if err := t.checkpointer.SaveManifest(m); err != nil {
		t.logger.Error("failed to save run manifest", "error", err)
		return err
	}
	return nil
}
