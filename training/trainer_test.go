package training

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/dropmind/config"
	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := config.Default()
	c.OutputDir = filepath.Join(dir, "models")
	c.GraphsDir = filepath.Join(dir, "graphs")
	c.Episodes = 4
	c.SaveInterval = 2
	c.OpponentUpdateInterval = 2
	c.Seed = 11
	c.Plots = false
	c.RenderDelay = 0
	return c
}

func testOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func greedyConfig(t *testing.T) *config.Config {
	c := testConfig(t)
	c.ExplorationRate = 0
	c.MinExplorationRate = 0
	c.Shaping = false
	return c
}

func TestSelfPlayRun(t *testing.T) {
	c := testConfig(t)
	s, err := NewSelfPlay(c, testOptions())
	require.NoError(t, err)

	h, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, h.Len())
	require.Len(t, h.Ratings, 5)
	assert.Equal(t, InitialRating, h.Ratings[0])

	for i := 0; i < h.Len(); i++ {
		assert.Equal(t, 1.0, h.Wins[i]+h.Losses[i]+h.Draws[i], "episode %d", i)
		if h.Draws[i] == 1 {
			assert.Equal(t, h.Ratings[i], h.Ratings[i+1])
		} else {
			assert.NotEqual(t, h.Ratings[i], h.Ratings[i+1])
		}
		assert.Positive(t, h.TableSizes[i])
	}
	assert.Equal(t, 1.0, h.Epsilons[0])
	assert.InDelta(t, 0.995*0.995*0.995*0.995, s.Agent().Epsilon(), 1e-12)

	for _, name := range []string{
		"qtable_episode_2.gob", "qtable_episode_2.json",
		"qtable_episode_4.gob", "qtable_episode_4.json",
		"qtable_final.gob", "qtable_final.json",
		"metrics.prom", "run.json",
	} {
		assert.FileExists(t, filepath.Join(c.OutputDir, name))
	}
	assert.NoFileExists(t, filepath.Join(c.OutputDir, "qtable_episode_1.gob"))

	loaded, err := policies.NewQAgent(c.AgentConfig())
	require.NoError(t, err)
	require.NoError(t, loaded.LoadBinary(filepath.Join(c.OutputDir, "qtable_final.gob")))
	assert.Equal(t, s.Agent().TableSize(), loaded.TableSize())
}

func TestSelfPlayMetricsAndManifest(t *testing.T) {
	c := testConfig(t)
	s, err := NewSelfPlay(c, testOptions())
	require.NoError(t, err)
	h, err := s.Run(context.Background())
	require.NoError(t, err)

	m := s.Metrics()
	wins, losses, draws := h.Totals()
	assert.Equal(t, float64(wins), testutil.ToFloat64(m.episodes.WithLabelValues("win")))
	assert.Equal(t, float64(losses), testutil.ToFloat64(m.episodes.WithLabelValues("loss")))
	assert.Equal(t, float64(draws), testutil.ToFloat64(m.episodes.WithLabelValues("draw")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.opponentRefreshes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkpoints))
	assert.Equal(t, h.Rating(), testutil.ToFloat64(m.rating))

	bs, err := os.ReadFile(filepath.Join(c.OutputDir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "dropmind_episodes_total")
	assert.Contains(t, string(bs), s.RunID())

	bs, err = os.ReadFile(filepath.Join(c.OutputDir, "run.json"))
	require.NoError(t, err)
	var manifest RunManifest
	require.NoError(t, json.Unmarshal(bs, &manifest))
	assert.Equal(t, s.RunID(), manifest.RunID)
	assert.Equal(t, "selfplay", manifest.Mode)
	assert.True(t, manifest.Completed)
	assert.Equal(t, 4, manifest.Episodes)
	assert.Equal(t, wins+losses+draws, manifest.Wins+manifest.Losses+manifest.Draws)
	assert.Equal(t, h.Rating(), manifest.FinalRating)
}

func TestSelfPlayPrimaryAsA(t *testing.T) {
	s, err := NewSelfPlay(greedyConfig(t), testOptions())
	require.NoError(t, err)

	_, err = s.PlayEpisode(0)
	require.NoError(t, err)

	// A opens in the center and pays the move cost
	assert.InDelta(t, -0.005, s.Agent().Q("000000000000000", 2), 1e-12)
	// B's reply is learned with the tokens swapped and the reward negated
	assert.InDelta(t, 0.005, s.Agent().Q("000000000000200", 2), 1e-12)
	assert.Zero(t, s.Agent().Q("000000000000100", 2))
}

func TestSelfPlayPrimaryAsB(t *testing.T) {
	s, err := NewSelfPlay(greedyConfig(t), testOptions())
	require.NoError(t, err)

	res, err := s.PlayEpisode(1)
	require.NoError(t, err)
	require.Equal(t, res.Steps, res.Trace.Len())
	first, ok := res.Trace.Get(0)
	require.True(t, ok)
	assert.Equal(t, types.PlayerA, first.Mover)
	assert.Equal(t, types.Action(2), first.Action)
	assert.Equal(t, -0.05, first.Reward)
	last, _ := res.Trace.Last()
	assert.Equal(t, last.NextState, s.env.State())

	// the opponent opened for A, seen by the primary from the swapped side
	assert.InDelta(t, 0.005, s.Agent().Q("000000000000000", 2), 1e-12)
	// the primary replies on the raw state
	assert.InDelta(t, -0.005, s.Agent().Q("000000000000100", 2), 1e-12)
	assert.Equal(t, outcomeFor(res.Winner, types.PlayerB), res.Outcome)
}

func TestSelfPlayPrimaryWinsAsB(t *testing.T) {
	s, err := NewSelfPlay(greedyConfig(t), testOptions())
	require.NoError(t, err)

	// bottom row B B _ A A, B to move and column 2 completes the line
	position := types.State("000000000022011")
	require.NoError(t, s.Agent().Table().Set(position, 2, 0.5))
	require.NoError(t, s.env.SetPosition(position, types.PlayerB))

	res, err := s.playOut(1, types.PlayerB)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, types.PlayerB, res.Winner)
	assert.Equal(t, types.Win, res.Outcome)
	assert.Equal(t, 1.0, res.Reward)
	// the engine's -1 for B is the mover's +1
	assert.InDelta(t, 0.55, s.Agent().Q(position, 2), 1e-12)
}

func TestSelfPlayOpponentWinIsPenalized(t *testing.T) {
	s, err := NewSelfPlay(greedyConfig(t), testOptions())
	require.NoError(t, err)

	position := types.State("000000000022011")
	require.NoError(t, s.Opponent().Table().Set(position.Swap(), 2, 0.5))
	require.NoError(t, s.env.SetPosition(position, types.PlayerB))

	res, err := s.playOut(0, types.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, types.PlayerB, res.Winner)
	assert.Equal(t, types.Loss, res.Outcome)
	assert.Equal(t, -1.0, res.Reward)
	// learned from the opponent's side of the board
	assert.InDelta(t, -0.1, s.Agent().Q(position.Swap(), 2), 1e-12)
	assert.Zero(t, s.Agent().Q(position, 2))
	assert.InDelta(t, 0.5, s.Opponent().Q(position.Swap(), 2), 1e-12)
}

func TestOpponentIsNeverUpdated(t *testing.T) {
	c := testConfig(t)
	c.OpponentUpdateInterval = 1000
	s, err := NewSelfPlay(c, testOptions())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)
	opponent := s.Opponent().Table()
	for _, state := range opponent.States() {
		for _, a := range types.AllActions() {
			assert.Zero(t, opponent.Get(state, a))
		}
	}
	assert.Positive(t, s.Agent().TableSize())
}

func TestSelfPlayCancelled(t *testing.T) {
	c := testConfig(t)
	s, err := NewSelfPlay(c, testOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.Len())
	assert.NoFileExists(t, filepath.Join(c.OutputDir, "qtable_final.gob"))

	bs, err := os.ReadFile(filepath.Join(c.OutputDir, "run.json"))
	require.NoError(t, err)
	var manifest RunManifest
	require.NoError(t, json.Unmarshal(bs, &manifest))
	assert.False(t, manifest.Completed)
}

func TestSelfPlayRendersAndSummarizes(t *testing.T) {
	c := testConfig(t)
	c.Episodes = 1
	c.Render = 1
	c.RenderDelay = 5 * time.Millisecond
	out := new(bytes.Buffer)
	opts := testOptions()
	opts.Out = out

	s, err := NewSelfPlay(c, opts)
	require.NoError(t, err)
	sleeps := 0
	s.sleep = func(d time.Duration) {
		assert.Equal(t, c.RenderDelay, d)
		sleeps++
	}

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Episode: 1/1")
	assert.Contains(t, text, "Primary agent is Player A")
	assert.Contains(t, text, "0 1 2 3 4")
	assert.Contains(t, text, "Episode 1 completed in")
	assert.Contains(t, text, "Current rating:")
	assert.Equal(t, strings.Count(text, "Step: "), sleeps)
	assert.Positive(t, sleeps)
	assert.Equal(t, 1, h.Len())
}

func TestSelfPlayResumesFromSnapshot(t *testing.T) {
	c := testConfig(t)
	first, err := NewSelfPlay(c, testOptions())
	require.NoError(t, err)
	_, err = first.Run(context.Background())
	require.NoError(t, err)

	second, err := NewSelfPlay(c, testOptions())
	require.NoError(t, err)
	require.NoError(t, second.LoadAgent(filepath.Join(c.OutputDir, "qtable_final.json")))
	assert.Equal(t, first.Agent().TableSize(), second.Agent().TableSize())
	assert.Equal(t, first.Agent().TableSize(), second.Opponent().TableSize())
}

func TestInvalidConfigRejected(t *testing.T) {
	c := testConfig(t)
	c.SaveInterval = 0
	_, err := NewSelfPlay(c, testOptions())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
