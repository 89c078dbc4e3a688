package training

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/zeu5/dropmind/config"
	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/types"
	"github.com/zeu5/dropmind/util"
)

// Checkpointer writes models, plots and metrics of a run
type Checkpointer struct {
	ModelsDir   string
	GraphsDir   string
	SaveJSON    bool
	Plots       bool
	MetricsFile bool
	PlotPrefix  string
	Labels      types.OutcomeLabels
}

func NewCheckpointer(c *config.Config, plotPrefix string, labels types.OutcomeLabels) *Checkpointer {
	return &Checkpointer{
		ModelsDir:   c.OutputDir,
		GraphsDir:   c.GraphsDir,
		SaveJSON:    c.SaveJSON,
		Plots:       c.Plots,
		MetricsFile: c.MetricsFile,
		PlotPrefix:  plotPrefix,
		Labels:      labels,
	}
}

func (c *Checkpointer) ModelPath(name, ext string) string {
	return filepath.Join(c.ModelsDir, fmt.Sprintf("qtable_%s.%s", name, ext))
}

// SaveModel writes the table of the agent and returns the written paths
func (c *Checkpointer) SaveModel(agent *policies.QAgent, name string) ([]string, error) {
	paths := []string{c.ModelPath(name, "gob")}
	if err := agent.SaveBinary(paths[0]); err != nil {
		return nil, fmt.Errorf("saving %s: %w", paths[0], err)
	}
	if c.SaveJSON {
		p := c.ModelPath(name, "json")
		if err := agent.SaveJSON(p); err != nil {
			return nil, fmt.Errorf("saving %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// SavePlot renders the history, returning an empty path when plots are disabled
func (c *Checkpointer) SavePlot(h *types.History, episode int) (string, error) {
	if !c.Plots {
		return "", nil
	}
	if err := util.EnsureDir(c.GraphsDir); err != nil {
		return "", err
	}
	p := filepath.Join(c.GraphsDir, fmt.Sprintf("%s_episode_%d.png", c.PlotPrefix, episode))
	if err := types.PlotHistory(h, c.Labels, p); err != nil {
		return "", fmt.Errorf("plotting %s: %w", p, err)
	}
	return p, nil
}

func (c *Checkpointer) SaveMetrics(m *Metrics) (string, error) {
	if !c.MetricsFile {
		return "", nil
	}
	if err := util.EnsureDir(c.ModelsDir); err != nil {
		return "", err
	}
	p := filepath.Join(c.ModelsDir, "metrics.prom")
	if err := m.WriteTextfile(p); err != nil {
		return "", fmt.Errorf("writing %s: %w", p, err)
	}
	return p, nil
}

// RunManifest describes a finished or interrupted run
type RunManifest struct {
	RunID       string    `json:"run_id"`
	Mode        string    `json:"mode"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Completed   bool      `json:"completed"`
	Episodes    int       `json:"episodes"`
	Seed        uint64    `json:"seed"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	TableSize   int       `json:"table_size"`
	FinalRating float64   `json:"final_rating,omitempty"`
}

func (c *Checkpointer) SaveManifest(m RunManifest) error {
	return util.SaveJson(filepath.Join(c.ModelsDir, "run.json"), m)
}

func writeSummary(w io.Writer, labels types.OutcomeLabels, episode int, elapsed time.Duration, agent *policies.QAgent, h *types.History) {
	recent := h.Recent(types.MovingAverageWindow)
	fmt.Fprintf(w, "Episode %d completed in %.2f seconds\n", episode, elapsed.Seconds())
	fmt.Fprintf(w, "Q-table size: %d states\n", agent.TableSize())
	fmt.Fprintf(w, "Recent %s rate: %.2f\n", labels[0], recent.WinRate)
	fmt.Fprintf(w, "Recent %s rate: %.2f\n", labels[1], recent.LossRate)
	fmt.Fprintf(w, "Recent %s rate: %.2f\n", labels[2], recent.DrawRate)
	fmt.Fprintf(w, "Recent average reward: %.2f\n", recent.AvgReward)
	fmt.Fprintf(w, "Current exploration rate: %.4f\n", agent.Epsilon())
	if h.Ratings != nil {
		fmt.Fprintf(w, "Current rating: %.1f\n", h.Rating())
	}
}
