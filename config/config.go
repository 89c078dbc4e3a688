// Package config holds the parameters of a training run. Values come from the
// defaults, then an optional YAML file, then command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/util"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	AgentFlags  `yaml:"agent" json:"agent"`
	RunFlags    `yaml:"run" json:"run"`
	OutputFlags `yaml:"output" json:"output"`
}

type AgentFlags struct {
	LearningRate       float64 `yaml:"learning_rate" json:"learning_rate"`
	DiscountFactor     float64 `yaml:"discount_factor" json:"discount_factor"`
	ExplorationRate    float64 `yaml:"exploration_rate" json:"exploration_rate"`
	ExplorationDecay   float64 `yaml:"exploration_decay" json:"exploration_decay"`
	MinExplorationRate float64 `yaml:"min_exploration_rate" json:"min_exploration_rate"`
}

type RunFlags struct {
	Episodes               int           `yaml:"episodes" json:"episodes"`
	SaveInterval           int           `yaml:"save_interval" json:"save_interval"`
	OpponentUpdateInterval int           `yaml:"opponent_update_interval" json:"opponent_update_interval"`
	Seed                   uint64        `yaml:"seed" json:"seed"`
	Shaping                bool          `yaml:"shaping" json:"shaping"`
	Render                 int           `yaml:"render" json:"render"`
	RenderDelay            time.Duration `yaml:"render_delay" json:"render_delay"`
}

type OutputFlags struct {
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
	GraphsDir   string `yaml:"graphs_dir" json:"graphs_dir"`
	SaveJSON    bool   `yaml:"save_json" json:"save_json"`
	Plots       bool   `yaml:"plots" json:"plots"`
	MetricsFile bool   `yaml:"metrics_file" json:"metrics_file"`
}

func Default() *Config {
	return &Config{
		AgentFlags: AgentFlags{
			LearningRate:       0.1,
			DiscountFactor:     0.9,
			ExplorationRate:    1.0,
			ExplorationDecay:   0.995,
			MinExplorationRate: 0.01,
		},
		RunFlags: RunFlags{
			Episodes:               10000,
			SaveInterval:           1000,
			OpponentUpdateInterval: 500,
			Seed:                   0,
			Shaping:                true,
			Render:                 0,
			RenderDelay:            500 * time.Millisecond,
		},
		OutputFlags: OutputFlags{
			OutputDir:   "dropmind/models",
			GraphsDir:   "dropmind/graphs",
			SaveJSON:    true,
			Plots:       true,
			MetricsFile: true,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file leaves the defaults.
func Load(filePath string) (*Config, error) {
	c := Default()
	if filePath == "" {
		return c, nil
	}
	bs, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(bs))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filePath, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if err := c.AgentConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch {
	case c.Episodes <= 0:
		return fmt.Errorf("%w: episodes must be positive, got %d", ErrInvalidConfig, c.Episodes)
	case c.SaveInterval <= 0:
		return fmt.Errorf("%w: save interval must be positive, got %d", ErrInvalidConfig, c.SaveInterval)
	case c.OpponentUpdateInterval <= 0:
		return fmt.Errorf("%w: opponent update interval must be positive, got %d", ErrInvalidConfig, c.OpponentUpdateInterval)
	case c.Render < 0:
		return fmt.Errorf("%w: render interval must not be negative, got %d", ErrInvalidConfig, c.Render)
	case c.RenderDelay < 0:
		return fmt.Errorf("%w: render delay must not be negative, got %s", ErrInvalidConfig, c.RenderDelay)
	case c.OutputDir == "":
		return fmt.Errorf("%w: output dir is empty", ErrInvalidConfig)
	case c.Plots && c.GraphsDir == "":
		return fmt.Errorf("%w: graphs dir is empty", ErrInvalidConfig)
	}
	return nil
}

// AgentConfig translates the agent flags for the Q-learning agent
func (c *Config) AgentConfig() policies.QAgentConfig {
	return policies.QAgentConfig{
		Alpha:      c.LearningRate,
		Gamma:      c.DiscountFactor,
		Epsilon:    c.ExplorationRate,
		Decay:      c.ExplorationDecay,
		MinEpsilon: c.MinExplorationRate,
		Seed:       c.Seed,
	}
}

// Record saves the effective configuration as config.json in dir
func (c *Config) Record(dir string) error {
	return util.SaveJson(path.Join(dir, "config.json"), c)
}
