package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/dropmind/config"
)

var (
	cfg        *config.Config = config.Default()
	configPath string
	logLevel   string
	logFormat  string

	episodes               int
	saveInterval           int
	learningRate           float64
	discountFactor         float64
	explorationRate        float64
	explorationDecay       float64
	minExplorationRate     float64
	opponentUpdateInterval int
	noJSON                 bool
	render                 int
	renderDelay            time.Duration
	noShaping              bool
	seed                   uint64
	outputDir              string
	graphsDir              string
	noPlots                bool
	noMetrics              bool
	resumeFrom             string
)

func AddFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file, flags take precedence")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", defaults.Seed, "Random seed, 0 picks one from the clock")
	cmd.PersistentFlags().StringVar(&outputDir, "output-dir", defaults.OutputDir, "Directory for models and run files")
}

// AddTrainingFlags registers the flags shared by the training commands
func AddTrainingFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().IntVarP(&episodes, "episodes", "e", defaults.Episodes, "Number of episodes to train")
	cmd.Flags().IntVar(&saveInterval, "save-interval", defaults.SaveInterval, "Save model every X episodes")
	cmd.Flags().Float64Var(&learningRate, "learning-rate", defaults.LearningRate, "Learning rate (alpha)")
	cmd.Flags().Float64Var(&discountFactor, "discount-factor", defaults.DiscountFactor, "Discount factor (gamma)")
	cmd.Flags().Float64Var(&explorationRate, "exploration-rate", defaults.ExplorationRate, "Initial exploration rate (epsilon)")
	cmd.Flags().Float64Var(&explorationDecay, "exploration-decay", defaults.ExplorationDecay, "Exploration decay rate")
	cmd.Flags().Float64Var(&minExplorationRate, "min-exploration-rate", defaults.MinExplorationRate, "Minimum exploration rate")
	cmd.Flags().BoolVar(&noJSON, "no-json", !defaults.SaveJSON, "Do not save in JSON format")
	cmd.Flags().IntVar(&render, "render", defaults.Render, "Render every X episodes (0 for no rendering)")
	cmd.Flags().DurationVar(&renderDelay, "render-delay", defaults.RenderDelay, "Pause after each rendered move")
	cmd.Flags().BoolVar(&noShaping, "no-shaping", !defaults.Shaping, "Disable the position value reward shaping")
	cmd.Flags().StringVar(&graphsDir, "graphs-dir", defaults.GraphsDir, "Directory for progress plots")
	cmd.Flags().BoolVar(&noPlots, "no-plots", !defaults.Plots, "Do not plot progress at checkpoints")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", !defaults.MetricsFile, "Do not write the metrics textfile")
	cmd.Flags().StringVar(&resumeFrom, "resume", "", "Start from a saved Q-table (.gob or .json)")
}

// UpdateFlags loads the config file and applies the flags that were set explicitly
func UpdateFlags(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("episodes") {
		cfg.Episodes = episodes
	}
	if flags.Changed("save-interval") {
		cfg.SaveInterval = saveInterval
	}
	if flags.Changed("learning-rate") {
		cfg.LearningRate = learningRate
	}
	if flags.Changed("discount-factor") {
		cfg.DiscountFactor = discountFactor
	}
	if flags.Changed("exploration-rate") {
		cfg.ExplorationRate = explorationRate
	}
	if flags.Changed("exploration-decay") {
		cfg.ExplorationDecay = explorationDecay
	}
	if flags.Changed("min-exploration-rate") {
		cfg.MinExplorationRate = minExplorationRate
	}
	if flags.Changed("opponent-update") {
		cfg.OpponentUpdateInterval = opponentUpdateInterval
	}
	if flags.Changed("no-json") {
		cfg.SaveJSON = !noJSON
	}
	if flags.Changed("render") {
		cfg.Render = render
	}
	if flags.Changed("render-delay") {
		cfg.RenderDelay = renderDelay
	}
	if flags.Changed("no-shaping") {
		cfg.Shaping = !noShaping
	}
	if flags.Changed("graphs-dir") {
		cfg.GraphsDir = graphsDir
	}
	if flags.Changed("no-plots") {
		cfg.Plots = !noPlots
	}
	if flags.Changed("no-metrics") {
		cfg.MetricsFile = !noMetrics
	}
	return cfg.Validate()
}
