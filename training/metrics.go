package training

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of a run, exported as a Prometheus textfile at checkpoints
type Metrics struct {
	registry *prometheus.Registry

	episodes          *prometheus.CounterVec
	steps             prometheus.Counter
	invalidMoves      prometheus.Counter
	opponentRefreshes prometheus.Counter
	checkpoints       prometheus.Counter
	tableSize         prometheus.Gauge
	epsilon           prometheus.Gauge
	rating            prometheus.Gauge
}

func NewMetrics(mode, runID string) *Metrics {
	labels := prometheus.Labels{"mode": mode, "run_id": runID}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "dropmind",
			Name:        "episodes_total",
			Help:        "Completed episodes by outcome for the learning agent.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dropmind",
			Name:        "steps_total",
			Help:        "Moves played across all episodes.",
			ConstLabels: labels,
		}),
		invalidMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dropmind",
			Name:        "invalid_moves_total",
			Help:        "Moves rejected by the environment.",
			ConstLabels: labels,
		}),
		opponentRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dropmind",
			Name:        "opponent_refreshes_total",
			Help:        "Times the opponent was replaced by a snapshot of the primary agent.",
			ConstLabels: labels,
		}),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dropmind",
			Name:        "checkpoints_total",
			Help:        "Checkpoints written.",
			ConstLabels: labels,
		}),
		tableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "dropmind",
			Name:        "qtable_states",
			Help:        "Distinct states in the Q-table.",
			ConstLabels: labels,
		}),
		epsilon: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "dropmind",
			Name:        "exploration_rate",
			Help:        "Current exploration rate.",
			ConstLabels: labels,
		}),
		rating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "dropmind",
			Name:        "rating",
			Help:        "Rating of the primary agent against its snapshots.",
			ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(
		m.episodes,
		m.steps,
		m.invalidMoves,
		m.opponentRefreshes,
		m.checkpoints,
		m.tableSize,
		m.epsilon,
		m.rating,
	)
	return m
}

func (m *Metrics) ObserveEpisode(res EpisodeResult, tableSize int, epsilon float64) {
	m.episodes.WithLabelValues(res.Outcome.String()).Inc()
	m.steps.Add(float64(res.Steps))
	m.invalidMoves.Add(float64(res.InvalidMoves))
	m.tableSize.Set(float64(tableSize))
	m.epsilon.Set(epsilon)
}

func (m *Metrics) SetRating(r float64) {
	m.rating.Set(r)
}

func (m *Metrics) OpponentRefreshed() {
	m.opponentRefreshes.Inc()
}

func (m *Metrics) CheckpointWritten() {
	m.checkpoints.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
