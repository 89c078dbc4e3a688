package types

import (
	"gonum.org/v1/gonum/stat"
)

// Outcome of an episode from the point of view of the tracked player
type Outcome int

const (
	Win Outcome = iota
	Loss
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	}
	return "draw"
}

// History collects per episode metrics of a training run.
// Outcome series hold 0/1 indicators so that windows can be averaged directly.
type History struct {
	Rewards      []float64
	Wins         []float64
	Losses       []float64
	Draws        []float64
	TableSizes   []int
	Epsilons     []float64
	InvalidMoves []int
	// Ratings starts with the initial rating, nil when the run has no rating
	Ratings []float64
}

func NewHistory() *History {
	return &History{
		Rewards:      make([]float64, 0),
		Wins:         make([]float64, 0),
		Losses:       make([]float64, 0),
		Draws:        make([]float64, 0),
		TableSizes:   make([]int, 0),
		Epsilons:     make([]float64, 0),
		InvalidMoves: make([]int, 0),
	}
}

// NewRatedHistory creates a history that also tracks a rating
func NewRatedHistory(initial float64) *History {
	h := NewHistory()
	h.Ratings = []float64{initial}
	return h
}

func (h *History) Record(outcome Outcome, reward float64, tableSize int, epsilon float64, invalidMoves int) {
	win, loss, draw := 0.0, 0.0, 0.0
	switch outcome {
	case Win:
		win = 1
	case Loss:
		loss = 1
	default:
		draw = 1
	}
	h.Wins = append(h.Wins, win)
	h.Losses = append(h.Losses, loss)
	h.Draws = append(h.Draws, draw)
	h.Rewards = append(h.Rewards, reward)
	h.TableSizes = append(h.TableSizes, tableSize)
	h.Epsilons = append(h.Epsilons, epsilon)
	h.InvalidMoves = append(h.InvalidMoves, invalidMoves)
}

func (h *History) RecordRating(rating float64) {
	h.Ratings = append(h.Ratings, rating)
}

func (h *History) Len() int {
	return len(h.Rewards)
}

// Rating returns the latest rating, 0 when the history is not rated
func (h *History) Rating() float64 {
	if len(h.Ratings) == 0 {
		return 0
	}
	return h.Ratings[len(h.Ratings)-1]
}

// Summary of a window of episodes
type Summary struct {
	Episodes  int
	WinRate   float64
	LossRate  float64
	DrawRate  float64
	AvgReward float64
}

// Recent summarizes the last n episodes
func (h *History) Recent(n int) Summary {
	total := h.Len()
	if total == 0 || n <= 0 {
		return Summary{}
	}
	from := total - n
	if from < 0 {
		from = 0
	}
	return Summary{
		Episodes:  total - from,
		WinRate:   stat.Mean(h.Wins[from:], nil),
		LossRate:  stat.Mean(h.Losses[from:], nil),
		DrawRate:  stat.Mean(h.Draws[from:], nil),
		AvgReward: stat.Mean(h.Rewards[from:], nil),
	}
}

// Totals counts the outcomes over the whole history
func (h *History) Totals() (wins, losses, draws int) {
	for i := range h.Wins {
		wins += int(h.Wins[i])
		losses += int(h.Losses[i])
		draws += int(h.Draws[i])
	}
	return
}
