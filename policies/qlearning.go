package policies

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeu5/dropmind/types"
	"golang.org/x/exp/rand"
)

// TieBreakOrder is the column preference used when every value is equal
var TieBreakOrder = []types.Action{2, 1, 3, 0, 4}

var ErrInvalidParameters = errors.New("invalid agent parameters")

type QAgentConfig struct {
	Alpha      float64
	Gamma      float64
	Epsilon    float64
	Decay      float64
	MinEpsilon float64
	// Seed of the agent's random source, 0 picks one from the clock
	Seed uint64
}

func DefaultQAgentConfig() QAgentConfig {
	return QAgentConfig{
		Alpha:      0.1,
		Gamma:      0.9,
		Epsilon:    1.0,
		Decay:      0.995,
		MinEpsilon: 0.01,
	}
}

func (c QAgentConfig) Validate() error {
	switch {
	case c.Alpha <= 0 || c.Alpha > 1:
		return fmt.Errorf("%w: alpha %v not in (0,1]", ErrInvalidParameters, c.Alpha)
	case c.Gamma < 0 || c.Gamma > 1:
		return fmt.Errorf("%w: gamma %v not in [0,1]", ErrInvalidParameters, c.Gamma)
	case c.Epsilon < 0 || c.Epsilon > 1:
		return fmt.Errorf("%w: epsilon %v not in [0,1]", ErrInvalidParameters, c.Epsilon)
	case c.MinEpsilon < 0 || c.MinEpsilon > 1:
		return fmt.Errorf("%w: epsilon floor %v not in [0,1]", ErrInvalidParameters, c.MinEpsilon)
	case c.Decay <= 0 || c.Decay > 1:
		return fmt.Errorf("%w: epsilon decay %v not in (0,1]", ErrInvalidParameters, c.Decay)
	}
	return nil
}

// QAgent is an epsilon greedy tabular Q-learning policy
type QAgent struct {
	qTable     *QTable
	alpha      float64
	gamma      float64
	epsilon    float64
	decay      float64
	minEpsilon float64
	rand       *rand.Rand
}

func NewQAgent(config QAgentConfig) (*QAgent, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &QAgent{
		qTable:     NewQTable(),
		alpha:      config.Alpha,
		gamma:      config.Gamma,
		epsilon:    config.Epsilon,
		decay:      config.Decay,
		minEpsilon: config.MinEpsilon,
		rand:       rand.New(rand.NewSource(seed)),
	}, nil
}

// SelectAction picks among the valid actions. It returns false when there are
// none or when the state is malformed, leaving the table untouched.
func (q *QAgent) SelectAction(state types.State, valid []types.Action) (types.Action, bool) {
	if len(valid) == 0 || state.Validate() != nil {
		return 0, false
	}
	if q.rand.Float64() < q.epsilon {
		return valid[q.rand.Intn(len(valid))], true
	}
	return q.greedy(state, valid), true
}

func (q *QAgent) greedy(state types.State, valid []types.Action) types.Action {
	q.qTable.Init(state)

	values := make([]float64, len(valid))
	allEqual := true
	for i, a := range valid {
		values[i] = q.qTable.Get(state, a)
		if values[i] != values[0] {
			allEqual = false
		}
	}

	if allEqual {
		for _, pref := range TieBreakOrder {
			for _, a := range valid {
				if a == pref {
					return a
				}
			}
		}
		return valid[0]
	}

	maxVal := q.qTable.MaxAmong(state, valid)
	best := make([]types.Action, 0, len(valid))
	for i, a := range valid {
		if values[i] == maxVal {
			best = append(best, a)
		}
	}
	return best[q.rand.Intn(len(best))]
}

// Update applies one Q-learning step. An empty nextValid marks a terminal transition.
func (q *QAgent) Update(state types.State, action types.Action, reward float64, nextState types.State, nextValid []types.Action) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := action.Validate(); err != nil {
		return err
	}
	if len(nextValid) > 0 {
		if err := nextState.Validate(); err != nil {
			return err
		}
		for _, a := range nextValid {
			if err := a.Validate(); err != nil {
				return err
			}
		}
		q.qTable.Init(nextState)
	}
	q.qTable.Init(state)

	nextVal := q.qTable.MaxAmong(nextState, nextValid)
	curVal := q.qTable.Get(state, action)
	newVal := curVal + q.alpha*(reward+q.gamma*nextVal-curVal)
	return q.qTable.Set(state, action, newVal)
}

func (q *QAgent) DecayExploration() {
	q.epsilon = max(q.minEpsilon, q.epsilon*q.decay)
}

func (q *QAgent) Epsilon() float64 {
	return q.epsilon
}

// SetEpsilon overrides the exploration rate, used for greedy evaluation
func (q *QAgent) SetEpsilon(epsilon float64) {
	q.epsilon = epsilon
}

func (q *QAgent) TableSize() int {
	return q.qTable.Size()
}

// Q reads a single value, 0 when absent
func (q *QAgent) Q(state types.State, action types.Action) float64 {
	return q.qTable.Get(state, action)
}

func (q *QAgent) Table() *QTable {
	return q.qTable
}

// Clone returns a deep copy with an independent random source
func (q *QAgent) Clone() *QAgent {
	return &QAgent{
		qTable:     q.qTable.Copy(),
		alpha:      q.alpha,
		gamma:      q.gamma,
		epsilon:    q.epsilon,
		decay:      q.decay,
		minEpsilon: q.minEpsilon,
		rand:       rand.New(rand.NewSource(q.rand.Uint64())),
	}
}
