package policies

import (
	"math"
	"sort"

	"github.com/zeu5/dropmind/types"
)

// QTable maps a state to the value of each of its actions.
// Reads of absent entries return 0 without materializing anything,
// writes materialize every action of the state with 0.
type QTable struct {
	table map[types.State]*[types.NumActions]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[types.State]*[types.NumActions]float64),
	}
}

func (q *QTable) Get(state types.State, action types.Action) float64 {
	row, ok := q.table[state]
	if !ok || action < 0 || int(action) >= types.NumActions {
		return 0
	}
	return row[action]
}

// Init creates the row of the state if missing
func (q *QTable) Init(state types.State) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = new([types.NumActions]float64)
	}
}

// Set stores a value, rejecting malformed states and out of range actions
func (q *QTable) Set(state types.State, action types.Action, val float64) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := action.Validate(); err != nil {
		return err
	}
	q.Init(state)
	q.table[state][action] = val
	return nil
}

func (q *QTable) HasState(state types.State) bool {
	_, ok := q.table[state]
	return ok
}

// MaxAmong returns the largest value among the actions, or 0 when there are none
func (q *QTable) MaxAmong(state types.State, actions []types.Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	maxVal := math.Inf(-1)
	for _, a := range actions {
		if val := q.Get(state, a); val > maxVal {
			maxVal = val
		}
	}
	return maxVal
}

// Size is the number of distinct states in the table
func (q *QTable) Size() int {
	return len(q.table)
}

// States returns the stored states in sorted order
func (q *QTable) States() []types.State {
	states := make([]types.State, 0, len(q.table))
	for s := range q.table {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

func (q *QTable) Copy() *QTable {
	c := &QTable{
		table: make(map[types.State]*[types.NumActions]float64, len(q.table)),
	}
	for s, row := range q.table {
		r := *row
		c.table[s] = &r
	}
	return c
}

// Snapshot is the plain map form of the table used by the persisted formats
type Snapshot map[string]map[int]float64

func (q *QTable) Snapshot() Snapshot {
	out := make(Snapshot, len(q.table))
	for s, row := range q.table {
		values := make(map[int]float64, types.NumActions)
		for a, v := range row {
			values[a] = v
		}
		out[string(s)] = values
	}
	return out
}

// qTableFromSnapshot validates every key before building the table,
// so nothing is returned for a partially valid snapshot.
func qTableFromSnapshot(snap Snapshot) (*QTable, error) {
	q := NewQTable()
	for s, values := range snap {
		state := types.State(s)
		if err := state.Validate(); err != nil {
			return nil, err
		}
		row := new([types.NumActions]float64)
		for a, v := range values {
			action := types.Action(a)
			if err := action.Validate(); err != nil {
				return nil, err
			}
			row[action] = v
		}
		q.table[state] = row
	}
	return q, nil
}
