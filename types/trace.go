package types

// Step of an episode as seen by the environment
type Step struct {
	Mover     Player
	State     State
	Action    Action
	NextState State
	Reward    float64
}

// Trace of an episode
type Trace struct {
	steps []Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]Step, 0),
	}
}

func (t *Trace) Append(mover Player, state State, action Action, nextState State, reward float64) {
	t.steps = append(t.steps, Step{
		Mover:     mover,
		State:     state,
		Action:    action,
		NextState: nextState,
		Reward:    reward,
	})
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (Step, bool) {
	if i < 0 || i >= len(t.steps) {
		return Step{}, false
	}
	return t.steps[i], true
}

func (t *Trace) Last() (Step, bool) {
	return t.Get(len(t.steps) - 1)
}

// Actions returns the sequence of actions played by the given player
func (t *Trace) Actions(p Player) []Action {
	actions := make([]Action, 0)
	for _, s := range t.steps {
		if s.Mover == p {
			actions = append(actions, s.Action)
		}
	}
	return actions
}
