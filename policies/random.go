package policies

import (
	"time"

	"github.com/zeu5/dropmind/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Policy picks an action among the valid ones, false when there is none
type Policy interface {
	SelectAction(types.State, []types.Action) (types.Action, bool)
}

var _ Policy = &QAgent{}
var _ Policy = &RandomPolicy{}

// RandomPolicy plays a uniformly random valid column
type RandomPolicy struct {
	source rand.Source
}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPolicy{
		source: rand.NewSource(seed),
	}
}

func (r *RandomPolicy) SelectAction(_ types.State, valid []types.Action) (types.Action, bool) {
	if len(valid) == 0 {
		return 0, false
	}
	weights := make([]float64, len(valid))
	for i := range weights {
		weights[i] = 1
	}
	i, ok := sampleuv.NewWeighted(weights, r.source).Take()
	if !ok {
		return 0, false
	}
	return valid[i], true
}
