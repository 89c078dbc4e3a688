package training

import (
	"math"

	"github.com/zeu5/dropmind/types"
)

const (
	InitialRating = 1000.0
	// ReferenceRating is the nominal strength of the opponent snapshot
	ReferenceRating = 1000.0
	RatingK         = 32.0
)

// ExpectedScore of a player rated r against the reference opponent
func ExpectedScore(r float64) float64 {
	return 1 / (1 + math.Pow(10, (ReferenceRating-r)/400))
}

// UpdateRating applies the outcome of one game. Draws leave the rating unchanged.
func UpdateRating(r float64, outcome types.Outcome) float64 {
	var actual float64
	switch outcome {
	case types.Win:
		actual = 1
	case types.Loss:
		actual = 0
	default:
		return r
	}
	return r + RatingK*(actual-ExpectedScore(r))
}
