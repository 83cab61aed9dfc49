// Package eligibility ties the attribute set, the points table and the goal
// tracker into the two operations the presentation layer calls: updating an
// attribute and evaluating a set against a goal.
package eligibility

import (
	"pointscalc/internal/attribute"
	"pointscalc/internal/goal"
	"pointscalc/internal/score"
)

// Evaluation is everything the presentation layer renders for one
// attribute set and goal.
type Evaluation struct {
	goal.Progress
	Breakdown score.Score `json:"breakdown"`
}

// Engine evaluates attribute sets. It keeps no state between calls; the
// same inputs always produce the same evaluation.
type Engine struct {
	scorer score.Scorer
}

// UpdateAttribute applies one field write, including nomination
// exclusivity, and returns the normalized set.
func (e *Engine) UpdateAttribute(set attribute.Set, field attribute.Field, value string) attribute.Set {
	return set.With(field, value)
}

// Evaluate recomputes the total from scratch and derives the goal progress.
func (e *Engine) Evaluate(set attribute.Set, target int) Evaluation {
	breakdown := e.scorer.Breakdown(set)
	return Evaluation{
		Progress:  goal.Track(breakdown.Sum(), target),
		Breakdown: breakdown,
	}
}

// NewEngine creates an engine over a scorer.
func NewEngine(scorer score.Scorer) *Engine {
	return &Engine{scorer: scorer}
}
