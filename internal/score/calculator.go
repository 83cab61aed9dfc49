package score

import (
	"log/slog"

	"pointscalc/internal/attribute"
)

// Option is one selectable value of a category and the points it scores.
type Option struct {
	Value  string `json:"value"`
	Points int    `json:"points"`
}

// Category describes a scoring category for the presentation layer. The
// identifier is also the translation key of its label.
type Category struct {
	ID      attribute.Field `json:"id"`
	Kind    attribute.Kind  `json:"kind"`
	Options []Option        `json:"options"`
}

// Calculator sums the points of a rule table over an attribute set.
//
// Every rule is evaluated on every computation; nothing is cached, so a
// result depends on the attribute set alone. A Calculator is safe for
// concurrent use once created.
type Calculator struct {
	// rules are evaluated in declaration order; every matching rule adds its points.
	rules []Rule
}

// Breakdown returns the points per category. Categories that score zero are
// omitted. Rules failing at runtime are logged and skipped.
func (c *Calculator) Breakdown(set attribute.Set) Score {
	activation := set.Activation()

	score := make(Score)
	for _, rule := range c.rules {
		delta, err := rule.Eval(activation)
		if err != nil {
			slog.Error("rule eval", "error", err, "rule", rule.When)
			continue
		}
		for category, points := range delta {
			score[category] += points
		}
	}

	for category, points := range score {
		if points == 0 {
			delete(score, category)
		}
	}
	return score
}

// Total returns the sum of all category points.
func (c *Calculator) Total(set attribute.Set) int {
	return c.Breakdown(set).Sum()
}

// ScoreOf returns the points category scores when set to value on an
// otherwise default attribute set. Unknown categories and values score zero.
func (c *Calculator) ScoreOf(category attribute.Field, value string) int {
	return c.Breakdown(attribute.Set{}.With(category, value))[category]
}

// Catalog lists every scoring category with the points of each option.
// Flags are listed with the single option "true".
func (c *Calculator) Catalog() []Category {
	fields := attribute.Fields()
	catalog := make([]Category, 0, len(fields))
	for _, d := range fields {
		category := Category{ID: d.Field, Kind: d.Kind}

		values := d.Options
		if d.Kind == attribute.KindFlag {
			values = []string{"true"}
		}
		for _, value := range values {
			category.Options = append(category.Options, Option{
				Value:  value,
				Points: c.ScoreOf(d.Field, value),
			})
		}
		catalog = append(catalog, category)
	}
	return catalog
}

// NewCalculator creates a calculator over compiled rules.
func NewCalculator(rules []Rule) *Calculator {
	return &Calculator{rules: rules}
}

// NewDefaultCalculator creates a calculator over the built-in points table.
func NewDefaultCalculator() (*Calculator, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return NewCalculator(rules), nil
}
