package score

import "pointscalc/internal/attribute"

// Score maps a category identifier to the points it contributes.
type Score map[attribute.Field]int

// Sum returns the total of all contributions.
func (s Score) Sum() int {
	total := 0
	for _, points := range s {
		total += points
	}
	return total
}

// Scorer computes the points of an attribute set.
type Scorer interface {
	Breakdown(set attribute.Set) Score
	Total(set attribute.Set) int
}
