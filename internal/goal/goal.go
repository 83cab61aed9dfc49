package goal

const (
	// MinimumThreshold is the lowest total that qualifies for an invitation.
	MinimumThreshold = 65
	// MaximumGoal is the highest target the user may set.
	MaximumGoal = 120
	// Step is the granularity of the target.
	Step = 5
)

// Progress compares a total against the user's target and the minimum
// threshold.
type Progress struct {
	Total           int     `json:"total"`
	Goal            int     `json:"goal"`
	BelowMinimum    bool    `json:"belowMinimum"`
	RemainingToGoal int     `json:"remainingToGoal"`
	ProgressRatio   float64 `json:"progressRatio"`
}

// Clamp brings a requested goal into [MinimumThreshold, MaximumGoal] and
// snaps it to the nearest multiple of Step.
func Clamp(goal int) int {
	switch {
	case goal < MinimumThreshold:
		return MinimumThreshold
	case goal > MaximumGoal:
		return MaximumGoal
	}
	return (goal + Step/2) / Step * Step
}

// Track derives the progress figures for total against goal. The goal is
// clamped first, so the ratio never divides by zero.
func Track(total, goal int) Progress {
	goal = Clamp(goal)

	ratio := float64(total) / float64(goal)
	if ratio > 1.0 {
		ratio = 1.0
	}
	if ratio < 0.0 {
		ratio = 0.0
	}

	return Progress{
		Total:           total,
		Goal:            goal,
		BelowMinimum:    total < MinimumThreshold,
		RemainingToGoal: max(goal-total, 0),
		ProgressRatio:   ratio,
	}
}
