package attribute

import "strings"

// Nomination is the single-field form of the mutually exclusive state and
// regional nomination bonuses. Holding one value instead of two flags makes
// a simultaneous claim of both bonuses unrepresentable.
type Nomination int

const (
	NominationNone Nomination = iota
	NominationState
	NominationRegional
)

func (n Nomination) String() string {
	switch n {
	case NominationState:
		return "state"
	case NominationRegional:
		return "regional"
	default:
		return "none"
	}
}

// ParseNomination maps a wire name to a nomination. Unknown names are none.
func ParseNomination(value string) Nomination {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "state":
		return NominationState
	case "regional":
		return NominationRegional
	default:
		return NominationNone
	}
}

// toggle applies a boolean write addressed to the target nomination.
// Setting the target replaces whatever was active; clearing it only affects
// the target, never the other nomination.
func (n Nomination) toggle(target Nomination, on bool) Nomination {
	if on {
		return target
	}
	if n == target {
		return NominationNone
	}
	return n
}
