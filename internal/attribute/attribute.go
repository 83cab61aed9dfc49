package attribute

import (
	"strconv"
	"strings"
)

// Field identifies an input of the attribute set. The identifier doubles as
// the wire name, the CEL variable name and the translation key of the input.
type Field string

const (
	Age                Field = "age"
	English            Field = "english"
	DomesticExperience Field = "domesticExperience"
	ForeignExperience  Field = "foreignExperience"
	Education          Field = "education"
	PartnerStatus      Field = "partnerStatus"
	Stem               Field = "stem"
	DomesticStudy      Field = "domesticStudy"
	RegionalStudy      Field = "regionalStudy"
	ProfessionalYear   Field = "professionalYear"
	CommunityLanguage  Field = "communityLanguage"
	StateNomination    Field = "stateNomination"
	RegionalNomination Field = "regionalNomination"
	// NominationChoice addresses the nomination pair as a single field
	// with values none, state and regional.
	NominationChoice Field = "nomination"
)

// Kind tells how a field is presented and parsed.
type Kind string

const (
	KindChoice Kind = "choice"
	KindFlag   Kind = "flag"
)

// Definition describes one scoring category of the attribute set.
type Definition struct {
	Field   Field    `json:"id"`
	Kind    Kind     `json:"kind"`
	Options []string `json:"options,omitempty"`
}

// definitions lists the scoring categories in display order.
var definitions = []Definition{
	{Field: Age, Kind: KindChoice, Options: []string{"18-24", "25-32", "33-39", "40-44", "45+"}},
	{Field: English, Kind: KindChoice, Options: []string{"competent", "proficient", "superior"}},
	{Field: DomesticExperience, Kind: KindChoice, Options: []string{"1-3", "3-5", "5-8", "8-10"}},
	{Field: ForeignExperience, Kind: KindChoice, Options: []string{"3-5", "5-8", "8-10"}},
	{Field: Education, Kind: KindChoice, Options: []string{"trade", "certificate", "diploma", "bachelor", "doctorate"}},
	{Field: PartnerStatus, Kind: KindChoice, Options: []string{"single", "partner-skilled", "partner-citizen", "partner-english"}},
	{Field: Stem, Kind: KindFlag},
	{Field: DomesticStudy, Kind: KindFlag},
	{Field: RegionalStudy, Kind: KindFlag},
	{Field: ProfessionalYear, Kind: KindFlag},
	{Field: CommunityLanguage, Kind: KindFlag},
	{Field: StateNomination, Kind: KindFlag},
	{Field: RegionalNomination, Kind: KindFlag},
}

const (
	choiceCount = 6
	flagCount   = 5
)

var (
	choiceSlots = map[Field]int{
		Age:                0,
		English:            1,
		DomesticExperience: 2,
		ForeignExperience:  3,
		Education:          4,
		PartnerStatus:      5,
	}
	flagSlots = map[Field]int{
		Stem:              0,
		DomesticStudy:     1,
		RegionalStudy:     2,
		ProfessionalYear:  3,
		CommunityLanguage: 4,
	}
)

// Fields returns the scoring categories in display order.
// The returned slice is a copy and may be modified by the caller.
func Fields() []Definition {
	result := make([]Definition, len(definitions))
	for i, d := range definitions {
		d.Options = append([]string(nil), d.Options...)
		result[i] = d
	}
	return result
}

// ParseField recognizes a field identifier. Besides the scoring categories
// the single-field nomination form is accepted.
func ParseField(id string) (Field, bool) {
	field := Field(id)
	if field == NominationChoice || field == StateNomination || field == RegionalNomination {
		return field, true
	}
	if _, ok := choiceSlots[field]; ok {
		return field, true
	}
	if _, ok := flagSlots[field]; ok {
		return field, true
	}
	return "", false
}

// Set holds the current value of every scoring input.
//
// The zero value is the default set: every choice unselected, every flag
// false and no nomination. Set is a comparable value type; mutations return
// a modified copy.
type Set struct {
	choices    [choiceCount]string
	flags      [flagCount]bool
	nomination Nomination
}

// With returns a copy of the set with one field changed.
//
// Choice values are stored as given, "none" and the empty string both clear
// the choice. Flag values use strconv.ParseBool syntax; anything unparsable
// is false. Writes to the nomination flags go through the exclusivity
// resolver, so the two nominations are never active together. Unknown
// fields leave the set unchanged.
func (s Set) With(field Field, value string) Set {
	value = strings.TrimSpace(value)

	if slot, ok := choiceSlots[field]; ok {
		if strings.EqualFold(value, "none") {
			value = ""
		}
		s.choices[slot] = value
		return s
	}
	if slot, ok := flagSlots[field]; ok {
		s.flags[slot] = parseFlag(value)
		return s
	}

	switch field {
	case StateNomination:
		s.nomination = s.nomination.toggle(NominationState, parseFlag(value))
	case RegionalNomination:
		s.nomination = s.nomination.toggle(NominationRegional, parseFlag(value))
	case NominationChoice:
		s.nomination = ParseNomination(value)
	}
	return s
}

// Value reads one field in its wire form: the selected option (empty when
// unselected) for choices, "true" or "false" for flags.
func (s Set) Value(field Field) string {
	if slot, ok := choiceSlots[field]; ok {
		return s.choices[slot]
	}
	if slot, ok := flagSlots[field]; ok {
		return strconv.FormatBool(s.flags[slot])
	}

	switch field {
	case StateNomination:
		return strconv.FormatBool(s.StateNomination())
	case RegionalNomination:
		return strconv.FormatBool(s.RegionalNomination())
	case NominationChoice:
		return s.nomination.String()
	}
	return ""
}

// Nomination returns the active nomination.
func (s Set) Nomination() Nomination {
	return s.nomination
}

// StateNomination reports whether the state nomination bonus is claimed.
func (s Set) StateNomination() bool {
	return s.nomination == NominationState
}

// RegionalNomination reports whether the regional nomination bonus is claimed.
func (s Set) RegionalNomination() bool {
	return s.nomination == NominationRegional
}

// Activation returns every field keyed by its identifier: choices as
// strings, flags as booleans and the nomination as its wire name.
func (s Set) Activation() map[string]any {
	activation := make(map[string]any, choiceCount+flagCount+3)
	for field, slot := range choiceSlots {
		activation[string(field)] = s.choices[slot]
	}
	for field, slot := range flagSlots {
		activation[string(field)] = s.flags[slot]
	}
	activation[string(StateNomination)] = s.StateNomination()
	activation[string(RegionalNomination)] = s.RegionalNomination()
	activation[string(NominationChoice)] = s.nomination.String()
	return activation
}

func parseFlag(value string) bool {
	on, err := strconv.ParseBool(value)
	return err == nil && on
}
