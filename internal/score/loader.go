package score

import (
	_ "embed"
	"fmt"
	"os"

	"pointscalc/internal/attribute"

	"gopkg.in/yaml.v3"
)

// defaultRules is the points table compiled into the binary.
//
//go:embed rules.yaml
var defaultRules []byte

// DefaultRules compiles the built-in points table.
func DefaultRules() ([]Rule, error) {
	return LoadRules(defaultRules)
}

// LoadFromFile reads a YAML rules file and compiles it.
func LoadFromFile(file string) ([]Rule, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return LoadRules(content)
}

// LoadRules parses a YAML list of rules and compiles every condition.
//
// The script must contain a list of rules:
//
//   - when: age == "25-32"
//     then:
//     age: 30
//
// Every category in Then must be a scoring category and every point value
// must be non-negative, which keeps any total at or above zero.
func LoadRules(content []byte) ([]Rule, error) {
	rules := []Rule{}
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, err
	}

	env, err := NewAttributeEnv()
	if err != nil {
		return nil, err
	}

	categories := make(map[attribute.Field]bool)
	for _, d := range attribute.Fields() {
		categories[d.Field] = true
	}

	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
		for category, points := range rules[i].Then {
			if !categories[category] {
				return nil, fmt.Errorf("rule #%d: unknown category %q", i+1, category)
			}
			if points < 0 {
				return nil, fmt.Errorf("rule #%d: category %q: points must be non-negative, got %d", i+1, category, points)
			}
		}
	}
	return rules, nil
}
