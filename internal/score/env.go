package score

import (
	"pointscalc/internal/attribute"

	"github.com/google/cel-go/cel"
)

// NewAttributeEnv declares every attribute as a CEL variable: choices as
// strings, flags as booleans, and the single-field nomination as a string.
func NewAttributeEnv() (*cel.Env, error) {
	fields := attribute.Fields()
	options := make([]cel.EnvOption, 0, len(fields)+1)
	for _, d := range fields {
		switch d.Kind {
		case attribute.KindChoice:
			options = append(options, cel.Variable(string(d.Field), cel.StringType))
		case attribute.KindFlag:
			options = append(options, cel.Variable(string(d.Field), cel.BoolType))
		}
	}
	options = append(options, cel.Variable(string(attribute.NominationChoice), cel.StringType))

	env, err := cel.NewEnv(options...)
	if err != nil {
		return nil, err
	}
	return env, nil
}
