package score

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule grants points when its condition holds for an attribute set.
// When is a CEL expression over the attribute environment, Then lists the
// points added per category. The program is compiled by Init.
type Rule struct {
	When string `yaml:"when"`
	Then Score  `yaml:"then"`

	program cel.Program
}

// emptyScore is returned by rules that do not apply.
var emptyScore = make(Score)

// Init compiles When into an executable program. The expression must
// type-check against env and produce a boolean.
func (r *Rule) Init(env *cel.Env) error {
	if r.When == "" {
		return errors.New("rule condition must be specified")
	}

	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("rule %q: condition must be boolean, got %s", r.When, checked.OutputType())
	}

	var err error
	r.program, err = env.Program(checked)
	if err != nil {
		return err
	}

	return nil
}

// Eval runs the rule against an activation built by attribute.Set.Activation.
// It returns Then when the condition is true and an empty score otherwise.
// An execution error also yields the empty score, together with the error,
// so callers may log it and carry on.
func (r *Rule) Eval(activation map[string]any) (Score, error) {
	if r.program == nil {
		return emptyScore, fmt.Errorf("rule %q is not initialized", r.When)
	}

	result, _, err := r.program.Eval(activation)
	if err != nil {
		return emptyScore, err
	}

	if matched, ok := result.Value().(bool); !ok || !matched {
		return emptyScore, nil
	}
	return r.Then, nil
}
