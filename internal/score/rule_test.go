package score

import (
	"os"
	"path/filepath"
	"testing"

	"pointscalc/internal/attribute"

	"github.com/google/cel-go/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Init_Success(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	rule := &Rule{When: `age == "18-24"`}

	err = rule.Init(env)
	assert.NoError(t, err)
	assert.NotNil(t, rule.program, "program should be compiled and assigned")
}

func TestRule_Init_ParseError(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	rule := &Rule{When: `age == `}
	assert.Error(t, rule.Init(env), "expected parse error for invalid expression")
}

func TestRule_Init_CheckError(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	rule := &Rule{When: `stem == "yes"`}
	assert.Error(t, rule.Init(env), "expected check error for type mismatch")

	rule = &Rule{When: `salary > 10`}
	assert.Error(t, rule.Init(env), "expected check error for undeclared variable")
}

func TestRule_Init_NonBoolean(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	rule := &Rule{When: `age`}
	assert.Error(t, rule.Init(env), "expected error for non-boolean condition")
}

func TestRule_Init_Empty(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	assert.Error(t, (&Rule{}).Init(env))
}

func TestRule_Eval_TrueCondition(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	rule := &Rule{
		When: `english == "superior"`,
		Then: Score{attribute.English: 20},
	}
	require.NoError(t, rule.Init(env))

	s, err := rule.Eval(attribute.Set{}.With(attribute.English, "superior").Activation())
	assert.NoError(t, err)
	assert.Equal(t, Score{attribute.English: 20}, s)
}

func TestRule_Eval_FalseCondition(t *testing.T) {
	env, err := NewAttributeEnv()
	require.NoError(t, err)

	rule := &Rule{
		When: `english == "superior"`,
		Then: Score{attribute.English: 20},
	}
	require.NoError(t, rule.Init(env))

	s, err := rule.Eval(attribute.Set{}.With(attribute.English, "proficient").Activation())
	assert.NoError(t, err)
	assert.Empty(t, s)
}

func TestRule_Eval_MissingVariable(t *testing.T) {
	env, err := cel.NewEnv(cel.Variable("clicks", cel.IntType))
	require.NoError(t, err)

	rule := &Rule{When: "clicks > 3", Then: Score{attribute.Stem: 1}}
	require.NoError(t, rule.Init(env))

	s, err := rule.Eval(map[string]any{})
	assert.Error(t, err)
	assert.Empty(t, s, "should return empty on evaluation error")
}

func TestRule_Eval_NotInitialized(t *testing.T) {
	rule := &Rule{When: "stem", Then: Score{attribute.Stem: 10}}

	s, err := rule.Eval(attribute.Set{}.Activation())
	assert.Error(t, err)
	assert.Empty(t, s)
}

func TestLoadRules_Default(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules)
}

func TestLoadRules_EmptyScript(t *testing.T) {
	rules, err := LoadRules([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, rules, "should handle empty script as empty rules")
}

func TestLoadRules_UnmarshalError(t *testing.T) {
	_, err := LoadRules([]byte("when: invalid yaml [[[[["))
	assert.Error(t, err)

	_, err = LoadRules([]byte("not: a list"))
	assert.Error(t, err, "should fail to unmarshal into []Rule")
}

func TestLoadRules_InvalidCondition(t *testing.T) {
	const script = `
- when: "unknownField == 1"
  then:
    age: 5
`
	_, err := LoadRules([]byte(script))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rule #1")
}

func TestLoadRules_UnknownCategory(t *testing.T) {
	const script = `
- when: stem
  then:
    salary: 5
`
	_, err := LoadRules([]byte(script))
	assert.ErrorContains(t, err, `unknown category "salary"`)
}

func TestLoadRules_NegativePoints(t *testing.T) {
	const script = `
- when: stem
  then:
    stem: -5
`
	_, err := LoadRules([]byte(script))
	assert.ErrorContains(t, err, "non-negative")
}

func TestLoadFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- when: stem\n  then:\n    stem: 7\n"), 0o600))

	rules, err := LoadFromFile(file)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, Score{attribute.Stem: 7}, rules[0].Then)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
