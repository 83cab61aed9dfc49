package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"pointscalc/internal/attribute"
	"pointscalc/internal/eligibility"
	"pointscalc/internal/goal"

	"github.com/spf13/cobra"
)

type evalFlags struct {
	choices map[attribute.Field]*string
	flags   map[attribute.Field]*bool
	goal    int
	format  string
	rules   string
}

func newEvalCmd() *cobra.Command {
	f := &evalFlags{
		choices: make(map[attribute.Field]*string),
		flags:   make(map[attribute.Field]*bool),
	}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one attribute set",
		Long: "Evaluate one attribute set given as flags and print the points per category,\n" +
			"the total and the progress towards the goal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, f)
		},
	}

	flags := cmd.Flags()
	for _, d := range attribute.Fields() {
		name := flagName(d.Field)
		switch d.Kind {
		case attribute.KindChoice:
			f.choices[d.Field] = flags.String(name, "", "One of: "+strings.Join(d.Options, ", "))
		case attribute.KindFlag:
			f.flags[d.Field] = flags.Bool(name, false, "Claim the "+name+" bonus")
		}
	}
	flags.IntVar(&f.goal, "goal", goal.MinimumThreshold, fmt.Sprintf("Target score, clamped to [%d, %d]", goal.MinimumThreshold, goal.MaximumGoal))
	flags.StringVar(&f.format, "format", "text", "Output format: text or json")
	flags.StringVar(&f.rules, "rules", "", "YAML rules file replacing the built-in points table")

	cmd.MarkFlagsMutuallyExclusive(flagName(attribute.StateNomination), flagName(attribute.RegionalNomination))
	return cmd
}

func runEval(cmd *cobra.Command, f *evalFlags) error {
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("unsupported format %q: use text or json", f.format)
	}

	calculator, err := loadCalculator(f.rules)
	if err != nil {
		return err
	}
	engine := eligibility.NewEngine(calculator)

	set := attribute.Set{}
	for _, d := range attribute.Fields() {
		if !cmd.Flags().Changed(flagName(d.Field)) {
			continue
		}
		var value string
		if d.Kind == attribute.KindChoice {
			value = *f.choices[d.Field]
		} else {
			value = strconv.FormatBool(*f.flags[d.Field])
		}
		set = engine.UpdateAttribute(set, d.Field, value)
	}

	evaluation := engine.Evaluate(set, f.goal)

	out := cmd.OutOrStdout()
	if f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Attributes attribute.Set          `json:"attributes"`
			Evaluation eligibility.Evaluation `json:"evaluation"`
		}{set, evaluation})
	}
	return renderText(out, evaluation)
}

func renderText(out io.Writer, e eligibility.Evaluation) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for _, d := range attribute.Fields() {
		if points, ok := e.Breakdown[d.Field]; ok {
			fmt.Fprintf(w, "%s\t%d\n", d.Field, points)
		}
	}

	status := "met"
	if e.BelowMinimum {
		status = "not met"
	}
	fmt.Fprintf(w, "total\t%d\n", e.Total)
	fmt.Fprintf(w, "minimum\t%d (%s)\n", goal.MinimumThreshold, status)
	fmt.Fprintf(w, "goal\t%d\n", e.Goal)
	fmt.Fprintf(w, "remaining\t%d\n", e.RemainingToGoal)
	fmt.Fprintf(w, "progress\t%.0f%%\n", e.ProgressRatio*100)

	return w.Flush()
}

// flagName turns a field identifier into a kebab-case flag name,
// e.g. domesticExperience into domestic-experience.
func flagName(field attribute.Field) string {
	var b strings.Builder
	for _, r := range string(field) {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
