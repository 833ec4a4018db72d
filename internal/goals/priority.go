package goals

// #region imports
import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

// #endregion

// #region rule

// Rule boosts one goal's dynamic priority while its condition holds against
// the snapshot. The expression source is kept alongside the compiled program
// for status output.
type Rule struct {
	Goal    string
	Source  string
	Boost   int
	program *vm.Program
}

// CompileRules compiles the configured priority expressions once at startup.
// A rule that fails to compile is a configuration error, not a runtime one.
func CompileRules(rules []config.PriorityRule) ([]Rule, error) {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		program, err := expr.Compile(r.When, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("priority rule for %q: compile %q: %w", r.Goal, r.When, err)
		}
		out = append(out, Rule{Goal: r.Goal, Source: r.When, Boost: r.Boost, program: program})
	}
	return out, nil
}

// Holds evaluates the rule against a snapshot environment. Evaluation errors
// read as "condition not met"; a priority rule can degrade the schedule but
// never break it.
func (r Rule) Holds(env map[string]any) bool {
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}

// #endregion

// #region dynamic-priority

// DynamicPriority computes a goal's priority for this scheduling pass: the
// base priority plus every matching rule boost. Pure function of the goal
// and snapshot; it reads no scheduler state.
func DynamicPriority(g Goal, rules []Rule, snap world.Snapshot) int {
	p := g.BasePriority()
	env := snap.Env()
	for _, r := range rules {
		if r.Goal == g.Name() && r.Holds(env) {
			p += r.Boost
		}
	}
	return p
}

// #endregion
