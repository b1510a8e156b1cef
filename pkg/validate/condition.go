package validate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// condition is a compiled `when` clause gating a rule. Conditions are
// evaluated against the full configuration tree, exposed as `config`.
type condition struct {
	source  string
	program *vm.Program
}

// compileCondition compiles a when clause. An empty clause means the
// rule always runs.
func compileCondition(source string) (*condition, error) {
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile condition %q: %w", source, err)
	}
	return &condition{source: source, program: program}, nil
}

// met evaluates the condition against a configuration snapshot. An
// evaluation failure (for example a reference into a pruned subtree)
// reads as "condition not met" so a bad clause disables its rule rather
// than breaking the whole validation pass.
func (c *condition) met(cfg map[string]any) bool {
	if c == nil {
		return true
	}
	output, err := expr.Run(c.program, map[string]any{"config": cfg})
	if err != nil {
		return false
	}
	result, ok := output.(bool)
	return ok && result
}
