package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	blueprint "github.com/Hank-IT/blueprint-core"
)

// Expr compiles an expression evaluated against {"value": ..., "state": ...}
// and returns a rule that fails with msg when the expression is not true.
// Compilation errors surface on first evaluation as the rule's message, so a
// typo cannot silently pass validation.
//
//	rules.Expr(`value != nil && len(value) >= 3`, "too short")
func Expr(code, msg string) blueprint.Rule {
	if msg == "" {
		msg = "invalid value"
	}
	program, compileErr := expr.Compile(code, expr.AllowUndefinedVariables())
	return funcRule(func(value any, state blueprint.State) string {
		if compileErr != nil {
			return fmt.Sprintf("rule expression error: %v", compileErr)
		}
		out, err := vm.Run(program, map[string]any{
			"value": value,
			"state": state,
		})
		if err != nil {
			return fmt.Sprintf("rule expression error: %v", err)
		}
		if pass, ok := out.(bool); ok && pass {
			return ""
		}
		return msg
	})
}
