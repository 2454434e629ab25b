package interp

import (
	"github.com/sush-shell/sush/arith"
	"github.com/sush-shell/sush/core"
	"github.com/sush-shell/sush/pattern"
)

// arithEnv adapts ShellCore to arith.Store.
type arithEnv struct{ c *core.ShellCore }

func (a arithEnv) Get(name string) (string, bool) { return a.c.Get(name) }
func (a arithEnv) Set(name, value string)          { a.c.Set(name, value) }

// evalArith evaluates an arithmetic command/substitution expression
// against c's variable store (spec.md §4.4).
func evalArith(c *core.ShellCore, expr string) (arith.Value, error) {
	return arith.Eval(expr, arithEnv{c})
}

// matchPattern compiles and matches one case-arm pattern against an
// already-expanded word (spec.md §4.3). A malformed pattern degrades to a
// literal-equality comparison rather than aborting the case statement.
func matchPattern(src, input string) bool {
	pat, err := pattern.Compile(src)
	if err != nil {
		return src == input
	}
	return pat.Match(input)
}
