package interp

import (
	"fmt"
	"os"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/core"
	"github.com/sush-shell/sush/expand"
)

// execCompound runs any non-Simple command variant against c (spec.md
// §4.6), honoring the stdin/stdout pipe ends a connected pipeline step
// wires in via applyRedirects.
func (ip *Interp) execCompound(c *core.ShellCore, cmd ast.Command, stdin, stdout *os.File) int {
	restore := ip.applyRedirects(c, cmd.Redirects(), stdin, stdout)
	defer restore()
	sub := &Interp{Core: c, Parse: ip.Parse}

	switch n := cmd.(type) {
	case *ast.Paren:
		c.PushScope()
		status := sub.RunScript(n.Body)
		c.PopScope()
		if c.ExitRequested {
			// a subshell's `exit` only terminates the subshell (spec.md
			// §4.5): absorb the request here since Paren already runs in a
			// forked/cloned core.
			c.ExitRequested = false
		}
		return status
	case *ast.Brace:
		return sub.RunScript(n.Body)
	case *ast.If:
		return sub.execIf(n)
	case *ast.While:
		return sub.execLoop(n.Cond, n.Body, false)
	case *ast.Until:
		return sub.execLoop(n.Cond, n.Body, true)
	case *ast.For:
		return sub.execFor(n)
	case *ast.Case:
		return sub.execCase(n)
	case *ast.Function:
		c.Functions[n.Name] = n
		return 0
	case *ast.Arithmetic:
		v, err := evalArith(c, n.Expr)
		if err != nil {
			fmt.Fprintln(c.Stderr, err)
			return 1
		}
		if v.Bool() {
			return 0
		}
		return 1
	}
	return 1
}

func (ip *Interp) execIf(n *ast.If) int {
	for i, cond := range n.Conds {
		ip.Core.SuspendErrexit = true
		status := ip.RunScript(cond)
		ip.Core.SuspendErrexit = false
		if status == 0 {
			return ip.RunScript(n.Bodies[i])
		}
	}
	if n.Else != nil {
		return ip.RunScript(n.Else)
	}
	return 0
}

// execLoop runs while/until: invert inverts the condition test (until).
func (ip *Interp) execLoop(cond, body *ast.Script, invert bool) int {
	c := ip.Core
	c.LoopLevel++
	defer func() { c.LoopLevel-- }()
	status := 0
	for {
		c.SuspendErrexit = true
		condStatus := ip.RunScript(cond)
		c.SuspendErrexit = false
		pass := condStatus == 0
		if invert {
			pass = !pass
		}
		if !pass {
			break
		}
		status = ip.RunScript(body)
		if stop := ip.loopBoundary(); stop {
			break
		}
	}
	return status
}

func (ip *Interp) execFor(n *ast.For) int {
	c := ip.Core
	cfg := ip.expandConfig()
	var items []string
	if n.Words == nil {
		items = c.Positional()
	} else {
		for _, w := range n.Words {
			fs, err := expand.Fields(w, cfg)
			if err != nil {
				fmt.Fprintln(c.Stderr, err)
				return 1
			}
			items = append(items, fs...)
		}
	}
	c.LoopLevel++
	defer func() { c.LoopLevel-- }()
	status := 0
	for _, item := range items {
		c.Set(n.Name, item)
		status = ip.RunScript(n.Body)
		if stop := ip.loopBoundary(); stop {
			break
		}
	}
	return status
}

// loopBoundary implements the break_counter decrement discipline: "continue"
// (encoded as BreakCounter == -1) resets and keeps the loop going; a
// positive BreakCounter is decremented once and, if still positive,
// propagated to an enclosing loop by stopping this one too.
func (ip *Interp) loopBoundary() (stop bool) {
	c := ip.Core
	if c.ReturnFlag || c.ExitRequested {
		return true
	}
	switch {
	case c.BreakCounter == -1:
		c.BreakCounter = 0
		return false
	case c.BreakCounter > 0:
		c.BreakCounter--
		return true
	default:
		return false
	}
}

func (ip *Interp) execCase(n *ast.Case) int {
	c := ip.Core
	cfg := ip.expandConfig()
	word, err := expand.Literal(n.Word, cfg)
	if err != nil {
		fmt.Fprintln(c.Stderr, err)
		return 1
	}
	status := 0
	matched := false
	for i := 0; i < len(n.Arms); i++ {
		arm := n.Arms[i]
		if !matched {
			hit := false
			for _, pat := range arm.Patterns {
				ps, err := expand.Literal(pat, cfg)
				if err != nil {
					continue
				}
				if matchPattern(ps, word) {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		status = ip.RunScript(arm.Body)
		switch arm.Term {
		case ast.TermBreak:
			return status
		case ast.TermFallthrough:
			matched = true
			continue
		case ast.TermResume:
			matched = false
			continue
		}
	}
	return status
}
