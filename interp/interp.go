// Package interp implements the pipeline executor (spec.md §4.5): it turns
// a parsed ast.Pipeline into forked processes (external commands) or
// concurrently running goroutines (in-process builtins and functions
// connected to a pipe), wires redirections, and folds the control
// constructs of spec.md §4.6 on top.
package interp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/core"
	"github.com/sush-shell/sush/expand"
)

// Interp drives one ShellCore through a stream of parsed scripts.
type Interp struct {
	Core *core.ShellCore

	// Parse is supplied by the cmd/sush wiring so eval/command substitution
	// can parse new source without interp importing parser (it would not
	// cycle — parser doesn't import interp — but keeping the seam explicit
	// mirrors expand.Config.CmdSubst's injection and keeps interp testable
	// with a stub parser).
	Parse func(src string) (*ast.Script, error)
}

// New wires a ShellCore's "eval" builtin to this Interp and returns it.
func New(c *core.ShellCore, parse func(src string) (*ast.Script, error)) *Interp {
	ip := &Interp{Core: c, Parse: parse}
	c.Eval = func(c *core.ShellCore, src string) int {
		sc, err := parse(src)
		if err != nil {
			fmt.Fprintln(c.Stderr, err)
			return 2
		}
		sub := &Interp{Core: c, Parse: parse}
		return sub.RunScript(sc)
	}
	return ip
}

// RunScript executes every pipeline in sc in order, honoring "&"
// backgrounding, and returns the exit status of the last pipeline run
// (spec.md §4.5: "$? reflects the last command").
func (ip *Interp) RunScript(sc *ast.Script) int {
	status := ip.Core.LastStatus
	var bg errgroup.Group
	for i, pl := range sc.Pipelines {
		if ip.Core.Sigint.Load() {
			ip.Core.LastStatus = 130
			ip.Core.Sigint.Store(false)
			status = 130
			break
		}
		if ip.Core.ReturnFlag || ip.Core.BreakCounter != 0 || ip.Core.ExitRequested {
			break
		}
		background := i < len(sc.Separators) && sc.Separators[i] == ast.SepAmp
		if background {
			pl := pl
			child := ip.Core.Fork()
			childIp := &Interp{Core: child, Parse: ip.Parse}
			waits, pid, failed := childIp.startPipeline(pl)
			if pid != 0 {
				ip.Core.LastBgPid = pid
			}
			if !failed {
				bg.Go(func() error {
					childIp.waitPipeline(pl, waits)
					return nil
				})
			}
			continue
		}
		status = ip.runPipeline(pl)
		ip.Core.LastStatus = status
		if status != 0 && ip.Core.Errexit && !ip.Core.SuspendErrexit {
			ip.Core.ExitRequested = true
			ip.Core.ExitCode = status
			break
		}
	}
	bg.Wait()
	return status
}

// expandConfig builds an expand.Config bound to this Interp's ShellCore,
// wiring command substitution back through the same executor.
func (ip *Interp) expandConfig() *expand.Config {
	return &expand.Config{
		Env:      ip.Core,
		CmdSubst: ip.cmdSubst,
		NoGlob:   ip.Core.NoGlob,
		Unset:    ip.Core.NoUnset,
	}
}

// cmdSubst runs src as a script and returns its stdout with trailing
// newlines stripped, per spec.md §4.5's "Command substitution".
func (ip *Interp) cmdSubst(src string) (string, error) {
	sc, err := ip.Parse(src)
	if err != nil {
		return "", err
	}
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	child := ip.Core.Fork()
	child.Stdout = w
	sub := &Interp{Core: child, Parse: ip.Parse}

	var out strings.Builder
	done := make(chan struct{})
	go func() {
		io.Copy(&out, r)
		close(done)
	}()

	sub.RunScript(sc)
	w.Close()
	<-done
	r.Close()
	ip.Core.LastStatus = child.LastStatus
	return strings.TrimRight(out.String(), "\n"), nil
}
