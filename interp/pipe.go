package interp

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/core"
)

// runPipeline implements spec.md §4.5 steps 1-5: lazy pipe allocation, the
// per-step PipeRecipe, dispatch, and waiting on every step before returning
// the last command's exit status.
func (ip *Interp) runPipeline(pl *ast.Pipeline) int {
	waits, _, failed := ip.startPipeline(pl)
	if failed {
		return 1
	}
	return ip.waitPipeline(pl, waits)
}

// startPipeline launches every stage of pl (spec.md §4.5 steps 1-3: lazy
// pipe allocation and dispatch) and returns once every stage has been
// started, without waiting for any of them to finish. lastPid is the OS pid
// of the pipeline's last stage if it ran as a real external process, or 0
// if it ran as a simulated fork (builtin/function) with no pid of its own —
// the value `$!` should report once this pipeline is backgrounded.
func (ip *Interp) startPipeline(pl *ast.Pipeline) (waits []func() int, lastPid int, failed bool) {
	n := len(pl.Commands)
	var prevRead *os.File

	for i, cmd := range pl.Commands {
		var stdoutW, nextRead *os.File
		if i < n-1 {
			r, w, err := os.Pipe()
			if err != nil {
				fmt.Fprintln(ip.Core.Stderr, "pipe:", err)
				return nil, 0, true
			}
			stdoutW, nextRead = w, r
		}
		connected := prevRead != nil || stdoutW != nil
		wait, pid := ip.dispatch(cmd, prevRead, stdoutW, connected)
		if stdoutW != nil {
			stdoutW.Close()
		}
		if prevRead != nil {
			prevRead.Close()
		}
		prevRead = nextRead
		waits = append(waits, wait)
		lastPid = pid
	}
	return waits, lastPid, false
}

// waitPipeline waits on every stage started by startPipeline and applies
// pl.Negated ("!") to the last stage's status.
func (ip *Interp) waitPipeline(pl *ast.Pipeline, waits []func() int) int {
	status := 0
	for _, w := range waits {
		status = w()
	}
	if pl.Negated {
		if status == 0 {
			status = 1
		} else {
			status = 0
		}
	}
	return status
}

// dispatch performs the three-way classification of spec.md §4.5 step 3 and
// the design-notes "executor branching": external commands and any
// builtin/function forced to fork or connected to a pipe run concurrently
// — simulating fork with a goroutine over a cloned ShellCore (or a real
// child process for externals, via os/exec); a standalone, unconnected
// builtin/function runs synchronously in the current goroutine, mutating
// ip.Core directly. It returns a function that waits for completion and
// yields the exit status, plus the OS pid of the stage if it is a real
// external process (0 otherwise — a simulated fork has no pid of its own).
func (ip *Interp) dispatch(cmd ast.Command, stdin, stdout *os.File, connected bool) (func() int, int) {
	forceFork := cmd.ForceFork()

	simple, isSimple := cmd.(*ast.Simple)
	if !isSimple {
		if !connected && !forceFork {
			status := ip.execCompound(ip.Core, cmd, stdin, stdout)
			return func() int { return status }, 0
		}
		child := ip.Core.Fork()
		in, out, err := dupPipeEnds(stdin, stdout)
		if err != nil {
			fmt.Fprintln(ip.Core.Stderr, "pipe dup:", err)
			return func() int { return 1 }, 0
		}
		done := make(chan int, 1)
		go func() {
			defer closeFiles(in, out)
			done <- ip.execCompound(child, cmd, in, out)
		}()
		return func() int { return <-done }, 0
	}

	cfg := ip.expandConfig()
	if err := expandSimple(simple, cfg); err != nil {
		fmt.Fprintln(ip.Core.Stderr, err)
		return func() int { return 1 }, 0
	}
	if len(simple.Args) == 0 {
		for _, a := range simple.EvaluatedSubs {
			applyAssign(ip.Core, a)
		}
		return func() int { return 0 }, 0
	}

	name := simple.Args[0]
	_, isBuiltin := ip.Core.Builtins[name]
	fn, isFunc := ip.Core.Functions[name]

	if !forceFork && !connected && (isBuiltin || isFunc) {
		status := ip.runSimpleInCore(ip.Core, simple, stdin, stdout, name, isBuiltin, fn)
		return func() int { return status }, 0
	}
	if isBuiltin || isFunc {
		child := ip.Core.Fork()
		in, out, err := dupPipeEnds(stdin, stdout)
		if err != nil {
			fmt.Fprintln(ip.Core.Stderr, "pipe dup:", err)
			return func() int { return 1 }, 0
		}
		done := make(chan int, 1)
		go func() {
			defer closeFiles(in, out)
			done <- ip.runSimpleInCore(child, simple, in, out, name, isBuiltin, fn)
		}()
		return func() int { return <-done }, 0
	}
	return ip.execExternal(simple, stdin, stdout)
}

// dupPipeEnds gives a goroutine-simulated fork (execCompound/runSimpleInCore
// run concurrently over a cloned ShellCore, not a real child process) its
// own descriptors for the pipe ends connected to it. startPipeline closes
// its own stdin/stdoutW the instant dispatch returns, regardless of whether
// the stage is still running; without a private dup, that Close would
// revoke the fd the goroutine is still writing to or reading from.
func dupPipeEnds(stdin, stdout *os.File) (*os.File, *os.File, error) {
	in, err := dupFileOrNil(stdin)
	if err != nil {
		return nil, nil, err
	}
	out, err := dupFileOrNil(stdout)
	if err != nil {
		closeFiles(in)
		return nil, nil, err
	}
	return in, out, nil
}

func dupFileOrNil(f *os.File) (*os.File, error) {
	if f == nil {
		return nil, nil
	}
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}

// runSimpleInCore runs a builtin or function invocation against c. Leading
// assignments (A=1 B=2 cmd) are applied in a scope pushed just for this
// call and popped once it returns, so they behave as locals visible to the
// callee without leaking into the calling scope (spec.md §5), mirroring
// original_source/src/elements/command/simple.rs's run: push a fresh
// parameters/arrays layer, set the assignments there, run, pop.
func (ip *Interp) runSimpleInCore(c *core.ShellCore, simple *ast.Simple, stdin, stdout *os.File, name string, isBuiltin bool, fn *ast.Function) int {
	restore := ip.applyRedirects(c, simple.Redirects(), stdin, stdout)
	defer restore()
	c.PushScope()
	defer c.PopScope()
	for _, a := range simple.EvaluatedSubs {
		applyLocalAssign(c, a)
	}
	if ip.Core.Sigint.Load() {
		return 130
	}
	if isBuiltin {
		return c.Builtins[name](c, simple.Args)
	}
	sub := &Interp{Core: c, Parse: ip.Parse}
	return sub.callFunction(fn, simple.Args[1:])
}

func (ip *Interp) callFunction(fn *ast.Function, args []string) int {
	c := ip.Core
	c.PushScope()
	saved := c.Positional()
	c.SetPositional(args)
	c.LoopLevel = 0
	status := ip.RunScript(fn.Body)
	if c.ReturnFlag {
		status = c.ReturnStatus
		c.ReturnFlag = false
	}
	c.SetPositional(saved)
	c.PopScope()
	return status
}

// applyAssign is a true assignment statement's semantics (spec.md §5: "when
// the command has no argv, update the current scope") — it may overwrite a
// variable an outer scope already declares, the same as plain `Set`.
func applyAssign(c *core.ShellCore, a ast.EvaluatedAssign) {
	switch a.Kind {
	case ast.ValArray:
		c.SetArray(a.Name, a.Items)
	default:
		c.Set(a.Name, a.Value)
	}
}

// applyLocalAssign is a simple command's prefix-assignment semantics: the
// name is always shadowed in the scope runSimpleInCore just pushed, never
// mutating a variable an enclosing scope owns, so it vanishes once that
// scope is popped (spec.md §5).
func applyLocalAssign(c *core.ShellCore, a ast.EvaluatedAssign) {
	switch a.Kind {
	case ast.ValArray:
		c.SetLocalArray(a.Name, a.Items)
	default:
		c.SetLocal(a.Name, a.Value)
	}
}
