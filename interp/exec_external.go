package interp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/core"
)

// execExternal runs an external command via os/exec.Cmd, Go's stand-in for
// fork+exec (grounded on the teacher's handler_unix.go: a dedicated process
// group via SysProcAttr, so SIGINT reaches the whole job). It returns a
// waiter yielding the exit status per spec.md §7's exec-error taxonomy, and
// the child's pid (0 if Start failed) for `$!`.
func (ip *Interp) execExternal(simple *ast.Simple, stdin, stdout *os.File) (func() int, int) {
	c := ip.Core
	restore := ip.applyRedirects(c, simple.Redirects(), stdin, stdout)

	cmd := exec.Command(simple.Args[0], simple.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.Stdin, c.Stdout, c.Stderr
	cmd.Dir = c.Dir
	// Leading assignments are visible to this command's environment without
	// polluting the calling scope (spec.md §5): append, don't apply them.
	cmd.Env = append(c.Environ(), assignEnviron(simple.EvaluatedSubs)...)
	prepareCommand(cmd)

	err := cmd.Start()
	restore()
	if err != nil {
		status := execStartStatus(err)
		fmt.Fprintf(c.Stderr, "%s: %v\n", simple.Args[0], err)
		return func() int { return status }, 0
	}

	stop := make(chan struct{})
	go watchSigint(c, cmd, stop)
	wait := func() int {
		err := cmd.Wait()
		close(stop)
		return execWaitStatus(err)
	}
	return wait, cmd.Process.Pid
}

// watchSigint polls c.Sigint while an external command runs in the
// foreground and forwards it to the command's process group (spec.md §5),
// since the os/exec child has no direct line to a signal delivered to us.
func watchSigint(c *core.ShellCore, cmd *exec.Cmd, stop chan struct{}) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.Sigint.Load() {
				interruptCommand(cmd)
				return
			}
		}
	}
}

// assignEnviron renders a Simple command's leading assignments as KEY=VALUE
// environment entries for an external child; array assignments have no
// environment representation and are skipped.
func assignEnviron(subs []ast.EvaluatedAssign) []string {
	var env []string
	for _, a := range subs {
		if a.Kind == ast.ValSingle {
			env = append(env, a.Name+"="+a.Value)
		}
	}
	return env
}

// execStartStatus classifies a Start failure per spec.md §7 tier 4.
func execStartStatus(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return 127
	case errors.Is(err, fs.ErrPermission):
		return 126
	case errors.Is(err, exec.ErrNotFound):
		return 127
	default:
		return 127
	}
}

// execWaitStatus derives the exit status after Wait, including the
// "128+signo" convention for signal death (spec.md §4.5 step 5).
func execWaitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				sig := int(status.Signal())
				if sig == int(syscall.SIGINT) {
					return 130
				}
				return 128 + sig
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 127
}
