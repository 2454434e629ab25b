// Package core implements ShellCore (spec.md §3): the process-wide state
// threaded by mutable reference through every component — variable scopes,
// the function and builtin tables, loop bookkeeping, and the flags the
// executor and prompt loop synchronize on.
package core

import (
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/sush-shell/sush/ast"
)

// Builtin is the contract spec.md §6 gives external builtins:
// fn(core, argv) -> exit_status. argv is always non-empty.
type Builtin func(c *ShellCore, argv []string) int

// Scope is one frame of the variable-scope stack: a mapping name->string and
// a mapping name->vector, matching spec.md §3's ShellCore description.
type Scope struct {
	vars     map[string]string
	arrays   map[string][]string
	exported map[string]bool
}

func newScope() *Scope {
	return &Scope{vars: map[string]string{}, arrays: map[string][]string{}, exported: map[string]bool{}}
}

// ShellCore is the process-wide state described in spec.md §3.
type ShellCore struct {
	scopes    []*Scope
	Functions map[string]*ast.Function
	Builtins  map[string]Builtin

	Interactive  bool
	Sigint       atomic.Bool
	LoopLevel    int
	BreakCounter int
	ReturnFlag   bool
	ReturnStatus int
	SuspendErrexit bool
	Errexit      bool
	NoUnset      bool
	NoGlob       bool

	LastStatus int
	positional []string
	LastBgPid  int
	Pid        int

	// ExitRequested/ExitCode implement the `exit` builtin: every nesting
	// level's command loop checks ExitRequested after running a command and
	// propagates upward instead of continuing, until cmd/sush's top level
	// turns it into a process exit. Inside a "( ... )" subshell,
	// interp's execCompound clears it once the subshell's script returns,
	// so only the subshell stops.
	ExitRequested bool
	ExitCode      int

	// Eval lets the "eval" builtin parse and run a new script without core
	// importing package interp (which itself imports core); interp.New
	// wires this on construction.
	Eval func(c *ShellCore, src string) int

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	Dir    string
}

// New returns a ShellCore with one (global) scope, the coreutils-fallback
// and shell-builtin tables registered, and its working directory set to the
// process's current directory.
func New(stdin, stdout, stderr *os.File) *ShellCore {
	c := &ShellCore{
		scopes:    []*Scope{newScope()},
		Functions: map[string]*ast.Function{},
		Pid:       os.Getpid(),
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
	}
	if wd, err := os.Getwd(); err == nil {
		c.Dir = wd
	}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				c.Set(kv[:i], kv[i+1:])
				c.Export(kv[:i])
				break
			}
		}
	}
	if _, ok := c.Get("IFS"); !ok {
		c.Set("IFS", " \t\n")
	}
	c.Builtins = registerBuiltins()
	return c
}

// PushScope opens a new variable-scope frame (function calls, subshells).
func (c *ShellCore) PushScope() { c.scopes = append(c.scopes, newScope()) }

// PopScope closes the innermost variable-scope frame.
func (c *ShellCore) PopScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

func (c *ShellCore) top() *Scope { return c.scopes[len(c.scopes)-1] }

// Get implements expand.Env: scalar lookup plus the special parameters
// spec.md §6 lists ($?, $$, $!, $#, $N, $@, $*).
func (c *ShellCore) Get(name string) (string, bool) {
	switch name {
	case "?":
		return strconv.Itoa(c.LastStatus), true
	case "$":
		return strconv.Itoa(c.Pid), true
	case "!":
		if c.LastBgPid == 0 {
			return "", false
		}
		return strconv.Itoa(c.LastBgPid), true
	case "#":
		return strconv.Itoa(len(c.positional)), true
	case "@", "*":
		return joinFields(c.positional), true
	}
	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		if n > len(c.positional) {
			return "", false
		}
		return c.positional[n-1], true
	}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i].vars[name]; ok {
			return v, true
		}
		if _, ok := c.scopes[i].arrays[name]; ok {
			return "", false
		}
	}
	return "", false
}

func joinFields(fs []string) string {
	out := ""
	for i, f := range fs {
		if i > 0 {
			out += " "
		}
		out += f
	}
	return out
}

// GetArray implements expand.Env.
func (c *ShellCore) GetArray(name string) ([]string, bool) {
	if name == "@" || name == "*" {
		return c.positional, true
	}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i].arrays[name]; ok {
			return v, true
		}
		if _, ok := c.scopes[i].vars[name]; ok {
			return nil, false
		}
	}
	return nil, false
}

// Set implements expand.Env: assigns in the innermost scope that already
// holds name, or the current scope if none does.
func (c *ShellCore) Set(name, value string) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i].vars[name]; ok {
			c.scopes[i].vars[name] = value
			return
		}
	}
	c.top().vars[name] = value
}

// SetLocal assigns name in the current (innermost) scope only, even if an
// outer scope already declares it — used for a simple command's prefix
// assignments (A=1 B=2 cmd), which shadow for that command's duration and
// must never mutate a variable an enclosing scope already owns (spec.md
// §5).
func (c *ShellCore) SetLocal(name, value string) { c.top().vars[name] = value }

// SetLocalArray is SetLocal's array-assignment counterpart.
func (c *ShellCore) SetLocalArray(name string, values []string) { c.top().arrays[name] = values }

// SetArray assigns an array variable in the innermost scope that already
// holds it as an array, or the current scope if none does.
func (c *ShellCore) SetArray(name string, values []string) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i].arrays[name]; ok {
			c.scopes[i].arrays[name] = values
			return
		}
	}
	c.top().arrays[name] = values
}

// Unset removes name from whichever scope holds it.
func (c *ShellCore) Unset(name string) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		delete(c.scopes[i].vars, name)
		delete(c.scopes[i].arrays, name)
		delete(c.scopes[i].exported, name)
	}
}

// Export marks name for inclusion in a child process's environment.
func (c *ShellCore) Export(name string) { c.top().exported[name] = true }

// IsExported reports whether name is marked for export in any active scope.
func (c *ShellCore) IsExported(name string) bool {
	for _, s := range c.scopes {
		if s.exported[name] {
			return true
		}
	}
	return false
}

// Positional implements expand.Env.
func (c *ShellCore) Positional() []string { return c.positional }

// SetPositional replaces $1..$N (used by function calls and `set --`).
func (c *ShellCore) SetPositional(args []string) { c.positional = args }

// Shift implements the `shift [n]` builtin's semantics.
func (c *ShellCore) Shift(n int) error {
	if n < 0 || n > len(c.positional) {
		return fmt.Errorf("shift count out of range")
	}
	c.positional = c.positional[n:]
	return nil
}

// IFS implements expand.Env.
func (c *ShellCore) IFS() string {
	if v, ok := c.Get("IFS"); ok {
		return v
	}
	return " \t\n"
}

// Home implements expand.Env.
func (c *ShellCore) Home() string {
	v, _ := c.Get("HOME")
	return v
}

// Fork returns a copy of c suitable for a simulated "child" — a goroutine
// or external process standing in for fork(2), per spec.md §5 ("forked
// children receive a snapshot and mutate only their own copy"). Scope maps
// are deep-copied so the child's variable writes never leak to the parent;
// Stdin/Stdout/Stderr/Dir start equal to the parent's and are overwritten
// by redirection/pipe wiring as needed.
func (c *ShellCore) Fork() *ShellCore {
	scopes := make([]*Scope, len(c.scopes))
	for i, s := range c.scopes {
		ns := newScope()
		for k, v := range s.vars {
			ns.vars[k] = v
		}
		for k, v := range s.arrays {
			ns.arrays[k] = append([]string(nil), v...)
		}
		for k, v := range s.exported {
			ns.exported[k] = v
		}
		scopes[i] = ns
	}
	child := &ShellCore{
		scopes:     scopes,
		Functions:  c.Functions,
		Builtins:   c.Builtins,
		Interactive: c.Interactive,
		LastStatus: c.LastStatus,
		positional: append([]string(nil), c.positional...),
		Pid:        c.Pid,
		Stdin:      c.Stdin,
		Stdout:     c.Stdout,
		Stderr:     c.Stderr,
		Dir:        c.Dir,
		Errexit:    c.Errexit,
		NoUnset:    c.NoUnset,
		NoGlob:     c.NoGlob,
		Eval:       c.Eval,
	}
	return child
}

// Environ builds the environment block a forked child should inherit: every
// exported variable across every active scope, innermost wins.
func (c *ShellCore) Environ() []string {
	merged := map[string]string{}
	for _, s := range c.scopes {
		for name := range s.exported {
			if v, ok := s.vars[name]; ok {
				merged[name] = v
			}
		}
	}
	// exported names set in an outer scope but overwritten (without
	// re-export) in an inner one still reflect the innermost value, per Get.
	for name := range merged {
		if v, ok := c.Get(name); ok {
			merged[name] = v
		}
	}
	out := make([]string, 0, len(merged))
	for name, v := range merged {
		out = append(out, name+"="+v)
	}
	return out
}
