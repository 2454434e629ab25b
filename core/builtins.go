package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/u-root/u-root/pkg/core"
	"github.com/u-root/u-root/pkg/core/base64"
	"github.com/u-root/u-root/pkg/core/cat"
	"github.com/u-root/u-root/pkg/core/chmod"
	"github.com/u-root/u-root/pkg/core/cp"
	"github.com/u-root/u-root/pkg/core/find"
	"github.com/u-root/u-root/pkg/core/ls"
	"github.com/u-root/u-root/pkg/core/mkdir"
	"github.com/u-root/u-root/pkg/core/mv"
	"github.com/u-root/u-root/pkg/core/rm"
	"github.com/u-root/u-root/pkg/core/touch"
)

// registerBuiltins builds the table spec.md §3 calls "a builtin table (name
// -> handler)": a handful of shell builtins that must mutate ShellCore
// directly (cd, exit, export, set, unset, shift, local, break, continue,
// return, eval, :, true, false, test/[), backed by the u-root coreutils
// implementations for everything else, the same library the teacher wires
// as an ExecHandler middleware in moreinterp/coreutils.
func registerBuiltins() map[string]Builtin {
	b := map[string]Builtin{
		":":        func(c *ShellCore, argv []string) int { return 0 },
		"true":     func(c *ShellCore, argv []string) int { return 0 },
		"false":    func(c *ShellCore, argv []string) int { return 1 },
		"cd":       builtinCd,
		"exit":     builtinExit,
		"export":   builtinExport,
		"unset":    builtinUnset,
		"set":      builtinSet,
		"shift":    builtinShift,
		"local":    builtinLocal,
		"break":    builtinBreak,
		"continue": builtinContinue,
		"return":   builtinReturn,
		"eval":     builtinEval,
		"test":     builtinTest,
		"[":        builtinTest,
		"echo":     builtinEcho,
		"pwd":      builtinPwd,
	}
	for name, build := range coreUtilBuilders {
		name, build := name, build
		b[name] = func(c *ShellCore, argv []string) int {
			return runCoreUtil(c, build(), argv[1:])
		}
	}
	return b
}

var coreUtilBuilders = map[string]func() core.Command{
	"cat":   func() core.Command { return cat.New() },
	"chmod": func() core.Command { return chmod.New() },
	"cp":    func() core.Command { return cp.New() },
	"find":  func() core.Command { return find.New() },
	"ls":    func() core.Command { return ls.New() },
	"mkdir": func() core.Command { return mkdir.New() },
	"mv":    func() core.Command { return mv.New() },
	"rm":    func() core.Command { return rm.New() },
	"touch": func() core.Command { return touch.New() },
	"b64":   func() core.Command { return base64.New() },
}

func runCoreUtil(c *ShellCore, cmd core.Command, args []string) int {
	cmd.SetIO(c.Stdin, c.Stdout, c.Stderr)
	cmd.SetWorkingDir(c.Dir)
	cmd.SetLookupEnv(func(key string) (string, bool) { return c.Get(key) })
	if err := cmd.RunContext(context.Background(), args...); err != nil {
		fmt.Fprintln(c.Stderr, err)
		return 1
	}
	return 0
}

func builtinCd(c *ShellCore, argv []string) int {
	dir := c.Home()
	if len(argv) > 1 {
		dir = argv[1]
		if dir == "-" {
			if old, ok := c.Get("OLDPWD"); ok {
				dir = old
			}
		}
	}
	if dir == "" {
		fmt.Fprintln(c.Stderr, "cd: HOME not set")
		return 1
	}
	if !strings.HasPrefix(dir, "/") {
		dir = c.Dir + "/" + dir
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(c.Stderr, "cd: %s: No such file or directory\n", argv[len(argv)-1])
		return 1
	}
	c.Set("OLDPWD", c.Dir)
	c.Dir = dir
	c.Set("PWD", dir)
	return 0
}

func builtinPwd(c *ShellCore, argv []string) int {
	fmt.Fprintln(c.Stdout, c.Dir)
	return 0
}

func builtinExit(c *ShellCore, argv []string) int {
	code := c.LastStatus
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil {
			code = n
		}
	}
	c.ExitRequested = true
	c.ExitCode = code & 0xff
	return c.ExitCode
}

func builtinExport(c *ShellCore, argv []string) int {
	for _, a := range argv[1:] {
		name, value, has := strings.Cut(a, "=")
		if has {
			c.Set(name, value)
		}
		c.Export(name)
	}
	return 0
}

func builtinUnset(c *ShellCore, argv []string) int {
	for _, name := range argv[1:] {
		c.Unset(name)
	}
	return 0
}

func builtinLocal(c *ShellCore, argv []string) int {
	for _, a := range argv[1:] {
		name, value, has := strings.Cut(a, "=")
		if has {
			c.top().vars[name] = value
		} else if _, exists := c.top().vars[name]; !exists {
			c.top().vars[name] = ""
		}
	}
	return 0
}

func builtinShift(c *ShellCore, argv []string) int {
	n := 1
	if len(argv) > 1 {
		if v, err := strconv.Atoi(argv[1]); err == nil {
			n = v
		}
	}
	if err := c.Shift(n); err != nil {
		fmt.Fprintln(c.Stderr, "shift:", err)
		return 1
	}
	return 0
}

func builtinBreak(c *ShellCore, argv []string) int {
	n := 1
	if len(argv) > 1 {
		if v, err := strconv.Atoi(argv[1]); err == nil && v > 0 {
			n = v
		}
	}
	c.BreakCounter = n
	return 0
}

func builtinContinue(c *ShellCore, argv []string) int {
	c.BreakCounter = -1 // interp treats -1 as "exit this iteration only"
	return 0
}

func builtinReturn(c *ShellCore, argv []string) int {
	code := c.LastStatus
	if len(argv) > 1 {
		if v, err := strconv.Atoi(argv[1]); err == nil {
			code = v
		}
	}
	c.ReturnFlag = true
	c.ReturnStatus = code
	return code
}

func builtinEval(c *ShellCore, argv []string) int {
	if c.Eval == nil {
		fmt.Fprintln(c.Stderr, "eval: not available")
		return 1
	}
	return c.Eval(c, strings.Join(argv[1:], " "))
}

func builtinEcho(c *ShellCore, argv []string) int {
	args := argv[1:]
	newline := true
	for len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	fmt.Fprint(c.Stdout, strings.Join(args, " "))
	if newline {
		fmt.Fprintln(c.Stdout)
	}
	return 0
}

// builtinSet implements a small subset of `set`: "-e"/"+e" (errexit),
// "-u"/"+u" (nounset), "-f"/"+f" (noglob), and "--" followed by new
// positional parameters.
func builtinSet(c *ShellCore, argv []string) int {
	args := argv[1:]
	i := 0
	for i < len(args) {
		a := args[i]
		if a == "--" {
			i++
			break
		}
		if len(a) != 2 || (a[0] != '-' && a[0] != '+') {
			break
		}
		on := a[0] == '-'
		switch a[1] {
		case 'e':
			c.Errexit = on
		case 'u':
			c.NoUnset = on
		case 'f':
			c.NoGlob = on
		default:
			fmt.Fprintf(c.Stderr, "set: unknown option %q\n", a)
			return 1
		}
		i++
	}
	if i < len(args) {
		c.SetPositional(args[i:])
	}
	return 0
}
