// Command sush is the interactive/non-interactive CLI entry point of
// spec.md §6: it wires package feeder's line source, package parser's
// recursive-descent parser, package core's ShellCore, and package interp's
// executor together, and implements the top-level error-recovery loop of
// spec.md §7 (catch everything, reset transient state, re-prompt).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/core"
	"github.com/sush-shell/sush/feeder"
	"github.com/sush-shell/sush/interp"
	"github.com/sush-shell/sush/parser"
)

var (
	flagInteractive = flag.Bool("i", false, "run interactively")
	flagErrexit     = flag.Bool("e", false, "exit immediately if a pipeline returns nonzero")
	flagCommand     = flag.String("c", "", "run CMD as a single command string and exit")
)

func main() {
	os.Exit(main1())
}

// main1 is the testable body of main: testscript.RunMain re-invokes this as
// a subprocess command, so it must not call os.Exit itself.
func main1() int {
	flag.Parse()
	return run()
}

func run() int {
	c := core.New(os.Stdin, os.Stdout, os.Stderr)
	c.Errexit = *flagErrexit

	var ip *interp.Interp
	parse := func(src string) (*ast.Script, error) {
		p := parser.New(feeder.NewFromString(src))
		return p.ParseTopLevel()
	}
	ip = interp.New(c, parse)

	switch {
	case *flagCommand != "":
		c.Interactive = false
		c.SetPositional(flag.Args())
		return runString(ip, *flagCommand)
	case flag.NArg() > 0:
		c.Interactive = false
		path := flag.Arg(0)
		c.SetPositional(flag.Args()[1:])
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sush: %v\n", err)
			return 127
		}
		defer f.Close()
		return runReader(ip, f)
	case *flagInteractive || feeder.IsInteractive(os.Stdin):
		c.Interactive = true
		return runInteractive(ip)
	default:
		c.Interactive = false
		return runReader(ip, os.Stdin)
	}
}

// runString runs src as a single non-interactive script, per the `-c CMD`
// flag (spec.md §6).
func runString(ip *interp.Interp, src string) int {
	p := parser.New(feeder.NewFromString(src))
	return runParsed(ip, p)
}

// runReader drains r to EOF as one non-interactive script.
func runReader(ip *interp.Interp, r io.Reader) int {
	src := feeder.NewStdinSource(r)
	f := feeder.New(src, false, nil, nil)
	if !f.FeedLine(nil) {
		return ip.Core.LastStatus
	}
	p := parser.New(f)
	return runParsed(ip, p)
}

func runParsed(ip *interp.Interp, p *parser.Parser) int {
	sc, err := p.ParseTopLevel()
	if err != nil {
		fmt.Fprintln(ip.Core.Stderr, err)
		return 2
	}
	ip.RunScript(sc)
	if ip.Core.ExitRequested {
		return ip.Core.ExitCode
	}
	return ip.Core.LastStatus
}

// ps1/ps2 read their prompt strings from the variable store on demand
// (spec.md §6: "Both are read from the variable store on demand"),
// defaulting to bash's own defaults when unset.
func ps1(c *core.ShellCore) func() string {
	return func() string {
		if v, ok := c.Get("PS1"); ok {
			return v
		}
		return "$ "
	}
}

func ps2(c *core.ShellCore) func() string {
	return func() string {
		if v, ok := c.Get("PS2"); ok {
			return v
		}
		return "> "
	}
}

// runInteractive drives the terminal front end: read one top-level line
// with PS1, parse (pulling PS2 continuation lines as the parser discovers
// unterminated constructs), run, reset transient state, and re-prompt —
// the error-recovery loop of spec.md §7. Installing a real SIGINT handler
// is the out-of-scope "signal-handler installation" collaborator of
// spec.md §1; ShellCore.Sigint is read but nothing in this binary sets it.
func runInteractive(ip *interp.Interp) int {
	c := ip.Core
	src := feeder.NewTerminalSource(os.Stdin, os.Stdout)
	f := feeder.New(src, true, ps1(c), ps2(c))

	status := 0
	for {
		if f.Len() == 0 {
			if !f.FeedLine(nil) {
				break
			}
		}
		p := parser.New(f)
		sc, err := p.ParseTopLevel()
		if err != nil {
			fmt.Fprintln(c.Stderr, err)
			c.LastStatus = 2
			status = 2
			// Discard the rest of the unparsed buffer (spec.md §7 tier 1)
			// and any nesting/backup state the failed attempt left behind.
			f = feeder.New(src, true, ps1(c), ps2(c))
			c.SuspendErrexit = false
			continue
		}
		ip.RunScript(sc)
		status = c.LastStatus
		if c.ExitRequested {
			return c.ExitCode
		}
	}
	return status
}
