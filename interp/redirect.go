package interp

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/core"
	"github.com/sush-shell/sush/expand"
)

// applyRedirects rewires c.Stdin/Stdout/Stderr (and opens any files the
// redirects name) for a command about to run in-process, returning a
// closure that restores the previous files. stdin/stdout are the pipeline
// recipe's pipe ends, applied first so an explicit redirect can still
// override them. Any $(...) inside a redirect target or heredoc body is
// resolved through ip.cmdSubst, so it shares the same executor and
// ShellCore as the rest of the command.
func (ip *Interp) applyRedirects(c *core.ShellCore, redirs []*ast.Redirect, pipeIn, pipeOut *os.File) func() {
	savedIn, savedOut, savedErr := c.Stdin, c.Stdout, c.Stderr
	if pipeIn != nil {
		c.Stdin = pipeIn
	}
	if pipeOut != nil {
		c.Stdout = pipeOut
	}
	var opened []*os.File
	for _, r := range redirs {
		f, target, err := ip.openRedirect(c, r)
		if err != nil {
			fmt.Fprintln(savedErr, err)
			continue
		}
		if f != nil {
			opened = append(opened, f)
		}
		switch target {
		case 0:
			c.Stdin = f
		case 1:
			c.Stdout = f
		case 2:
			c.Stderr = f
		}
	}
	return func() {
		for _, f := range opened {
			f.Close()
		}
		c.Stdin, c.Stdout, c.Stderr = savedIn, savedOut, savedErr
	}
}

// openRedirect evaluates one Redirect's word and returns the *os.File to
// install at the target fd (spec.md §4.5's "open the RHS file or dup the
// RHS fd").
func (ip *Interp) openRedirect(c *core.ShellCore, r *ast.Redirect) (*os.File, int, error) {
	target := r.DefaultFd()
	cfg := &expand.Config{Env: c, CmdSubst: ip.cmdSubst}
	word := ""
	if r.Word != nil {
		w, err := expand.Literal(r.Word, cfg)
		if err != nil {
			return nil, target, err
		}
		word = w
	}
	switch r.Op {
	case ast.RedirLess:
		f, err := os.Open(word)
		return f, target, wrapOpenErr(err, word)
	case ast.RedirGreat:
		f, err := os.OpenFile(word, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		return f, target, wrapOpenErr(err, word)
	case ast.RedirAppend:
		f, err := os.OpenFile(word, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		return f, target, wrapOpenErr(err, word)
	case ast.RedirAll, ast.RedirAllAppend:
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if r.Op == ast.RedirAllAppend {
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		f, err := os.OpenFile(word, flags, 0644)
		if err != nil {
			return nil, target, wrapOpenErr(err, word)
		}
		c.Stdout = f
		c.Stderr = f
		return f, 1, nil
	case ast.RedirReadWrite:
		f, err := os.OpenFile(word, os.O_RDWR|os.O_CREATE, 0644)
		return f, target, wrapOpenErr(err, word)
	case ast.RedirDupOut, ast.RedirDupIn:
		return dupFd(c, word, target)
	case ast.RedirHeredoc, ast.RedirHeredocTab:
		return openHeredoc(c, r, cfg)
	case ast.RedirHereString:
		return openHereString(word)
	}
	return nil, target, fmt.Errorf("unsupported redirection")
}

func wrapOpenErr(err error, name string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// dupFd implements ">&n"/"<&n": n names another already-open descriptor on
// c (0/1/2), which this redirect's target should become a dup of. The
// returned file is a fresh duplicate, not the original c.Stdin/Stdout/Stderr
// file — applyRedirects closes whatever openRedirect hands back once the
// command finishes, and closing the original would break the fd for
// whoever's still holding it.
func dupFd(c *core.ShellCore, n string, target int) (*os.File, int, error) {
	var src *os.File
	switch n {
	case "0":
		src = c.Stdin
	case "1":
		src = c.Stdout
	case "2":
		src = c.Stderr
	default:
		return nil, target, fmt.Errorf("%s: Bad file descriptor", n)
	}
	if src == nil {
		return nil, target, fmt.Errorf("%s: Bad file descriptor", n)
	}
	fd, err := unix.Dup(int(src.Fd()))
	if err != nil {
		return nil, target, fmt.Errorf("%s: %w", n, err)
	}
	return os.NewFile(uintptr(fd), src.Name()), target, nil
}

// openHeredoc writes the heredoc body (already literal text from parsing)
// to an atomically-created temp file via renameio, matching spec.md §9's
// resolution that heredocs are materialized rather than streamed through an
// anonymous pipe — letting `<<` interact safely with programs that seek on
// their stdin.
func openHeredoc(c *core.ShellCore, r *ast.Redirect, cfg *expand.Config) (*os.File, int, error) {
	body, err := expand.Literal(r.Hdoc, cfg)
	if err != nil {
		return nil, 0, err
	}
	f, err := writeHeredocTemp(body)
	if err != nil {
		return nil, 0, err
	}
	return f, 0, nil
}

func openHereString(s string) (*os.File, int, error) {
	f, err := writeHeredocTemp(s + "\n")
	if err != nil {
		return nil, 0, err
	}
	return f, 0, nil
}
