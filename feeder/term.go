package feeder

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// StdinSource reads lines from a plain (non-interactive) io.Reader, for
// piped/`-c`-free script-from-stdin invocation.
type StdinSource struct {
	r *bufio.Reader
}

// NewStdinSource wraps r for line-at-a-time reads.
func NewStdinSource(r io.Reader) *StdinSource {
	return &StdinSource{r: bufio.NewReader(r)}
}

// ReadLine implements LineSource. prompt is ignored: a non-interactive
// source never prompts.
func (s *StdinSource) ReadLine(prompt string) (string, bool) {
	line, err := s.r.ReadString('\n')
	if len(line) == 0 && err != nil {
		return "", false
	}
	return line, true
}

// TerminalSource reads lines from an interactive terminal, writing the
// prompt to out first. The out-of-scope line editor (history, key binding)
// is not reimplemented here; this is the minimal contract spec.md §1 and
// §6 ask for: something that renders PS1/PS2 and returns a line.
type TerminalSource struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminalSource builds a TerminalSource over in/out. fd is the file
// descriptor backing in, used only to query terminal width via
// golang.org/x/term for prompt-wrapping decisions.
func NewTerminalSource(in *os.File, out io.Writer) *TerminalSource {
	return &TerminalSource{in: bufio.NewReader(in), out: out, fd: int(in.Fd())}
}

// IsInteractive reports whether fd is attached to a terminal, used by
// cmd/sush to auto-detect -i when no flag was passed (spec.md §6).
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadLine writes prompt (truncated to the terminal width if it would wrap)
// and reads one line.
func (s *TerminalSource) ReadLine(prompt string) (string, bool) {
	if prompt != "" {
		s.writePrompt(prompt)
	}
	line, err := s.in.ReadString('\n')
	if len(line) == 0 && err != nil {
		return "", false
	}
	if len(line) > 0 && line[len(line)-1] != '\n' {
		line += "\n" // EOF without a trailing newline still terminates the line
	}
	return line, true
}

func (s *TerminalSource) writePrompt(prompt string) {
	if w, _, err := term.GetSize(s.fd); err == nil && w > 0 && len(prompt) > w {
		prompt = prompt[:w]
	}
	fmt.Fprint(s.out, prompt)
}
